// Package reputation derives a participant's reputation from the number of
// participants currently recognizing them.
//
// Score tracks the current recognizer count; badges track the all-time
// high-water mark of that count, so a badge once unlocked is never lost.
package reputation

import (
	"time"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

const (
	// PointsPerRecognizer is the score contributed by each current recognizer.
	PointsPerRecognizer = 5
	// MaxScore caps the score.
	MaxScore = 100
)

// Threshold is a badge and the score that unlocks it.
type Threshold struct {
	Badge domain.Badge
	Score int
}

var thresholds = []Threshold{
	{Badge: domain.BadgeNovice, Score: 20},
	{Badge: domain.BadgeMaster, Score: 50},
	{Badge: domain.BadgeElite, Score: 75},
	{Badge: domain.BadgeLegend, Score: 100},
}

// Thresholds returns the badge ladder in ascending score order.
func Thresholds() []Threshold {
	out := make([]Threshold, len(thresholds))
	copy(out, thresholds)
	return out
}

// Result is the outcome of Compute.
type Result struct {
	Score  int
	Badges []domain.Badge
}

// Compute maps a recognizer count to a score and every badge that score
// has reached. Negative counts are treated as zero.
func Compute(recognizerCount int) Result {
	score := Score(recognizerCount)

	var badges []domain.Badge
	for _, th := range thresholds {
		if score >= th.Score {
			badges = append(badges, th.Badge)
		}
	}
	return Result{Score: score, Badges: badges}
}

// Score is min(count*5, 100).
func Score(recognizerCount int) int {
	if recognizerCount <= 0 {
		return 0
	}
	return min(recognizerCount*PointsPerRecognizer, MaxScore)
}

// Apply updates rep for the current recognizer count. The score follows
// the count; the high-water mark only rises and badges reached by it are
// appended once with FirstUnlockedAt = now. It returns the badges newly
// unlocked by this call, so running it twice is a no-op the second time.
func Apply(rep *domain.Reputation, recognizerCount int, now time.Time) []domain.Badge {
	rep.Score = Score(recognizerCount)
	if recognizerCount > rep.PeakRecognizers {
		rep.PeakRecognizers = recognizerCount
	}

	var unlocked []domain.Badge
	for _, b := range Compute(rep.PeakRecognizers).Badges {
		if rep.HasBadge(b) {
			continue
		}
		rep.Badges = append(rep.Badges, domain.BadgeUnlock{Badge: b, FirstUnlockedAt: now})
		unlocked = append(unlocked, b)
	}
	return unlocked
}
