package participant

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

type participantRow struct {
	ID              uuid.UUID  `db:"id"`
	Alias           string     `db:"alias"`
	Emoji           string     `db:"emoji"`
	TotalAttempts   int        `db:"total_attempts"`
	CorrectAttempts int        `db:"correct_attempts"`
	SuccessRate     float64    `db:"success_rate"`
	LastChallengeAt *time.Time `db:"last_challenge_at"`
	Score           int        `db:"score"`
	PeakRecognizers int        `db:"peak_recognizers"`
	Badges          []byte     `db:"badges"`
	Version         int64      `db:"version"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

type edgeRow struct {
	Direction           string     `db:"direction"`
	CounterpartyID      uuid.UUID  `db:"counterparty_id"`
	EstablishedAt       time.Time  `db:"established_at"`
	IsChallengeable     bool       `db:"is_challengeable"`
	LastRevokedAt       *time.Time `db:"last_revoked_at"`
	CanRecognizeAgainAt *time.Time `db:"can_recognize_again_at"`
	Compliments         []byte     `db:"compliments"`
}

type badgeJSON struct {
	Badge           string    `json:"badge"`
	FirstUnlockedAt time.Time `json:"first_unlocked_at"`
}

type complimentJSON struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func toDomain(row participantRow, edges []edgeRow) (*domain.Participant, error) {
	p := &domain.Participant{
		ID:    row.ID,
		Alias: row.Alias,
		Emoji: row.Emoji,
		RecognitionStats: domain.RecognitionStats{
			TotalAttempts:   row.TotalAttempts,
			CorrectAttempts: row.CorrectAttempts,
			SuccessRate:     row.SuccessRate,
			LastChallengeAt: row.LastChallengeAt,
		},
		Reputation: domain.Reputation{
			Score:           row.Score,
			PeakRecognizers: row.PeakRecognizers,
		},
		Version:   row.Version,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	badges, err := decodeBadges(row.Badges)
	if err != nil {
		return nil, fmt.Errorf("participant %s: %w", row.ID, err)
	}
	p.Reputation.Badges = badges

	for _, e := range edges {
		compliments, err := decodeCompliments(e.Compliments)
		if err != nil {
			return nil, fmt.Errorf("participant %s edge %s: %w", row.ID, e.CounterpartyID, err)
		}
		rec := domain.RecognitionRecord{
			CounterpartyID:      e.CounterpartyID,
			EstablishedAt:       e.EstablishedAt,
			IsChallengeable:     e.IsChallengeable,
			LastRevokedAt:       e.LastRevokedAt,
			CanRecognizeAgainAt: e.CanRecognizeAgainAt,
			Compliments:         compliments,
		}
		switch e.Direction {
		case directionRecognized:
			p.RecognizedEdges = append(p.RecognizedEdges, rec)
		case directionRecognizer:
			p.RecognizerEdges = append(p.RecognizerEdges, rec)
		default:
			return nil, fmt.Errorf("participant %s: unknown edge direction %q", row.ID, e.Direction)
		}
	}

	return p, nil
}

func encodeBadges(badges []domain.BadgeUnlock) ([]byte, error) {
	out := make([]badgeJSON, 0, len(badges))
	for _, b := range badges {
		out = append(out, badgeJSON{Badge: b.Badge.String(), FirstUnlockedAt: b.FirstUnlockedAt})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode badges: %w", err)
	}
	return data, nil
}

func decodeBadges(data []byte) ([]domain.BadgeUnlock, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var in []badgeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}
	var out []domain.BadgeUnlock
	for _, b := range in {
		badge := domain.Badge(b.Badge)
		if !badge.IsValid() {
			return nil, fmt.Errorf("decode badges: unknown badge %q", b.Badge)
		}
		out = append(out, domain.BadgeUnlock{Badge: badge, FirstUnlockedAt: b.FirstUnlockedAt})
	}
	return out, nil
}

func encodeCompliments(cs []domain.Compliment) ([]byte, error) {
	out := make([]complimentJSON, 0, len(cs))
	for _, c := range cs {
		out = append(out, complimentJSON(c))
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode compliments: %w", err)
	}
	return data, nil
}

func decodeCompliments(data []byte) ([]domain.Compliment, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var in []complimentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode compliments: %w", err)
	}
	var out []domain.Compliment
	for _, c := range in {
		out = append(out, domain.Compliment(c))
	}
	return out, nil
}
