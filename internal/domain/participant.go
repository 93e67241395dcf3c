package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is the aggregate the recognition engine reads and writes.
// Both sides of an edge live on different participants and are saved
// independently, guarded by Version.
type Participant struct {
	ID               uuid.UUID
	Alias            string
	Emoji            string
	RecognizedEdges  []RecognitionRecord
	RecognizerEdges  []RecognitionRecord
	RecognitionStats RecognitionStats
	Reputation       Reputation
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RecognitionRecord is one side of a directed recognition edge. The
// recognizer's copy lives in RecognizedEdges and is never deleted; the
// target's mirror lives in RecognizerEdges while the edge is not revoked.
type RecognitionRecord struct {
	CounterpartyID      uuid.UUID
	EstablishedAt       time.Time
	IsChallengeable     bool
	LastRevokedAt       *time.Time
	CanRecognizeAgainAt *time.Time
	Compliments         []Compliment
}

// Compliment is an append-only note attached to an edge.
type Compliment struct {
	Text      string
	CreatedAt time.Time
}

// RecognitionStats tracks a participant's own recognition attempts.
type RecognitionStats struct {
	TotalAttempts   int
	CorrectAttempts int
	SuccessRate     float64
	LastChallengeAt *time.Time
}

// Reputation holds the derived reputation of a participant.
// PeakRecognizers is the high-water mark badges are derived from.
type Reputation struct {
	Score           int
	PeakRecognizers int
	Badges          []BadgeUnlock
}

// BadgeUnlock records when a badge was first reached.
type BadgeUnlock struct {
	Badge           Badge
	FirstUnlockedAt time.Time
}

// Evidence is the proof a recognizer offers for a guess.
type Evidence struct {
	Kind      EvidenceKind
	Guess     string
	ContentID uuid.UUID
}

// NewRecognitionRecord creates a fresh edge record. Fresh edges are
// challengeable.
func NewRecognitionRecord(counterpartyID uuid.UUID, now time.Time) RecognitionRecord {
	return RecognitionRecord{
		CounterpartyID:  counterpartyID,
		EstablishedAt:   now,
		IsChallengeable: true,
	}
}

// RecognizedRecord returns the record for target in RecognizedEdges, or nil.
// The pointer aliases the slice element.
func (p *Participant) RecognizedRecord(targetID uuid.UUID) *RecognitionRecord {
	return findRecord(p.RecognizedEdges, targetID)
}

// RecognizerRecord returns the mirror record for recognizer in RecognizerEdges, or nil.
func (p *Participant) RecognizerRecord(recognizerID uuid.UUID) *RecognitionRecord {
	return findRecord(p.RecognizerEdges, recognizerID)
}

// RemoveRecognizer drops the mirror record for recognizerID.
// Reports whether a record was removed.
func (p *Participant) RemoveRecognizer(recognizerID uuid.UUID) bool {
	for i := range p.RecognizerEdges {
		if p.RecognizerEdges[i].CounterpartyID == recognizerID {
			p.RecognizerEdges = append(p.RecognizerEdges[:i], p.RecognizerEdges[i+1:]...)
			return true
		}
	}
	return false
}

// RecognizerCount is the number of participants currently recognizing p.
func (p *Participant) RecognizerCount() int {
	return len(p.RecognizerEdges)
}

// RecordAttempt counts a recognition attempt.
func (p *Participant) RecordAttempt(correct bool) {
	p.RecognitionStats.TotalAttempts++
	if correct {
		p.RecognitionStats.CorrectAttempts++
	}
	p.RecognitionStats.recomputeRate()
}

// RevokeCorrectAttempt takes back one correct attempt. TotalAttempts is
// never decremented.
func (p *Participant) RevokeCorrectAttempt() {
	if p.RecognitionStats.CorrectAttempts > 0 {
		p.RecognitionStats.CorrectAttempts--
	}
	p.RecognitionStats.recomputeRate()
}

func (s *RecognitionStats) recomputeRate() {
	if s.TotalAttempts == 0 {
		s.SuccessRate = 0
		return
	}
	s.SuccessRate = float64(s.CorrectAttempts) / float64(s.TotalAttempts) * 100
}

// HasBadge reports whether b has been unlocked.
func (r Reputation) HasBadge(b Badge) bool {
	for _, u := range r.Badges {
		if u.Badge == b {
			return true
		}
	}
	return false
}

// EdgeStateOf derives the state of the edge recognizer -> target from the
// two aggregates.
func EdgeStateOf(recognizer, target *Participant) EdgeState {
	rec := recognizer.RecognizedRecord(target.ID)
	if rec == nil {
		return EdgeStateNone
	}
	mirror := target.RecognizerRecord(recognizer.ID)
	if mirror == nil {
		return EdgeStateRevoked
	}
	if !mirror.IsChallengeable && rec.CanRecognizeAgainAt != nil {
		return EdgeStateChallengedReset
	}
	return EdgeStateActive
}

func findRecord(records []RecognitionRecord, counterpartyID uuid.UUID) *RecognitionRecord {
	for i := range records {
		if records[i].CounterpartyID == counterpartyID {
			return &records[i]
		}
	}
	return nil
}
