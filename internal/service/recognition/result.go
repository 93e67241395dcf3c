package recognition

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

// RecognizeResult is the outcome of a recognition attempt. It is returned
// alongside domain.ErrEvidenceMismatch too, since a wrong guess still counts.
type RecognizeResult struct {
	EdgeState domain.EdgeState
	// Reputation of the target; nil when the guess was wrong.
	Reputation     *domain.Reputation
	UnlockedBadges []domain.Badge
	// Stats of the recognizer after the attempt was counted.
	RecognizerStats domain.RecognitionStats
}

// EdgeResult is the outcome of a revoke or challenge.
type EdgeResult struct {
	EdgeState           domain.EdgeState
	CanRecognizeAgainAt *time.Time
}

// EdgeView describes a directed edge as seen by its recognizer.
type EdgeView struct {
	RecognizerID        uuid.UUID
	TargetID            uuid.UUID
	State               domain.EdgeState
	EstablishedAt       *time.Time
	IsChallengeable     bool
	LastRevokedAt       *time.Time
	CanRecognizeAgainAt *time.Time
	// RecognizeCooldown is the wait before a re-recognition is allowed; zero when open.
	RecognizeCooldown time.Duration
	// RevokeCooldown is the wait before the edge may be revoked again; zero when open.
	RevokeCooldown time.Duration
	Compliments    []domain.Compliment
}

// Stats is the read-side projection of a participant's recognition graph.
type Stats struct {
	ParticipantID       uuid.UUID
	RecognizedCount     int
	RecognizedByCount   int
	MutualCount         int
	Reputation          domain.Reputation
	RecognitionRate     float64
	ComplimentsGiven    int
	ComplimentsReceived int
	// RecentCompliments are the latest compliments received, newest first.
	RecentCompliments []domain.Compliment
}
