package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditRecord logs one mutation of a recognition edge. ActorID performed
// the action on the edge between ActorID and SubjectID.
type AuditRecord struct {
	ID        uuid.UUID
	ActorID   uuid.UUID
	SubjectID uuid.UUID
	Action    AuditAction
	Changes   map[string]any
	CreatedAt time.Time
}

// NewAuditRecord builds a record with a fresh id.
func NewAuditRecord(actorID, subjectID uuid.UUID, action AuditAction, changes map[string]any, now time.Time) AuditRecord {
	return AuditRecord{
		ID:        uuid.New(),
		ActorID:   actorID,
		SubjectID: subjectID,
		Action:    action,
		Changes:   changes,
		CreatedAt: now,
	}
}
