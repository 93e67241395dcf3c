// Package audit implements the recognition audit trail using PostgreSQL.
// It provides append-only operations for audit log records.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/masquerade-backend/internal/adapter/postgres"
	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

const tableAuditLog = "audit_log"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var auditColumns = []string{"id", "actor_id", "subject_id", "action", "changes", "created_at"}

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

type auditRow struct {
	ID        uuid.UUID `db:"id"`
	ActorID   uuid.UUID `db:"actor_id"`
	SubjectID uuid.UUID `db:"subject_id"`
	Action    string    `db:"action"`
	Changes   []byte    `db:"changes"`
	CreatedAt time.Time `db:"created_at"`
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Log appends a record. Inside RunInTx it joins the caller's transaction,
// so the record is discarded together with a rolled back mutation.
func (r *Repo) Log(ctx context.Context, record domain.AuditRecord) error {
	changes := record.Changes
	if changes == nil {
		changes = map[string]any{}
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("audit_record marshal changes: %w", err)
	}

	query, args, err := psql.Insert(tableAuditLog).
		Columns(auditColumns...).
		Values(record.ID, record.ActorID, record.SubjectID, string(record.Action), changesJSON, record.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build audit insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "audit_record", record.ID)
	}
	return nil
}

// DeleteOlderThan removes records created before threshold and returns how
// many were deleted.
func (r *Repo) DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	query, args, err := psql.Delete(tableAuditLog).
		Where(squirrel.Lt{"created_at": threshold}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build audit delete: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete audit_records before %s: %w", threshold.Format(time.RFC3339), err)
	}
	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByParticipant returns the records where participantID is the actor
// or the subject, newest first.
func (r *Repo) ListByParticipant(ctx context.Context, participantID uuid.UUID, limit int) ([]domain.AuditRecord, error) {
	query, args, err := psql.Select(auditColumns...).
		From(tableAuditLog).
		Where(squirrel.Or{
			squirrel.Eq{"actor_id": participantID},
			squirrel.Eq{"subject_id": participantID},
		}).
		OrderBy("created_at DESC", "id").
		Limit(uint64(max(limit, 0))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}

	var rows []auditRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list audit_records for %s: %w", participantID, err)
	}

	records := make([]domain.AuditRecord, len(rows))
	for i, row := range rows {
		rec, err := toDomainAuditRecord(row)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func toDomainAuditRecord(row auditRow) (domain.AuditRecord, error) {
	record := domain.AuditRecord{
		ID:        row.ID,
		ActorID:   row.ActorID,
		SubjectID: row.SubjectID,
		Action:    domain.AuditAction(row.Action),
		CreatedAt: row.CreatedAt,
	}

	if len(row.Changes) > 0 {
		changes := make(map[string]any)
		if err := json.Unmarshal(row.Changes, &changes); err != nil {
			return domain.AuditRecord{}, fmt.Errorf("audit_record %s unmarshal changes: %w", row.ID, err)
		}
		record.Changes = changes
	}

	return record, nil
}
