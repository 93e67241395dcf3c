// Package participant implements the participant aggregate repository using
// PostgreSQL. A participant is stored as one participants row plus one
// recognition_edges row per record it owns.
package participant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/masquerade-backend/internal/adapter/postgres"
	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

const (
	tableParticipants = "participants"
	tableEdges        = "recognition_edges"

	directionRecognized = "recognized"
	directionRecognizer = "recognizer"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var participantColumns = []string{
	"id", "alias", "emoji",
	"total_attempts", "correct_attempts", "success_rate", "last_challenge_at",
	"score", "peak_recognizers", "badges",
	"version", "created_at", "updated_at",
}

var edgeColumns = []string{
	"direction", "counterparty_id", "established_at", "is_challengeable",
	"last_revoked_at", "can_recognize_again_at", "compliments",
}

// Repo provides participant persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new participant repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetByID loads the full aggregate: the participant row and all of its edges.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := psql.Select(participantColumns...).
		From(tableParticipants).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build participant query: %w", err)
	}

	var row participantRow
	if err := pgxscan.Get(ctx, q, &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "participant", id)
	}

	query, args, err = psql.Select(edgeColumns...).
		From(tableEdges).
		Where(squirrel.Eq{"owner_id": id}).
		OrderBy("direction", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build edges query: %w", err)
	}

	var edges []edgeRow
	if err := pgxscan.Select(ctx, q, &edges, query, args...); err != nil {
		return nil, postgres.MapError(err, "recognition_edges", id)
	}

	return toDomain(row, edges)
}

// Create inserts a new participant together with any edges it already owns.
// identityDigest is the bcrypt digest used by identity evidence; it may be nil.
func (r *Repo) Create(ctx context.Context, p *domain.Participant, identityDigest []byte) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	badges, err := encodeBadges(p.Reputation.Badges)
	if err != nil {
		return err
	}
	if p.Version == 0 {
		p.Version = 1
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	query, args, err := psql.Insert(tableParticipants).
		Columns(
			"id", "alias", "emoji", "identity_digest",
			"total_attempts", "correct_attempts", "success_rate", "last_challenge_at",
			"score", "peak_recognizers", "badges",
			"version", "created_at", "updated_at",
		).
		Values(
			p.ID, p.Alias, p.Emoji, identityDigest,
			p.RecognitionStats.TotalAttempts, p.RecognitionStats.CorrectAttempts,
			p.RecognitionStats.SuccessRate, p.RecognitionStats.LastChallengeAt,
			p.Reputation.Score, p.Reputation.PeakRecognizers, badges,
			p.Version, p.CreatedAt, p.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build participant insert: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "participant", p.ID)
	}

	return insertEdges(ctx, q, p)
}

// Save writes p back if its Version still matches the stored one, replaces
// all of its edges and bumps Version. A stale version yields
// domain.ErrConflict. Call it inside TxManager.RunInTx: the row update and
// the edge replacement are separate statements.
func (r *Repo) Save(ctx context.Context, p *domain.Participant) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	badges, err := encodeBadges(p.Reputation.Badges)
	if err != nil {
		return err
	}

	query, args, err := psql.Update(tableParticipants).
		Set("alias", p.Alias).
		Set("emoji", p.Emoji).
		Set("total_attempts", p.RecognitionStats.TotalAttempts).
		Set("correct_attempts", p.RecognitionStats.CorrectAttempts).
		Set("success_rate", p.RecognitionStats.SuccessRate).
		Set("last_challenge_at", p.RecognitionStats.LastChallengeAt).
		Set("score", p.Reputation.Score).
		Set("peak_recognizers", p.Reputation.PeakRecognizers).
		Set("badges", badges).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID, "version": p.Version}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build participant update: %w", err)
	}

	var (
		version   int64
		updatedAt time.Time
	)
	if err := q.QueryRow(ctx, query, args...).Scan(&version, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("participant %s at version %d: %w", p.ID, p.Version, domain.ErrConflict)
		}
		return postgres.MapError(err, "participant", p.ID)
	}

	if _, err := q.Exec(ctx, `DELETE FROM recognition_edges WHERE owner_id = $1`, p.ID); err != nil {
		return postgres.MapError(err, "recognition_edges", p.ID)
	}
	if err := insertEdges(ctx, q, p); err != nil {
		return err
	}

	p.Version = version
	p.UpdatedAt = updatedAt
	return nil
}

// ListIDs returns up to limit participant ids greater than after, in id
// order. Pass uuid.Nil to start from the beginning.
func (r *Repo) ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		return nil, domain.NewValidationError("limit", "must be positive")
	}

	builder := psql.Select("id").
		From(tableParticipants).
		OrderBy("id").
		Limit(uint64(limit))
	if after != uuid.Nil {
		builder = builder.Where(squirrel.Gt{"id": after})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &ids, query, args...); err != nil {
		return nil, postgres.MapError(err, "participants", after)
	}
	return ids, nil
}

func insertEdges(ctx context.Context, q postgres.Querier, p *domain.Participant) error {
	if len(p.RecognizedEdges) == 0 && len(p.RecognizerEdges) == 0 {
		return nil
	}

	builder := psql.Insert(tableEdges).Columns(
		"owner_id", "direction", "counterparty_id", "position",
		"established_at", "is_challengeable", "last_revoked_at", "can_recognize_again_at",
		"compliments",
	)

	add := func(direction string, records []domain.RecognitionRecord) error {
		for i, rec := range records {
			compliments, err := encodeCompliments(rec.Compliments)
			if err != nil {
				return err
			}
			builder = builder.Values(
				p.ID, direction, rec.CounterpartyID, i,
				rec.EstablishedAt, rec.IsChallengeable, rec.LastRevokedAt, rec.CanRecognizeAgainAt,
				compliments,
			)
		}
		return nil
	}
	if err := add(directionRecognized, p.RecognizedEdges); err != nil {
		return err
	}
	if err := add(directionRecognizer, p.RecognizerEdges); err != nil {
		return err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build edges insert: %w", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "recognition_edges", p.ID)
	}
	return nil
}
