package evidence

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/masquerade-backend/internal/adapter/postgres"
	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ContentVerifier checks that the guessed post was written by the target.
type ContentVerifier struct {
	db postgres.Querier
}

// NewContentVerifier creates a ContentVerifier.
func NewContentVerifier(db postgres.Querier) *ContentVerifier {
	return &ContentVerifier{db: db}
}

// Verify reports whether the target authored ev.ContentID. Unknown posts
// never match.
func (v *ContentVerifier) Verify(ctx context.Context, targetID uuid.UUID, ev domain.Evidence) (bool, error) {
	if ev.ContentID == uuid.Nil {
		return false, domain.NewValidationError("evidence.content_id", "required")
	}

	query, args, err := psql.Select("author_id").
		From("posts").
		Where(squirrel.Eq{"id": ev.ContentID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build post query: %w", err)
	}

	var authorID uuid.UUID
	if err := postgres.QuerierFromCtx(ctx, v.db).QueryRow(ctx, query, args...).Scan(&authorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, postgres.MapError(err, "post", ev.ContentID)
	}

	return authorID == targetID, nil
}
