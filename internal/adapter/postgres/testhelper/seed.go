package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedParticipant inserts a participant with no edges and the given identity
// digest (may be nil). Returns the persisted domain.Participant.
func SeedParticipant(t *testing.T, pool *pgxpool.Pool, identityDigest []byte) domain.Participant {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := domain.Participant{
		ID:        uuid.New(),
		Alias:     "mask-" + uniqueSuffix(),
		Emoji:     "🎭",
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO participants (id, alias, emoji, identity_digest, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Alias, p.Emoji, identityDigest, p.Version, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedParticipant: %v", err)
	}

	return p
}

// SeedPost inserts a post authored by authorID and returns its id.
func SeedPost(t *testing.T, pool *pgxpool.Pool, authorID uuid.UUID) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO posts (id, author_id, body) VALUES ($1, $2, $3)`,
		id, authorID, "post "+uniqueSuffix(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPost: %v", err)
	}
	return id
}
