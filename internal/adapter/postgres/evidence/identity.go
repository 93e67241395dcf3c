// Package evidence verifies recognition evidence against PostgreSQL-backed
// sources: a participant's identity digest and post authorship.
package evidence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	postgres "github.com/heartmarshall/masquerade-backend/internal/adapter/postgres"
	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

// maxIdentityBytes is the bcrypt input limit.
const maxIdentityBytes = 72

// HashCost is the bcrypt cost used by HashIdentity.
var HashCost = bcrypt.DefaultCost

// HashIdentity builds the stored digest of a participant's real identity
// (for example a handle). The identity is normalized the same way guesses
// are, so "@Alice" and "alice" hash alike.
func HashIdentity(identity string) ([]byte, error) {
	normalized := domain.NormalizeGuess(identity)
	if normalized == "" {
		return nil, domain.NewValidationError("identity", "required")
	}
	if len(normalized) > maxIdentityBytes {
		return nil, domain.NewValidationError("identity", fmt.Sprintf("max %d bytes", maxIdentityBytes))
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(normalized), HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash identity: %w", err)
	}
	return digest, nil
}

// IdentityVerifier checks a guessed identity against the target's digest.
type IdentityVerifier struct {
	db postgres.Querier
}

// NewIdentityVerifier creates an IdentityVerifier.
func NewIdentityVerifier(db postgres.Querier) *IdentityVerifier {
	return &IdentityVerifier{db: db}
}

// Verify reports whether ev.Guess names the target. A target without a
// registered identity never matches.
func (v *IdentityVerifier) Verify(ctx context.Context, targetID uuid.UUID, ev domain.Evidence) (bool, error) {
	guess := domain.NormalizeGuess(ev.Guess)
	if guess == "" || len(guess) > maxIdentityBytes {
		return false, nil
	}

	var digest []byte
	err := postgres.QuerierFromCtx(ctx, v.db).
		QueryRow(ctx, `SELECT identity_digest FROM participants WHERE id = $1`, targetID).
		Scan(&digest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, postgres.MapError(err, "participant identity", targetID)
	}
	if len(digest) == 0 {
		return false, nil
	}

	switch err := bcrypt.CompareHashAndPassword(digest, []byte(guess)); {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare identity digest of %s: %w", targetID, err)
	}
}
