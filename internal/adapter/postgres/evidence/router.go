package evidence

import (
	"context"

	"github.com/google/uuid"

	postgres "github.com/heartmarshall/masquerade-backend/internal/adapter/postgres"
	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

// Verifier checks one kind of evidence.
type Verifier interface {
	Verify(ctx context.Context, targetID uuid.UUID, ev domain.Evidence) (bool, error)
}

// Router dispatches evidence to the verifier registered for its kind.
type Router struct {
	byKind map[domain.EvidenceKind]Verifier
}

// NewRouter wires the identity and content verifiers to the same database.
func NewRouter(db postgres.Querier) *Router {
	return NewRouterWith(map[domain.EvidenceKind]Verifier{
		domain.EvidenceKindIdentity: NewIdentityVerifier(db),
		domain.EvidenceKindContent:  NewContentVerifier(db),
	})
}

// NewRouterWith builds a Router from explicit verifiers.
func NewRouterWith(verifiers map[domain.EvidenceKind]Verifier) *Router {
	byKind := make(map[domain.EvidenceKind]Verifier, len(verifiers))
	for k, v := range verifiers {
		byKind[k] = v
	}
	return &Router{byKind: byKind}
}

// Verify routes ev by kind. An unsupported kind is a validation error.
func (r *Router) Verify(ctx context.Context, targetID uuid.UUID, ev domain.Evidence) (bool, error) {
	v, ok := r.byKind[ev.Kind]
	if !ok {
		return false, domain.NewValidationError("evidence.kind", "unsupported evidence kind "+ev.Kind.String())
	}
	return v.Verify(ctx, targetID, ev)
}
