// Package recognition implements the recognition edge state machine:
// recognizing, revoking, challenging and complimenting participants, and
// the read-side stats projection.
package recognition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type participantRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error)
	// Save persists p if its Version still matches storage and bumps it.
	// Returns domain.ErrConflict on a stale version.
	Save(ctx context.Context, p *domain.Participant) error
}

type evidenceVerifier interface {
	Verify(ctx context.Context, targetID uuid.UUID, evidence domain.Evidence) (bool, error)
}

type auditLogger interface {
	Log(ctx context.Context, record domain.AuditRecord) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type clock interface {
	Now() time.Time
}

// SystemClock reports the current UTC time.
type SystemClock struct{}

// Now returns time.Now in UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ---------------------------------------------------------------------------
// Config
// ---------------------------------------------------------------------------

// Config holds the calendar gates and limits of the state machine.
type Config struct {
	// RevokeGuard is the minimum time between two revokes of one edge.
	RevokeGuard time.Duration
	// RecognizeCooldown is how long a revoked edge stays closed.
	RecognizeCooldown time.Duration
	// ChallengeCooldown is how long a challenged recognizer waits. Zero
	// means immediately eligible.
	ChallengeCooldown   time.Duration
	MaxConflictRetries  int
	MaxComplimentLength int
	RecentCompliments   int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		RevokeGuard:         7 * 24 * time.Hour,
		RecognizeCooldown:   30 * 24 * time.Hour,
		ChallengeCooldown:   0,
		MaxConflictRetries:  3,
		MaxComplimentLength: 280,
		RecentCompliments:   5,
	}
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

var tracer = otel.Tracer("github.com/heartmarshall/masquerade-backend/internal/service/recognition")

// Service implements the recognition business logic.
type Service struct {
	participants participantRepo
	verifier     evidenceVerifier
	audit        auditLogger
	tx           txManager
	clock        clock
	cfg          Config
	locks        *pairLocks
	reads        singleflight.Group
	log          *slog.Logger
}

// NewService creates a new Recognition service.
func NewService(
	log *slog.Logger,
	participants participantRepo,
	verifier evidenceVerifier,
	audit auditLogger,
	tx txManager,
	clk clock,
	cfg Config,
) *Service {
	if clk == nil {
		clk = SystemClock{}
	}
	if cfg.MaxConflictRetries < 0 {
		cfg.MaxConflictRetries = 0
	}
	return &Service{
		participants: participants,
		verifier:     verifier,
		audit:        audit,
		tx:           tx,
		clock:        clk,
		cfg:          cfg,
		locks:        newPairLocks(),
		log:          log.With("service", "recognition"),
	}
}

// mutatePair serializes fn against every other mutation of the unordered
// pair {a, b} in this process and runs it in a transaction. fn must load
// both aggregates itself: on ErrConflict the whole unit is retried.
func (s *Service) mutatePair(ctx context.Context, a, b uuid.UUID, fn func(ctx context.Context) error) error {
	unlock, err := s.locks.Lock(ctx, a, b)
	if err != nil {
		return fmt.Errorf("acquire pair lock: %w: %w", domain.ErrUnavailable, err)
	}
	defer unlock()

	return s.retry(ctx, fn)
}

// retry runs fn in a transaction, retrying on ErrConflict up to
// MaxConflictRetries times.
func (s *Service) retry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= s.cfg.MaxConflictRetries; attempt++ {
		err = s.tx.RunInTx(ctx, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			if isClassified(err) {
				return err
			}
			return fmt.Errorf("run in tx: %w: %w", domain.ErrUnavailable, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", domain.ErrUnavailable, ctxErr)
		}
		s.log.WarnContext(ctx, "concurrent modification, retrying",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)
	}
	return fmt.Errorf("gave up after %d attempts: %w", s.cfg.MaxConflictRetries+1, err)
}

// classifiedErrors are the kinds callers map to a response. Anything else
// coming out of a transaction is an infrastructure failure.
var classifiedErrors = []error{
	domain.ErrUnavailable,
	domain.ErrValidation,
	domain.ErrNotFound,
	domain.ErrAlreadyExists,
	domain.ErrUnauthorized,
	domain.ErrForbidden,
	domain.ErrSelfRecognition,
	domain.ErrAlreadyRecognized,
	domain.ErrEvidenceMismatch,
	domain.ErrNoSuchEdge,
	domain.ErrCooldownActive,
	domain.ErrNotChallengeable,
	domain.ErrEmptyText,
}

func isClassified(err error) bool {
	for _, target := range classifiedErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *Service) load(ctx context.Context, id uuid.UUID, role string) (*domain.Participant, error) {
	p, err := s.participants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s %s: %w", role, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load %s: %w: %w", role, domain.ErrUnavailable, err)
	}
	return p, nil
}

func (s *Service) loadPair(ctx context.Context, recognizerID, targetID uuid.UUID) (*domain.Participant, *domain.Participant, error) {
	recognizer, err := s.load(ctx, recognizerID, "recognizer")
	if err != nil {
		return nil, nil, err
	}
	target, err := s.load(ctx, targetID, "target")
	if err != nil {
		return nil, nil, err
	}
	return recognizer, target, nil
}

// save persists the given aggregates in id order so concurrent writers on
// the same rows take row locks in the same order.
func (s *Service) save(ctx context.Context, ps ...*domain.Participant) error {
	ordered := slices.Clone(ps)
	slices.SortFunc(ordered, func(a, b *domain.Participant) int {
		return compareIDs(a.ID, b.ID)
	})
	for _, p := range ordered {
		if err := s.participants.Save(ctx, p); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return fmt.Errorf("save participant %s: %w", p.ID, err)
			}
			return fmt.Errorf("save participant %s: %w: %w", p.ID, domain.ErrUnavailable, err)
		}
	}
	return nil
}

// record appends an audit record to the caller's transaction.
func (s *Service) record(ctx context.Context, actorID, subjectID uuid.UUID, action domain.AuditAction, changes map[string]any) error {
	rec := domain.NewAuditRecord(actorID, subjectID, action, changes, s.clock.Now())
	if err := s.audit.Log(ctx, rec); err != nil {
		return fmt.Errorf("audit %s: %w: %w", action, domain.ErrUnavailable, err)
	}
	return nil
}

func compareIDs(a, b uuid.UUID) int {
	k := newPairKey(a, b)
	switch {
	case a == b:
		return 0
	case k[0] == a:
		return -1
	default:
		return 1
	}
}

func startSpan(ctx context.Context, name string, recognizerID, targetID uuid.UUID) (context.Context, trace.Span) {
	return tracer.Start(ctx, "recognition."+name, trace.WithAttributes(
		attribute.String("recognition.recognizer_id", recognizerID.String()),
		attribute.String("recognition.target_id", targetID.String()),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
