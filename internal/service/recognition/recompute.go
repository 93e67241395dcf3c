package recognition

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
	"github.com/heartmarshall/masquerade-backend/internal/service/recognition/reputation"
)

// RecomputeReputation re-derives a participant's score and badges from its
// current recognizers. It is idempotent and safe to run at any time; badges
// already unlocked are kept.
func (s *Service) RecomputeReputation(ctx context.Context, participantID uuid.UUID) (rep *domain.Reputation, err error) {
	ctx, span := startSpan(ctx, "RecomputeReputation", uuid.Nil, participantID)
	defer func() { endSpan(span, err) }()

	if participantID == uuid.Nil {
		return nil, domain.NewValidationError("participant_id", "required")
	}

	var unlocked []domain.Badge
	err = s.mutatePair(ctx, participantID, participantID, func(txCtx context.Context) error {
		p, err := s.load(txCtx, participantID, "participant")
		if err != nil {
			return err
		}

		before := p.Reputation.Score
		unlocked = reputation.Apply(&p.Reputation, p.RecognizerCount(), s.clock.Now())
		if before == p.Reputation.Score && len(unlocked) == 0 {
			r := p.Reputation
			rep = &r
			return nil
		}

		if err := s.save(txCtx, p); err != nil {
			return err
		}
		r := p.Reputation
		rep = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(unlocked) > 0 {
		s.log.InfoContext(ctx, "reputation repaired",
			slog.String("participant_id", participantID.String()),
			slog.Int("score", rep.Score),
			slog.Any("unlocked_badges", unlocked),
		)
	}

	return rep, nil
}
