package recognition

import (
	"context"
	"log/slog"
	"time"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

// Challenge lets the target of an edge force its recognizer to re-earn the
// recognition. The mirror stays in place but can no longer be challenged;
// the recognizer's record gets a soft reset (LastRevokedAt = now,
// CanRecognizeAgainAt = now + ChallengeCooldown).
func (s *Service) Challenge(ctx context.Context, input ChallengeInput) (result *EdgeResult, err error) {
	ctx, span := startSpan(ctx, "Challenge", input.RecognizerID, input.TargetID)
	defer func() { endSpan(span, err) }()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	err = s.mutatePair(ctx, input.RecognizerID, input.TargetID, func(txCtx context.Context) error {
		recognizer, target, err := s.loadPair(txCtx, input.RecognizerID, input.TargetID)
		if err != nil {
			return err
		}
		now := s.clock.Now()

		mirror := target.RecognizerRecord(recognizer.ID)
		if mirror == nil {
			return domain.ErrNoSuchEdge
		}
		if !mirror.IsChallengeable {
			return domain.ErrNotChallengeable
		}

		challengedAt := now
		mirror.IsChallengeable = false
		target.RecognitionStats.LastChallengeAt = &challengedAt

		var againAt *time.Time
		if rec := recognizer.RecognizedRecord(target.ID); rec != nil {
			resetAt := now
			eligibleAt := now.Add(s.cfg.ChallengeCooldown)
			rec.LastRevokedAt = &resetAt
			rec.CanRecognizeAgainAt = &eligibleAt
			againAt = &eligibleAt
		}

		if err := s.save(txCtx, recognizer, target); err != nil {
			return err
		}
		if err := s.record(txCtx, target.ID, recognizer.ID, domain.AuditActionChallenge, nil); err != nil {
			return err
		}

		result = &EdgeResult{
			EdgeState:           domain.EdgeStateOf(recognizer, target),
			CanRecognizeAgainAt: againAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "recognition challenged",
		slog.String("target_id", input.TargetID.String()),
		slog.String("recognizer_id", input.RecognizerID.String()),
		slog.String("edge_state", result.EdgeState.String()),
	)

	return result, nil
}
