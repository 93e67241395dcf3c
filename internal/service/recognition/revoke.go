package recognition

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
	"github.com/heartmarshall/masquerade-backend/internal/service/recognition/reputation"
)

// Revoke withdraws an established recognition. The recognizer keeps its
// record, stamped with the revoke time and a re-recognition cooldown; the
// target's mirror is removed and its score recomputed. An edge can be
// revoked at most once per RevokeGuard.
func (s *Service) Revoke(ctx context.Context, input RevokeInput) (result *EdgeResult, err error) {
	ctx, span := startSpan(ctx, "Revoke", input.RecognizerID, input.TargetID)
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

		rec := recognizer.RecognizedRecord(target.ID)
		if rec == nil {
			return domain.ErrNoSuchEdge
		}
		if rec.LastRevokedAt != nil {
			if until := rec.LastRevokedAt.Add(s.cfg.RevokeGuard); now.Before(until) {
				return domain.NewCooldownError("revoke", until, now)
			}
		}
		if !target.RemoveRecognizer(recognizer.ID) {
			return domain.ErrNoSuchEdge
		}

		revokedAt := now
		againAt := now.Add(s.cfg.RecognizeCooldown)
		rec.LastRevokedAt = &revokedAt
		rec.CanRecognizeAgainAt = &againAt

		reputation.Apply(&target.Reputation, target.RecognizerCount(), now)
		recognizer.RevokeCorrectAttempt()

		if err := s.save(txCtx, recognizer, target); err != nil {
			return err
		}
		if err := s.record(txCtx, recognizer.ID, target.ID, domain.AuditActionRevoke, map[string]any{
			"can_recognize_again_at": againAt,
			"target_score":           target.Reputation.Score,
		}); err != nil {
			return err
		}

		result = &EdgeResult{
			EdgeState:           domain.EdgeStateRevoked,
			CanRecognizeAgainAt: &againAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "recognition revoked",
		slog.String("recognizer_id", input.RecognizerID.String()),
		slog.String("target_id", input.TargetID.String()),
		slog.Time("can_recognize_again_at", *result.CanRecognizeAgainAt),
	)

	return result, nil
}
