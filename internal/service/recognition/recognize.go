package recognition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
	"github.com/heartmarshall/masquerade-backend/internal/service/recognition/reputation"
)

// Recognize verifies evidence that the recognizer knows who the target is
// and, on success, establishes the edge on both aggregates.
//
// A wrong guess is still counted as an attempt: the recognizer's stats are
// saved and the result is returned together with domain.ErrEvidenceMismatch.
//
// A revoked edge may be recognized again once its CanRecognizeAgainAt has
// passed; the recognizer's record is then reused in place.
func (s *Service) Recognize(ctx context.Context, input RecognizeInput) (result *RecognizeResult, err error) {
	ctx, span := startSpan(ctx, "Recognize", input.RecognizerID, input.TargetID)
	defer func() { endSpan(span, err) }()

	if input.RecognizerID != uuid.Nil && input.RecognizerID == input.TargetID {
		return nil, domain.ErrSelfRecognition
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var matched bool
	err = s.mutatePair(ctx, input.RecognizerID, input.TargetID, func(txCtx context.Context) error {
		recognizer, target, err := s.loadPair(txCtx, input.RecognizerID, input.TargetID)
		if err != nil {
			return err
		}
		now := s.clock.Now()

		existing := recognizer.RecognizedRecord(target.ID)
		if existing != nil {
			if target.RecognizerRecord(recognizer.ID) != nil {
				return domain.ErrAlreadyRecognized
			}
			if existing.CanRecognizeAgainAt != nil && now.Before(*existing.CanRecognizeAgainAt) {
				return domain.NewCooldownError("recognize", *existing.CanRecognizeAgainAt, now)
			}
		}

		matched, err = s.verifier.Verify(txCtx, target.ID, input.Evidence)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				return err
			}
			return fmt.Errorf("verify evidence: %w: %w", domain.ErrUnavailable, err)
		}

		recognizer.RecordAttempt(matched)

		if !matched {
			if err := s.save(txCtx, recognizer); err != nil {
				return err
			}
			if err := s.record(txCtx, recognizer.ID, target.ID, domain.AuditActionMiss, map[string]any{
				"evidence_kind": input.Evidence.Kind.String(),
			}); err != nil {
				return err
			}
			result = &RecognizeResult{
				EdgeState:       domain.EdgeStateOf(recognizer, target),
				RecognizerStats: recognizer.RecognitionStats,
			}
			return nil
		}

		if existing != nil {
			existing.EstablishedAt = now
			existing.IsChallengeable = true
			existing.CanRecognizeAgainAt = nil
			// LastRevokedAt is history; the revoke guard still reads it.
		} else {
			recognizer.RecognizedEdges = append(recognizer.RecognizedEdges, domain.NewRecognitionRecord(target.ID, now))
		}
		target.RecognizerEdges = append(target.RecognizerEdges, domain.NewRecognitionRecord(recognizer.ID, now))

		unlocked := reputation.Apply(&target.Reputation, target.RecognizerCount(), now)

		if err := s.save(txCtx, recognizer, target); err != nil {
			return err
		}
		if err := s.record(txCtx, recognizer.ID, target.ID, domain.AuditActionRecognize, map[string]any{
			"evidence_kind": input.Evidence.Kind.String(),
			"target_score":  target.Reputation.Score,
			"reestablished": existing != nil,
		}); err != nil {
			return err
		}

		rep := target.Reputation
		result = &RecognizeResult{
			EdgeState:       domain.EdgeStateActive,
			Reputation:      &rep,
			UnlockedBadges:  unlocked,
			RecognizerStats: recognizer.RecognitionStats,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !matched {
		s.log.InfoContext(ctx, "recognition attempt missed",
			slog.String("recognizer_id", input.RecognizerID.String()),
			slog.String("target_id", input.TargetID.String()),
			slog.String("evidence_kind", input.Evidence.Kind.String()),
			slog.Int("total_attempts", result.RecognizerStats.TotalAttempts),
		)
		return result, domain.ErrEvidenceMismatch
	}

	s.log.InfoContext(ctx, "participant recognized",
		slog.String("recognizer_id", input.RecognizerID.String()),
		slog.String("target_id", input.TargetID.String()),
		slog.String("evidence_kind", input.Evidence.Kind.String()),
		slog.Int("target_score", result.Reputation.Score),
		slog.Any("unlocked_badges", result.UnlockedBadges),
	)

	return result, nil
}
