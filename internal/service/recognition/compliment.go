package recognition

import (
	"context"
	"log/slog"
	"strings"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

// Compliment appends a compliment to the recognizer's record of the edge
// and, while the edge is not revoked, to the target's mirror. Each side
// keeps its own copy.
func (s *Service) Compliment(ctx context.Context, input ComplimentInput) (err error) {
	ctx, span := startSpan(ctx, "Compliment", input.RecognizerID, input.TargetID)
	defer func() { endSpan(span, err) }()

	if err := input.Validate(s.cfg.MaxComplimentLength); err != nil {
		return err
	}
	text := strings.TrimSpace(input.Text)

	var mirrored bool
	err = s.mutatePair(ctx, input.RecognizerID, input.TargetID, func(txCtx context.Context) error {
		recognizer, target, err := s.loadPair(txCtx, input.RecognizerID, input.TargetID)
		if err != nil {
			return err
		}

		rec := recognizer.RecognizedRecord(target.ID)
		if rec == nil {
			return domain.ErrNoSuchEdge
		}

		c := domain.Compliment{Text: text, CreatedAt: s.clock.Now()}
		rec.Compliments = append(rec.Compliments, c)

		mirror := target.RecognizerRecord(recognizer.ID)
		mirrored = mirror != nil
		changed := []*domain.Participant{recognizer}
		if mirrored {
			mirror.Compliments = append(mirror.Compliments, c)
			changed = append(changed, target)
		}
		if err := s.save(txCtx, changed...); err != nil {
			return err
		}
		return s.record(txCtx, recognizer.ID, target.ID, domain.AuditActionCompliment, map[string]any{
			"length":   len([]rune(text)),
			"mirrored": mirrored,
		})
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "compliment added",
		slog.String("recognizer_id", input.RecognizerID.String()),
		slog.String("target_id", input.TargetID.String()),
		slog.Bool("mirrored", mirrored),
	)

	return nil
}
