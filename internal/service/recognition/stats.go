package recognition

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

// GetStats returns the recognition projection for a participant.
// Concurrent calls for the same participant share one load.
func (s *Service) GetStats(ctx context.Context, participantID uuid.UUID) (*Stats, error) {
	if participantID == uuid.Nil {
		return nil, domain.NewValidationError("participant_id", "required")
	}

	// The shared load must outlive any single caller; each caller still
	// stops waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := s.reads.DoChan(participantID.String(), func() (any, error) {
		p, err := s.load(loadCtx, participantID, "participant")
		if err != nil {
			return nil, err
		}
		return ProjectStats(p, s.cfg.RecentCompliments), nil
	})

	var v any
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load participant %s: %w: %w", participantID, domain.ErrUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		v = res.Val
	}

	// Shared result: hand each caller its own copy.
	st := *v.(*Stats)
	st.RecentCompliments = slices.Clone(st.RecentCompliments)
	st.Reputation.Badges = slices.Clone(st.Reputation.Badges)
	return &st, nil
}

// ProjectStats derives the stats projection from a participant aggregate.
// It does not recompute the success rate; that is maintained incrementally.
func ProjectStats(p *domain.Participant, recent int) *Stats {
	st := &Stats{
		ParticipantID:     p.ID,
		RecognizedCount:   len(p.RecognizedEdges),
		RecognizedByCount: len(p.RecognizerEdges),
		Reputation:        p.Reputation,
		RecognitionRate:   p.RecognitionStats.SuccessRate,
	}
	st.Reputation.Badges = slices.Clone(p.Reputation.Badges)

	recognizers := make(map[uuid.UUID]struct{}, len(p.RecognizerEdges))
	var received []domain.Compliment
	for _, rec := range p.RecognizerEdges {
		recognizers[rec.CounterpartyID] = struct{}{}
		received = append(received, rec.Compliments...)
	}
	st.ComplimentsReceived = len(received)

	for _, rec := range p.RecognizedEdges {
		if _, ok := recognizers[rec.CounterpartyID]; ok {
			st.MutualCount++
		}
		st.ComplimentsGiven += len(rec.Compliments)
	}

	if recent > 0 && len(received) > 0 {
		slices.SortStableFunc(received, func(a, b domain.Compliment) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
		st.RecentCompliments = received[:min(recent, len(received))]
	}

	return st
}

// GetEdge describes the edge recognizer -> target, including the remaining
// cooldowns relative to now.
func (s *Service) GetEdge(ctx context.Context, recognizerID, targetID uuid.UUID) (*EdgeView, error) {
	if err := (RevokeInput{RecognizerID: recognizerID, TargetID: targetID}).Validate(); err != nil {
		return nil, err
	}

	recognizer, target, err := s.loadPair(ctx, recognizerID, targetID)
	if err != nil {
		return nil, fmt.Errorf("get edge: %w", err)
	}
	now := s.clock.Now()

	view := &EdgeView{
		RecognizerID: recognizerID,
		TargetID:     targetID,
		State:        domain.EdgeStateOf(recognizer, target),
	}

	rec := recognizer.RecognizedRecord(targetID)
	if rec == nil {
		return view, nil
	}

	established := rec.EstablishedAt
	view.EstablishedAt = &established
	view.LastRevokedAt = rec.LastRevokedAt
	view.CanRecognizeAgainAt = rec.CanRecognizeAgainAt
	view.Compliments = slices.Clone(rec.Compliments)

	if mirror := target.RecognizerRecord(recognizerID); mirror != nil {
		view.IsChallengeable = mirror.IsChallengeable
	}
	if view.State == domain.EdgeStateRevoked && rec.CanRecognizeAgainAt != nil && now.Before(*rec.CanRecognizeAgainAt) {
		view.RecognizeCooldown = rec.CanRecognizeAgainAt.Sub(now)
	}
	if rec.LastRevokedAt != nil {
		if until := rec.LastRevokedAt.Add(s.cfg.RevokeGuard); now.Before(until) {
			view.RevokeCooldown = until.Sub(now)
		}
	}

	return view, nil
}
