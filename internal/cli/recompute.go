package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/masquerade-backend/internal/adapter/postgres/participant"
	"github.com/heartmarshall/masquerade-backend/internal/app"
	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

// RecomputeOptions holds flags for the recompute command.
type RecomputeOptions struct {
	Concurrency int
	PageSize    int
}

type recomputeSummary struct {
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

type idLister interface {
	ListIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}

type reputationRecomputer interface {
	RecomputeReputation(ctx context.Context, participantID uuid.UUID) (*domain.Reputation, error)
}

// NewRecomputeCommand creates the recompute command.
func NewRecomputeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecomputeOptions{}

	cmd := &cobra.Command{
		Use:   "recompute [participant-id...]",
		Short: "Re-derive reputation from current recognizers",
		Long: `Re-derive score and badges for the given participants, or for every
participant when no ids are given. Badges already unlocked are kept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, 0, len(args))
			for _, a := range args {
				id, err := uuid.Parse(a)
				if err != nil {
					return fmt.Errorf("invalid participant id %q: %w", a, err)
				}
				ids = append(ids, id)
			}

			return rootOpts.withSession(cmd.Context(), func(ctx context.Context, s *session) error {
				svc := app.NewRecognitionService(s.logger, s.pool, s.cfg.Recognition)
				var lister idLister = participant.New(s.pool)
				if len(ids) > 0 {
					lister = newStaticIDs(ids)
				}

				summary, err := runRecompute(ctx, s.logger, lister, svc, opts)
				if err != nil {
					return err
				}
				return newFormatter(rootOpts, cmd.OutOrStdout()).Write(summary, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "recomputed %d participants, %d failed\n", summary.Processed, summary.Failed)
					return err
				})
			})
		},
	}

	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 8, "participants recomputed in parallel")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 500, "ids fetched per page")
	return cmd
}

// runRecompute pages through ids and recomputes each with bounded
// concurrency. Per-participant failures are logged and counted; only a
// listing failure or cancellation aborts the run.
func runRecompute(ctx context.Context, logger *slog.Logger, lister idLister, svc reputationRecomputer, opts *RecomputeOptions) (*recomputeSummary, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 500
	}

	var processed, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	after := uuid.Nil
	for {
		page, err := lister.ListIDs(gctx, after, opts.PageSize)
		if err != nil {
			_ = g.Wait()
			return nil, fmt.Errorf("list participants: %w", err)
		}
		if len(page) == 0 {
			break
		}

		for _, id := range page {
			g.Go(func() error {
				if _, err := svc.RecomputeReputation(gctx, id); err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					failed.Add(1)
					logger.WarnContext(gctx, "recompute failed",
						slog.String("participant_id", id.String()),
						slog.String("error", err.Error()),
					)
					return nil
				}
				processed.Add(1)
				return nil
			})
		}

		if len(page) < opts.PageSize {
			break
		}
		after = page[len(page)-1]
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &recomputeSummary{Processed: processed.Load(), Failed: failed.Load()}, nil
}

// staticIDs serves a fixed id list through the idLister paging contract.
// Paging resumes after the first occurrence of the cursor, so the list
// must not repeat ids; build it with newStaticIDs.
type staticIDs []uuid.UUID

// newStaticIDs drops repeated ids, keeping first-seen order.
func newStaticIDs(ids []uuid.UUID) staticIDs {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make(staticIDs, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s staticIDs) ListIDs(_ context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	start := 0
	if after != uuid.Nil {
		for i, id := range s {
			if id == after {
				start = i + 1
				break
			}
		}
	}
	end := min(start+limit, len(s))
	return s[start:end], nil
}
