package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/masquerade-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

type historyEntry struct {
	ID        string         `json:"id"`
	Action    string         `json:"action"`
	ActorID   string         `json:"actorId"`
	SubjectID string         `json:"subjectId"`
	Changes   map[string]any `json:"changes,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <participant-id>",
		Short: "Show the audit trail of a participant's recognition edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid participant id %q: %w", args[0], err)
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			return rootOpts.withSession(cmd.Context(), func(ctx context.Context, s *session) error {
				records, err := audit.New(s.pool).ListByParticipant(ctx, id, limit)
				if err != nil {
					return err
				}
				return writeHistory(newFormatter(rootOpts, cmd.OutOrStdout()), records)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of records, newest first")

	return cmd
}

func writeHistory(f *OutputFormatter, records []domain.AuditRecord) error {
	entries := make([]historyEntry, len(records))
	for i, r := range records {
		entries[i] = historyEntry{
			ID:        r.ID.String(),
			Action:    r.Action.String(),
			ActorID:   r.ActorID.String(),
			SubjectID: r.SubjectID.String(),
			Changes:   r.Changes,
			CreatedAt: r.CreatedAt,
		}
	}

	return f.Write(entries, func(w io.Writer) error {
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "no records")
			return err
		}
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "%s  %-10s  %s -> %s\n",
				e.CreatedAt.Format(time.RFC3339), e.Action, e.ActorID, e.SubjectID,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
