package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/masquerade-backend/migrations"
)

type migrationEntry struct {
	Version   int64      `json:"version"`
	Source    string     `json:"source"`
	State     string     `json:"state,omitempty"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
	Duration  string     `json:"duration,omitempty"`
}

// NewMigrateCommand creates the migrate command group.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProvider(cmd.Context(), rootOpts, func(ctx context.Context, p *goose.Provider) error {
				results, err := p.Up(ctx)
				if err != nil {
					return fmt.Errorf("migrate up: %w", err)
				}
				return writeResults(newFormatter(rootOpts, cmd.OutOrStdout()), results)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProvider(cmd.Context(), rootOpts, func(ctx context.Context, p *goose.Provider) error {
				result, err := p.Down(ctx)
				if err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				return writeResults(newFormatter(rootOpts, cmd.OutOrStdout()), []*goose.MigrationResult{result})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProvider(cmd.Context(), rootOpts, func(ctx context.Context, p *goose.Provider) error {
				statuses, err := p.Status(ctx)
				if err != nil {
					return fmt.Errorf("migrate status: %w", err)
				}
				return writeStatuses(newFormatter(rootOpts, cmd.OutOrStdout()), statuses)
			})
		},
	})

	return cmd
}

func withProvider(ctx context.Context, opts *RootOptions, fn func(ctx context.Context, p *goose.Provider) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	return fn(ctx, provider)
}

func writeResults(f *OutputFormatter, results []*goose.MigrationResult) error {
	entries := make([]migrationEntry, 0, len(results))
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		entries = append(entries, migrationEntry{
			Version:  r.Source.Version,
			Source:   r.Source.Path,
			Duration: r.Duration.Round(time.Millisecond).String(),
		})
	}
	return f.Write(entries, func(w io.Writer) error {
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "no migrations to apply")
			return err
		}
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "OK %05d %s (%s)\n", e.Version, e.Source, e.Duration); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeStatuses(f *OutputFormatter, statuses []*goose.MigrationStatus) error {
	entries := make([]migrationEntry, 0, len(statuses))
	for _, s := range statuses {
		e := migrationEntry{
			Version: s.Source.Version,
			Source:  s.Source.Path,
			State:   string(s.State),
		}
		if !s.AppliedAt.IsZero() {
			at := s.AppliedAt
			e.AppliedAt = &at
		}
		entries = append(entries, e)
	}
	return f.Write(entries, func(w io.Writer) error {
		for _, e := range entries {
			applied := "-"
			if e.AppliedAt != nil {
				applied = e.AppliedAt.Format(time.RFC3339)
			}
			if _, err := fmt.Fprintf(w, "%05d %-8s %-25s %s\n", e.Version, e.State, applied, e.Source); err != nil {
				return err
			}
		}
		return nil
	})
}
