package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/masquerade-backend/internal/adapter/postgres/evidence"
	"github.com/heartmarshall/masquerade-backend/internal/adapter/postgres/participant"
	"github.com/heartmarshall/masquerade-backend/internal/domain"
)

// AddParticipantOptions holds flags for participant add.
type AddParticipantOptions struct {
	Alias    string
	Emoji    string
	Identity string
}

type participantCreated struct {
	ID    string `json:"id"`
	Alias string `json:"alias"`
	Emoji string `json:"emoji"`
}

// NewParticipantCommand creates the participant command group.
func NewParticipantCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "participant",
		Short: "Manage masked participants",
	}

	addOpts := &AddParticipantOptions{}
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a participant behind a mask",
		Long: `Register a participant with a public alias and emoji.

The real identity is stored only as a bcrypt digest; recognizers prove they
know it by guessing the identity, normalized the same way.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := addOpts.validate(); err != nil {
				return err
			}
			return rootOpts.withSession(cmd.Context(), func(ctx context.Context, s *session) error {
				return runAddParticipant(ctx, rootOpts, addOpts, participant.New(s.pool), cmd.OutOrStdout())
			})
		},
	}
	add.Flags().StringVar(&addOpts.Alias, "alias", "", "public alias (required)")
	add.Flags().StringVar(&addOpts.Emoji, "emoji", "🎭", "mask emoji")
	add.Flags().StringVar(&addOpts.Identity, "identity", "", "real identity recognizers must guess (required)")
	_ = add.MarkFlagRequired("alias")
	_ = add.MarkFlagRequired("identity")

	cmd.AddCommand(add)
	return cmd
}

func (o *AddParticipantOptions) validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(o.Alias) == "" {
		errs = append(errs, domain.FieldError{Field: "alias", Message: "required"})
	}
	if strings.TrimSpace(o.Identity) == "" {
		errs = append(errs, domain.FieldError{Field: "identity", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

type participantCreator interface {
	Create(ctx context.Context, p *domain.Participant, identityDigest []byte) error
}

func runAddParticipant(ctx context.Context, rootOpts *RootOptions, opts *AddParticipantOptions, repo participantCreator, out io.Writer) error {
	digest, err := evidence.HashIdentity(opts.Identity)
	if err != nil {
		return fmt.Errorf("hash identity: %w", err)
	}

	p := &domain.Participant{
		ID:    uuid.New(),
		Alias: strings.TrimSpace(opts.Alias),
		Emoji: opts.Emoji,
	}
	if err := repo.Create(ctx, p, digest); err != nil {
		return fmt.Errorf("create participant: %w", err)
	}

	created := participantCreated{ID: p.ID.String(), Alias: p.Alias, Emoji: p.Emoji}
	return newFormatter(rootOpts, out).Write(created, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "created %s %s (%s)\n", created.Emoji, created.Alias, created.ID)
		return err
	})
}
