package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/masquerade-backend/internal/auth"
)

type tokenOutput struct {
	ParticipantID string    `json:"participantId"`
	AccessToken   string    `json:"accessToken"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <participant-id>",
		Short: "Issue an access token for a participant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid participant id %q: %w", args[0], err)
			}

			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.Auth.AccessTokenTTL
			}

			token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, ttl).GenerateAccessToken(id)
			if err != nil {
				return err
			}

			out := tokenOutput{
				ParticipantID: id.String(),
				AccessToken:   token,
				ExpiresAt:     time.Now().Add(ttl).UTC().Truncate(time.Second),
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Write(out, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, out.AccessToken)
				return err
			})
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default: auth.access_token_ttl)")
	return cmd
}
