package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/masquerade-backend/internal/app"
	"github.com/heartmarshall/masquerade-backend/internal/service/recognition"
)

type statsOutput struct {
	ParticipantID       string   `json:"participantId"`
	RecognizedCount     int      `json:"recognizedCount"`
	RecognizedByCount   int      `json:"recognizedByCount"`
	MutualCount         int      `json:"mutualCount"`
	Score               int      `json:"score"`
	PeakRecognizers     int      `json:"peakRecognizers"`
	Badges              []string `json:"badges"`
	RecognitionRate     float64  `json:"recognitionRate"`
	ComplimentsGiven    int      `json:"complimentsGiven"`
	ComplimentsReceived int      `json:"complimentsReceived"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <participant-id>",
		Short: "Show a participant's recognition stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid participant id %q: %w", args[0], err)
			}
			return rootOpts.withSession(cmd.Context(), func(ctx context.Context, s *session) error {
				svc := app.NewRecognitionService(s.logger, s.pool, s.cfg.Recognition)
				stats, err := svc.GetStats(ctx, id)
				if err != nil {
					return err
				}
				return writeStats(newFormatter(rootOpts, cmd.OutOrStdout()), stats)
			})
		},
	}
}

func writeStats(f *OutputFormatter, s *recognition.Stats) error {
	out := statsOutput{
		ParticipantID:       s.ParticipantID.String(),
		RecognizedCount:     s.RecognizedCount,
		RecognizedByCount:   s.RecognizedByCount,
		MutualCount:         s.MutualCount,
		Score:               s.Reputation.Score,
		PeakRecognizers:     s.Reputation.PeakRecognizers,
		Badges:              make([]string, 0, len(s.Reputation.Badges)),
		RecognitionRate:     s.RecognitionRate,
		ComplimentsGiven:    s.ComplimentsGiven,
		ComplimentsReceived: s.ComplimentsReceived,
	}
	for _, b := range s.Reputation.Badges {
		out.Badges = append(out.Badges, b.Badge.String())
	}

	return f.Write(out, func(w io.Writer) error {
		_, err := fmt.Fprintf(w,
			"participant   %s\nrecognized    %d\nrecognized by %d\nmutual        %d\nscore         %d (peak recognizers %d)\nbadges        %v\nsuccess rate  %.2f%%\ncompliments   %d given, %d received\n",
			out.ParticipantID, out.RecognizedCount, out.RecognizedByCount, out.MutualCount,
			out.Score, out.PeakRecognizers, out.Badges, out.RecognitionRate,
			out.ComplimentsGiven, out.ComplimentsReceived,
		)
		return err
	})
}
