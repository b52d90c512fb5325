// Package hrcmder provides the hr command, the reviewer dashboard.
package hrcmder

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/pkg/cliui"
	"github.com/papercomputeco/tutor/pkg/config"
	"github.com/papercomputeco/tutor/pkg/hr"
	"github.com/papercomputeco/tutor/pkg/interview"
	"github.com/papercomputeco/tutor/pkg/logger"
)

const hrLongDesc string = `Show the reviewer dashboard.

Lists learners ranked by average score with their completed tests, time
spent and strongest skill, followed by team totals.`

const hrShortDesc string = "Show the reviewer dashboard"

func NewHRCmd() *cobra.Command {
	var (
		client config.ClientSettings
		debug  bool
	)

	cmd := &cobra.Command{
		Use:   "hr",
		Short: hrShortDesc,
		Long:  hrLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.ResolveClient(cmd, &client)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ = cmd.Flags().GetBool("debug")
			return runHR(cmd.Context(), cmd.OutOrStdout(), client, debug)
		},
	}

	config.AddClientFlags(cmd, &client)

	return cmd
}

func runHR(ctx context.Context, out io.Writer, settings config.ClientSettings, debug bool) error {
	client := interview.NewClient(settings.ServerTarget,
		interview.WithLogger(logger.Client(debug)),
	)

	var summary hr.Summary
	if err := client.Do(ctx, http.MethodGet, "/hr", nil, &summary); err != nil {
		return err
	}

	Render(out, summary)
	return nil
}

// Render writes the ranked roster and the totals.
func Render(w io.Writer, s hr.Summary) {
	fmt.Fprintf(w, "\n  %s\n\n", cliui.HeaderStyle.Render("Learners"))

	nameWidth := len("Name")
	for _, l := range s.Learners {
		nameWidth = max(nameWidth, len(l.Name))
	}

	fmt.Fprintf(w, "  %s\n", cliui.KeyStyle.Render(fmt.Sprintf("%-3s %-*s %6s %6s %8s  %s", "#", nameWidth, "Name", "Tests", "Score", "Minutes", "Top skill")))
	for i, l := range s.Learners {
		fmt.Fprintf(w, "  %-3d %-*s %6d %s %8d  %s\n",
			i+1, nameWidth, l.Name, l.TestsCompleted,
			cliui.ScoreStyle(l.AvgScore).Render(fmt.Sprintf("%6d", l.AvgScore)),
			l.TimeSpent, l.TopSkill,
		)
	}

	fmt.Fprintf(w, "\n  %s %d   %s %.1f   %s %.1f   %s %s\n\n",
		cliui.KeyStyle.Render("learners"), s.TotalLearners,
		cliui.KeyStyle.Render("avg tests"), s.AvgTestsCompleted,
		cliui.KeyStyle.Render("avg score"), s.AvgScore,
		cliui.KeyStyle.Render("total time"), hoursMinutes(s.TotalTimeSpent),
	)
}

func hoursMinutes(total int) string {
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}
