// Package jobscmder provides the jobs command, which lists catalog jobs
// ranked by how well they match the skills the progress log demonstrates.
package jobscmder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/api"
	"github.com/papercomputeco/tutor/pkg/cliui"
	"github.com/papercomputeco/tutor/pkg/config"
	"github.com/papercomputeco/tutor/pkg/interview"
	"github.com/papercomputeco/tutor/pkg/logger"
)

type jobsCommander struct {
	client config.ClientSettings
	limit  int
	debug  bool
}

const jobsLongDesc string = `List jobs matching your skills.

Skills are inferred from the progress log: answering tests demonstrates
analytical skills and working through situations demonstrates communication
and decision making. Every job in the catalog is scored by the share of its
required skills you have shown.`

const jobsShortDesc string = "List jobs matching your skills"

func NewJobsCmd() *cobra.Command {
	cmder := &jobsCommander{}

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: jobsShortDesc,
		Long:  jobsLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.ResolveClient(cmd, &cmder.client)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 0, "Show at most this many jobs (0 shows all)")
	config.AddClientFlags(cmd, &cmder.client)

	return cmd
}

func (c *jobsCommander) run(ctx context.Context, out io.Writer) error {
	client := interview.NewClient(c.client.ServerTarget,
		interview.WithLogger(logger.Client(c.debug)),
	)

	var resp api.JobsResponse
	if err := client.Do(ctx, http.MethodGet, "/jobs", nil, &resp); err != nil {
		return err
	}

	if c.limit > 0 && len(resp.Matches) > c.limit {
		resp.Matches = resp.Matches[:c.limit]
	}
	Render(out, resp)
	return nil
}

// Render writes the demonstrated skills and the ranked matches.
func Render(w io.Writer, resp api.JobsResponse) {
	fmt.Fprintf(w, "\n  %s\n\n", cliui.HeaderStyle.Render("Job matches"))

	if len(resp.Skills) == 0 {
		fmt.Fprintf(w, "  %s\n\n", cliui.DimStyle.Render("No skills demonstrated yet. Answer tests and situations with tutor learn."))
	} else {
		fmt.Fprintf(w, "  %s %s\n\n", cliui.KeyStyle.Render("Your skills:"), strings.Join(resp.Skills, ", "))
	}

	for _, m := range resp.Matches {
		fmt.Fprintf(w, "  %s %s  %s\n",
			cliui.ScoreStyle(m.Score).Render(fmt.Sprintf("%3d%%", m.Score)),
			cliui.NameStyle.Render(m.Title),
			cliui.DimStyle.Render(fmt.Sprintf("%s · %s · %s", m.Company, m.Location, m.Salary)),
		)
		fmt.Fprintf(w, "       %s\n", cliui.DimStyle.Render("requires: "+strings.Join(m.RequiredSkills, ", ")))
	}
	fmt.Fprintln(w)
}
