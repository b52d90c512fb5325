// Package interviewcmder provides the interview command, a mock job
// interview streamed from the tutor backend.
package interviewcmder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/pkg/cliui"
	"github.com/papercomputeco/tutor/pkg/config"
	"github.com/papercomputeco/tutor/pkg/interview"
	"github.com/papercomputeco/tutor/pkg/logger"
)

type interviewCommander struct {
	client   config.ClientSettings
	position string
	debug    bool
}

const interviewLongDesc string = `Practice a job interview.

The interviewer greets you, asks one question at a time and reacts to each
answer. Replies stream in as they are written. Type "exit" or press Ctrl-D
to finish; the completed exchange is added to your progress log.

Examples:
  tutor interview --position "Backend Engineer"
  tutor interview -P "Project Manager" --server http://localhost:8787`

const interviewShortDesc string = "Practice a job interview"

func NewInterviewCmd() *cobra.Command {
	cmder := &interviewCommander{}

	cmd := &cobra.Command{
		Use:   "interview",
		Short: interviewShortDesc,
		Long:  interviewLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(cmder.position) == "" {
				return errors.New("--position is required")
			}
			return config.ResolveClient(cmd, &cmder.client)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.position, "position", "P", "", "Position you are interviewing for")
	config.AddClientFlags(cmd, &cmder.client)

	return cmd
}

func (c *interviewCommander) run(ctx context.Context) error {
	client := interview.NewClient(c.client.ServerTarget,
		interview.WithMaxRetries(c.client.MaxRetries),
		interview.WithLogger(logger.Client(c.debug)),
	)

	fmt.Printf("\n  %s %s\n\n",
		cliui.KeyStyle.Render("Interview:"),
		cliui.NameStyle.Render(strings.TrimSpace(c.position)),
	)

	return interview.REPL(ctx, os.Stdin, os.Stdout, client, interview.NewInterview(c.position))
}
