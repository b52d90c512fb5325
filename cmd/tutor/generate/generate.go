// Package generatecmder provides the generate command, which asks the
// backend for a course and keeps it as the current session.
package generatecmder

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/pkg/cliui"
	"github.com/papercomputeco/tutor/pkg/config"
	"github.com/papercomputeco/tutor/pkg/course"
	"github.com/papercomputeco/tutor/pkg/interview"
	"github.com/papercomputeco/tutor/pkg/logger"
)

type generateCommander struct {
	client    config.ClientSettings
	configDir string
	debug     bool
	out       io.Writer
}

const generateLongDesc string = `Generate a course for a topic.

The backend asks the model for a mindmap, flashcards, workplace situations
and a multiple choice test. The course replaces the current session, so
"tutor mindmap", "tutor learn" and "tutor chat" pick it up afterwards.

Examples:
  tutor generate "Project management"
  tutor generate Go concurrency --server http://localhost:8787`

const generateShortDesc string = "Generate a course for a topic"

func NewGenerateCmd() *cobra.Command {
	cmder := &generateCommander{}

	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: generateShortDesc,
		Long:  generateLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.ResolveClient(cmd, &cmder.client)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context(), strings.Join(args, " "))
		},
	}

	config.AddClientFlags(cmd, &cmder.client)

	return cmd
}

func (c *generateCommander) run(ctx context.Context, topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return course.ErrEmptyTopic
	}

	client := interview.NewClient(c.client.ServerTarget,
		interview.WithLogger(logger.Client(c.debug)),
	)

	var generated *course.Course
	err := cliui.Step(c.out, fmt.Sprintf("Generating a course on %q", topic), func() error {
		var err error
		generated, err = client.GenerateCourse(ctx, topic)
		return err
	})
	if err != nil {
		if interview.IsUnreachable(err) {
			return fmt.Errorf("is the backend running at %s? %w", c.client.ServerTarget, err)
		}
		return err
	}

	if err := course.NewSession(c.configDir).Save(topic, generated); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	Summarize(c.out, generated)
	return nil
}

// Summarize prints what a course contains and where to go next.
func Summarize(w io.Writer, c *course.Course) {
	fmt.Fprintf(w, "\n  %s\n\n", cliui.NameStyle.Render(c.Mindmap.Title))
	rows := []struct {
		key string
		n   int
	}{
		{"modules", len(c.Mindmap.Modules)},
		{"flashcards", len(c.Flashcards)},
		{"situations", len(c.Situations)},
		{"tests", len(c.Tests)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render(fmt.Sprintf("%-11s", r.key)), cliui.ValueStyle.Render(fmt.Sprint(r.n)))
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("Next: tutor mindmap, tutor learn, tutor chat"))
}
