// Package learncmder provides the learn command, a terminal UI for
// flashcards, workplace situations and tests of the current course.
package learncmder

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/pkg/config"
	"github.com/papercomputeco/tutor/pkg/course"
	"github.com/papercomputeco/tutor/pkg/interview"
	"github.com/papercomputeco/tutor/pkg/learn"
	"github.com/papercomputeco/tutor/pkg/logger"
)

type learnCommander struct {
	client    config.ClientSettings
	configDir string
	offline   bool
	debug     bool
}

const learnLongDesc string = `Study the current course.

Three modes are available and tab switches between them:
  flashcards   flip cards to check what you remember
  situations   work through scenarios and assess how you handled them
  tests        answer multiple choice questions

Test answers and situation assessments are sent to the backend and feed
your competency profile. Use --offline to practice without recording.

Examples:
  tutor learn
  tutor learn tests`

const learnShortDesc string = "Study the current course"

func NewLearnCmd() *cobra.Command {
	cmder := &learnCommander{}

	cmd := &cobra.Command{
		Use:       "learn [flashcards|situations|tests]",
		Short:     learnShortDesc,
		Long:      learnLongDesc,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(learn.ModeFlashcards), string(learn.ModeSituations), string(learn.ModeTests)},
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.ResolveClient(cmd, &cmder.client)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := learn.ModeFlashcards
			if len(args) == 1 {
				var err error
				if mode, err = learn.ParseMode(args[0]); err != nil {
					return err
				}
			}

			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			return cmder.run(cmd.Context(), mode)
		},
	}

	cmd.Flags().BoolVar(&cmder.offline, "offline", false, "Practice without recording results")
	config.AddClientFlags(cmd, &cmder.client)

	return cmd
}

func (c *learnCommander) run(ctx context.Context, mode learn.Mode) error {
	crs, topic, err := course.NewSession(c.configDir).Load()
	if err != nil {
		return err
	}

	var rec recorder
	if !c.offline {
		client := interview.NewClient(c.client.ServerTarget,
			interview.WithLogger(logger.Client(c.debug)),
		)
		rec = func(ctx context.Context, path string, body any) error {
			return client.Do(ctx, http.MethodPost, path, body, nil)
		}
	}

	return runLearnTUI(ctx, newLearnModel(ctx, topic, crs, mode, rec))
}
