// Package profilecmder provides the profile command, which shows the
// competency profile derived from the progress log.
package profilecmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/pkg/cliui"
	"github.com/papercomputeco/tutor/pkg/config"
	"github.com/papercomputeco/tutor/pkg/dotdir"
	"github.com/papercomputeco/tutor/pkg/interview"
	"github.com/papercomputeco/tutor/pkg/logger"
	"github.com/papercomputeco/tutor/pkg/progress"
)

const (
	barWidth = 30

	// debounce coalesces the burst of writes one append causes in the WAL.
	debounce = 250 * time.Millisecond
)

type profileCommander struct {
	client     config.ClientSettings
	watch      bool
	sqlitePath string
	debug      bool
}

const profileLongDesc string = `Show your competency profile.

The profile is computed from every test, situation and interview in the
progress log: analytical thinking, communication, decision making and
stress resistance, an overall score and recommendations for the weakest
areas.

With --watch the profile is redrawn whenever the backend's SQLite progress
log changes. Watching needs the same storage.sqlite_path the backend uses.

Examples:
  tutor profile
  tutor profile --watch --sqlite ~/.tutor/progress.db`

const profileShortDesc string = "Show your competency profile"

func NewProfileCmd() *cobra.Command {
	cmder := &profileCommander{}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: profileShortDesc,
		Long:  profileLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.ResolveClient(cmd, &cmder.client); err != nil {
				return err
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagSQLite})
			cmder.sqlitePath = dotdir.ExpandHome(v.GetString(config.Flags[config.FlagSQLite].ViperKey))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Redraw when the progress log changes")
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddClientFlags(cmd, &cmder.client)

	return cmd
}

func (c *profileCommander) run(ctx context.Context, out io.Writer) error {
	client := interview.NewClient(c.client.ServerTarget,
		interview.WithLogger(logger.Client(c.debug)),
	)

	show := func() error {
		var p progress.Profile
		if err := client.Do(ctx, http.MethodGet, "/profile", nil, &p); err != nil {
			return err
		}
		Render(out, p)
		return nil
	}

	if !c.watch {
		return show()
	}

	if c.sqlitePath == "" {
		return errors.New("--watch needs the SQLite progress log path (--sqlite or storage.sqlite_path)")
	}

	redraw := func() error {
		fmt.Fprint(out, "\033[H\033[2J")
		return show()
	}
	if err := redraw(); err != nil {
		return err
	}
	return watchFile(ctx, c.sqlitePath, redraw)
}

// Render writes the profile as a scored table.
func Render(w io.Writer, p progress.Profile) {
	fmt.Fprintf(w, "\n  %s\n\n", cliui.HeaderStyle.Render("Competency profile"))

	fmt.Fprintf(w, "  %s %s   %s %s   %s %s\n\n",
		cliui.KeyStyle.Render("tests"), cliui.ValueStyle.Render(fmt.Sprintf("%d/%d", p.CorrectAnswers, p.TotalTests)),
		cliui.KeyStyle.Render("situations"), cliui.ValueStyle.Render(fmt.Sprint(p.TotalSituations)),
		cliui.KeyStyle.Render("interviews"), cliui.ValueStyle.Render(fmt.Sprint(p.InterviewsCompleted)),
	)

	width := 0
	for _, cs := range p.Competencies {
		width = max(width, len(cs.Name))
	}
	for _, cs := range p.Competencies {
		fmt.Fprintf(w, "  %-*s  %s %s\n", width, cs.Name,
			cliui.Bar(cs.Score, barWidth),
			cliui.ScoreStyle(cs.Score).Render(fmt.Sprintf("%3d", cs.Score)),
		)
	}

	overall := int(p.Overall + 0.5)
	fmt.Fprintf(w, "\n  %-*s  %s %s\n", width, "Overall",
		cliui.Bar(overall, barWidth),
		cliui.ScoreStyle(overall).Render(fmt.Sprintf("%.1f", p.Overall)),
	)

	if len(p.Recommendations) > 0 {
		fmt.Fprintf(w, "\n  %s\n", cliui.KeyStyle.Render("Recommendations"))
		for _, r := range p.Recommendations {
			fmt.Fprintf(w, "  %s %s\n", cliui.DimStyle.Render("•"), r)
		}
	}
	fmt.Fprintln(w)
}

// watchFile calls onChange after writes to path or its SQLite journal
// files, coalescing bursts. It returns when ctx is done or onChange fails.
func watchFile(ctx context.Context, path string, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating progress log watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching progress log dir: %w", err)
	}

	base := filepath.Base(path)
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = time.After(debounce)
		case <-pending:
			pending = nil
			if err := onChange(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("progress log watcher error: %w", err)
		}
	}
}
