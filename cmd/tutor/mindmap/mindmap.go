// Package mindmapcmder provides the mindmap command.
package mindmapcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/pkg/cliui"
	"github.com/papercomputeco/tutor/pkg/course"
)

const mindmapLongDesc string = `Show the outline of the current course.

Renders the modules, their topics and how many flashcards, situations and
tests belong to each one. Use --raw for plain markdown.`

const mindmapShortDesc string = "Show the course outline"

func NewMindmapCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "mindmap",
		Short: mindmapShortDesc,
		Long:  mindmapLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runMindmap(cmd.OutOrStdout(), configDir, raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")

	return cmd
}

func runMindmap(w io.Writer, configDir string, raw bool) error {
	c, _, err := course.NewSession(configDir).Load()
	if err != nil {
		return err
	}

	md := c.MindmapMarkdown()
	if raw {
		_, err := fmt.Fprint(w, md)
		return err
	}

	rendered, err := cliui.RenderMarkdown(md)
	if err != nil {
		// Fall back to plain markdown when the terminal renderer fails.
		rendered = md
	}
	_, err = fmt.Fprint(w, rendered)
	return err
}
