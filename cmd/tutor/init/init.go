// Package initcmder provides the init command for initializing a local .tutor
// directory in the current working directory.
package initcmder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/pkg/config"
	"github.com/papercomputeco/tutor/pkg/dotdir"
)

const initLongDesc string = `Initialize a new .tutor/ directory in the current working directory.

Creates a local .tutor/ directory that takes precedence over the default
~/.tutor/ directory for configuration, the session course and the SQLite
progress log. With --preset a config.toml for that model provider is
written as well.

Examples:
  tutor init
  tutor init --preset ollama`

const initShortDesc string = "Initialize a local .tutor/ directory"

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(preset)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", fmt.Sprintf("Write a provider preset config (%v)", config.ValidPresetNames()))

	return cmd
}

func runInit(preset string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dotdir.DirName)

	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		fmt.Printf("Already initialized: %s\n", dir)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("checking .tutor directory: %w", err)
	default:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .tutor directory: %w", err)
		}
		fmt.Printf("Initialized .tutor directory: %s\n", dir)
	}

	if preset == "" {
		return nil
	}

	cfg, err := config.Preset(preset)
	if err != nil {
		return err
	}

	f, err := config.Open(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := f.Save(cfg); err != nil {
		return err
	}

	fmt.Printf("Wrote %s preset to %s\n", preset, f.Path())
	return nil
}
