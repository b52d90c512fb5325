// Package configcmder provides the config command for reading and editing
// config.toml in the .tutor/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/pkg/cliui"
	"github.com/papercomputeco/tutor/pkg/config"
)

const configLongDesc string = `Manage persistent tutor configuration.

config.toml in the .tutor/ directory supplies defaults for command flags.
CLI flags and TUTOR_* environment variables take precedence over it.

Keys use dotted notation matching the TOML sections. Run "tutor config list"
to see every key with its current value.

Examples:
  tutor config set provider.name ollama
  tutor config set storage.sqlite_path ~/.tutor/progress.db
  tutor config get provider.model
  tutor config unset stream.max_retries
  tutor config list`

const configShortDesc string = "Manage persistent tutor configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newUnsetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// openFile resolves config.toml for cmd and prints where it lives.
func openFile(cmd *cobra.Command) (*config.File, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	f, err := config.Open(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	w := cmd.OutOrStdout()
	if f.Path() == "" {
		cliui.Notice(w, "No .tutor directory found. Showing defaults.")
	} else {
		fmt.Fprintf(w, "\n  %s %s\n\n", cliui.KeyStyle.Render("Config file:"), cliui.DimStyle.Render(f.Path()))
	}
	return f, nil
}

func checkKey(key string) error {
	if config.IsValidConfigKey(key) {
		return nil
	}
	return fmt.Errorf("unknown config key: %q\n\nValid keys: %s", key, strings.Join(config.ValidConfigKeys(), ", "))
}

// completeKey offers config keys for the first positional argument.
func completeKey(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func printChange(w io.Writer, key, value, previous string) {
	line := fmt.Sprintf("  %s %s = %s", cliui.SuccessMark, cliui.KeyStyle.Render(key), cliui.ValueStyle.Render(value))
	if previous != "" && previous != value {
		line += " " + cliui.DimStyle.Render("(was "+previous+")")
	}
	fmt.Fprintln(w, line)
	fmt.Fprintln(w)
}
