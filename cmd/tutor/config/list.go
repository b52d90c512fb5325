package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/pkg/cliui"
	"github.com/papercomputeco/tutor/pkg/config"
)

const listLongDesc string = `List every configuration key grouped by TOML section, with defaults
filled in for keys config.toml leaves out.

Examples:
  tutor config list`

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := openFile(cmd)
			if err != nil {
				return err
			}
			cfg, err := f.Load()
			if err != nil {
				return err
			}

			keys := config.ValidConfigKeys()
			width := 0
			for _, k := range keys {
				width = max(width, len(k))
			}

			w := cmd.OutOrStdout()
			section := ""
			for _, key := range keys {
				if s, _, _ := strings.Cut(key, "."); s != section {
					section = s
					cliui.Section(w, section)
				}
				value, err := cfg.Value(key)
				if err != nil {
					return err
				}
				cliui.KV(w, key, width, value)
			}
			fmt.Fprintln(w)
			return nil
		},
	}
}
