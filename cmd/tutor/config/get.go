package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/pkg/cliui"
)

const getLongDesc string = `Print one configuration value.

Keys missing from config.toml show their default.

Examples:
  tutor config get provider.name
  tutor config get stream.max_retries`

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "get <key>",
		Short:             "Get a configuration value",
		Long:              getLongDesc,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := checkKey(key); err != nil {
				return err
			}

			f, err := openFile(cmd)
			if err != nil {
				return err
			}
			value, err := f.Get(key)
			if err != nil {
				return err
			}

			cliui.KV(cmd.OutOrStdout(), key, len(key), value)
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
