package configcmder

import (
	"github.com/spf13/cobra"
)

const unsetLongDesc string = `Reset one configuration value to its default.

Examples:
  tutor config unset provider.upstream
  tutor config unset stream.max_retries`

func newUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "unset <key>",
		Short:             "Reset a configuration value to its default",
		Long:              unsetLongDesc,
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
			previous, err := f.Get(key)
			if err != nil {
				return err
			}
			if err := f.Unset(key); err != nil {
				return err
			}
			value, err := f.Get(key)
			if err != nil {
				return err
			}

			printChange(cmd.OutOrStdout(), key, value, previous)
			return nil
		},
	}
}
