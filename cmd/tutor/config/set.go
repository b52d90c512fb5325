package configcmder

import (
	"github.com/spf13/cobra"
)

const setLongDesc string = `Write one configuration value to config.toml.

The whole file is validated before it is written, so an unknown provider
or a malformed server URL is rejected.

Examples:
  tutor config set provider.name openai
  tutor config set provider.upstream https://api.openai.com/v1
  tutor config set stream.max_retries 0
  tutor config set eventstream.kafka_brokers localhost:9092`

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "set <key> <value>",
		Short:             "Set a configuration value",
		Long:              setLongDesc,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKey,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
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
			if err := f.Set(key, value); err != nil {
				return err
			}

			printChange(cmd.OutOrStdout(), key, value, previous)
			return nil
		},
	}

	// Values such as -1 are arguments, not shorthand flags.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
