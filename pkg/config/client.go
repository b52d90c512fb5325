package config

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ClientSettings are the resolved values every command that talks to the
// tutor backend needs.
type ClientSettings struct {
	ServerTarget string
	MaxRetries   int
}

// AddClientFlags registers --server and --max-retries on cmd.
func AddClientFlags(cmd *cobra.Command, s *ClientSettings) {
	AddStringFlag(cmd, Flags, FlagServerTarget, &s.ServerTarget)
	AddIntFlag(cmd, Flags, FlagMaxRetries, &s.MaxRetries)
}

// ResolveClient layers the client flags of cmd over env, config.toml and
// defaults, and stores the result in s. Call it from PreRunE.
func ResolveClient(cmd *cobra.Command, s *ClientSettings) error {
	configDir, _ := cmd.Flags().GetString("config-dir")
	v, err := InitViper(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	BindRegisteredFlags(v, cmd, Flags, []string{FlagServerTarget, FlagMaxRetries})

	s.ServerTarget = v.GetString(Flags[FlagServerTarget].ViperKey)
	s.MaxRetries = v.GetInt(Flags[FlagMaxRetries].ViperKey)
	if s.MaxRetries < 0 {
		return fmt.Errorf("invalid --max-retries %d: must not be negative", s.MaxRetries)
	}
	return nil
}
