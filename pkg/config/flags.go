package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --server
// on "tutor generate", "tutor interview" and "tutor profile").
type Flag struct {
	// Name is the long flag name (e.g. "model").
	Name string

	// Shorthand is the one-letter short flag (e.g. "m"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "provider.model").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddIntFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagListen       = "listen"
	FlagProvider     = "provider"
	FlagModel        = "model"
	FlagUpstream     = "upstream"
	FlagAPIKeyEnv    = "api-key-env"
	FlagSQLite       = "sqlite"
	FlagPostgres     = "postgres"
	FlagServerTarget = "server"
	FlagLanguage     = "language"
	FlagMaxRetries   = "max-retries"
	FlagKafkaBrokers = "kafka-brokers"
	FlagKafkaTopic   = "kafka-topic"
)

// Flags is the registry shared by every tutor command.
var Flags = FlagSet{
	FlagListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "server.listen",
		Description: "Address for the tutor backend to listen on",
	},
	FlagProvider: {
		Name:        "provider",
		Shorthand:   "p",
		ViperKey:    "provider.name",
		Description: "Model provider (gemini, openai, ollama)",
	},
	FlagModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "provider.model",
		Description: "Model used for course generation, interviews and chat",
	},
	FlagUpstream: {
		Name:        "upstream",
		Shorthand:   "u",
		ViperKey:    "provider.upstream",
		Description: "Upstream provider base URL (empty uses the provider default)",
	},
	FlagAPIKeyEnv: {
		Name:        "api-key-env",
		ViperKey:    "provider.api_key_env",
		Description: "Environment variable holding the provider API key",
	},
	FlagSQLite: {
		Name:        "sqlite",
		Shorthand:   "s",
		ViperKey:    "storage.sqlite_path",
		Description: "Path to the SQLite progress log (empty keeps progress in memory)",
	},
	FlagPostgres: {
		Name:        "postgres",
		ViperKey:    "storage.postgres_dsn",
		Description: "PostgreSQL DSN for the progress log (takes precedence over --sqlite)",
	},
	FlagServerTarget: {
		Name:        "server",
		ViperKey:    "client.server_target",
		Description: "Tutor backend URL",
	},
	FlagLanguage: {
		Name:        "language",
		ViperKey:    "course.language",
		Description: "Language generated courses are written in",
	},
	FlagMaxRetries: {
		Name:        "max-retries",
		ViperKey:    "stream.max_retries",
		Description: "Chunks an unparseable stream record may wait for (0 waits until the stream ends)",
	},
	FlagKafkaBrokers: {
		Name:        "kafka-brokers",
		ViperKey:    "eventstream.kafka_brokers",
		Description: "Comma separated Kafka brokers for progress events (empty disables publishing)",
	},
	FlagKafkaTopic: {
		Name:        "kafka-topic",
		ViperKey:    "eventstream.kafka_topic",
		Description: "Kafka topic for progress events",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *int) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultInt(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().IntVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultValue returns the NewDefaultConfig value behind a dotted key.
func defaultValue(viperKey string) any {
	k, err := lookupKey(viperKey)
	if err != nil {
		return nil
	}
	return k.value(NewDefaultConfig())
}

func defaultString(viperKey string) string {
	s, _ := defaultValue(viperKey).(string)
	return s
}

func defaultInt(viperKey string) int {
	n, _ := defaultValue(viperKey).(int)
	return n
}
