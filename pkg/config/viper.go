package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/tutor/pkg/dotdir"
)

// EnvPrefix namespaces environment overrides: server.listen is read from
// TUTOR_SERVER_LISTEN.
const EnvPrefix = "TUTOR"

// InitViper layers, from highest to lowest precedence, flags bound later with
// BindRegisteredFlags, TUTOR_* environment variables, config.toml in the
// resolved .tutor/ directory, and NewDefaultConfig.
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	defaults := NewDefaultConfig()
	v.SetDefault("version", defaults.Version)
	for _, k := range keys {
		v.SetDefault(k.name, k.value(defaults))
	}

	dir, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	v.SetConfigName(strings.TrimSuffix(fileName, ".toml"))
	v.SetConfigType("toml")
	if dir != "" {
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}
