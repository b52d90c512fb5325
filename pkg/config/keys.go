package config

import (
	"fmt"
	"strconv"
)

// key is one user-facing dotted setting. value returns the typed field so the
// same table seeds viper defaults; set parses the string form used by
// "tutor config set".
type key struct {
	name  string
	value func(c *Config) any
	set   func(c *Config, v string) error
}

func stringKey(name string, field func(c *Config) *string) key {
	return key{
		name:  name,
		value: func(c *Config) any { return *field(c) },
		set:   func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

// keys lists every setting in config.toml section order.
var keys = []key{
	stringKey("storage.sqlite_path", func(c *Config) *string { return &c.Storage.SQLitePath }),
	stringKey("storage.postgres_dsn", func(c *Config) *string { return &c.Storage.PostgresDSN }),
	stringKey("provider.name", func(c *Config) *string { return &c.Provider.Name }),
	stringKey("provider.model", func(c *Config) *string { return &c.Provider.Model }),
	stringKey("provider.upstream", func(c *Config) *string { return &c.Provider.Upstream }),
	stringKey("provider.api_key_env", func(c *Config) *string { return &c.Provider.APIKeyEnv }),
	stringKey("server.listen", func(c *Config) *string { return &c.Server.Listen }),
	stringKey("client.server_target", func(c *Config) *string { return &c.Client.ServerTarget }),
	stringKey("course.language", func(c *Config) *string { return &c.Course.Language }),
	{
		name:  "stream.max_retries",
		value: func(c *Config) any { return c.Stream.MaxRetries },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for stream.max_retries: %w", err)
			}
			if n < 0 {
				return fmt.Errorf("invalid value for stream.max_retries: %d is negative", n)
			}
			c.Stream.MaxRetries = n
			return nil
		},
	},
	stringKey("eventstream.kafka_brokers", func(c *Config) *string { return &c.EventStream.KafkaBrokers }),
	stringKey("eventstream.kafka_topic", func(c *Config) *string { return &c.EventStream.KafkaTopic }),
}

func lookupKey(name string) (key, error) {
	for _, k := range keys {
		if k.name == name {
			return k, nil
		}
	}
	return key{}, fmt.Errorf("unknown config key: %q", name)
}

// ValidConfigKeys returns every supported key in config.toml section order.
func ValidConfigKeys() []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.name
	}
	return names
}

// IsValidConfigKey reports whether name is a supported key.
func IsValidConfigKey(name string) bool {
	_, err := lookupKey(name)
	return err == nil
}

// Value returns the string form of the named setting.
func (c *Config) Value(name string) (string, error) {
	k, err := lookupKey(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(k.value(c)), nil
}

// SetValue parses v into the named setting.
func (c *Config) SetValue(name, v string) error {
	k, err := lookupKey(name)
	if err != nil {
		return err
	}
	return k.set(c, v)
}
