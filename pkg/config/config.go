package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/tutor/pkg/dotdir"
)

const (
	fileName = "config.toml"

	// CurrentV is the only config.toml schema version tutor reads.
	CurrentV = 0
)

// File is the config.toml inside a resolved .tutor/ directory. A File with
// no directory loads defaults and refuses to save.
type File struct {
	path string
}

// Open resolves the .tutor/ directory (override first, then ./.tutor, then
// ~/.tutor) and returns a handle on its config.toml.
func Open(override string) (*File, error) {
	dir, err := dotdir.NewManager().Target(override)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return &File{}, nil
	}

	path := filepath.Join(dir, fileName)
	if _, err := os.Stat(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return &File{path: path}, nil
}

// Path returns the config.toml location, or "" when no .tutor/ exists.
func (f *File) Path() string {
	return f.path
}

// Load reads config.toml. A missing file yields NewDefaultConfig; fields
// absent from the file keep their defaults.
func (f *File) Load() (*Config, error) {
	if f.path == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(f.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return NewDefaultConfig(), nil
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Decode(data)
}

// Save validates cfg and writes it to config.toml.
func (f *File) Save(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}
	if f.path == "" {
		return errors.New("no .tutor directory found: run \"tutor init\" or pass --config-dir")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(f.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Get returns the string form of one dotted key.
func (f *File) Get(name string) (string, error) {
	if !IsValidConfigKey(name) {
		return "", fmt.Errorf("unknown config key: %q", name)
	}
	cfg, err := f.Load()
	if err != nil {
		return "", err
	}
	return cfg.Value(name)
}

// Set updates one dotted key and saves the file. The whole config must still
// validate afterwards.
func (f *File) Set(name, value string) error {
	if !IsValidConfigKey(name) {
		return fmt.Errorf("unknown config key: %q", name)
	}
	cfg, err := f.Load()
	if err != nil {
		return err
	}
	if err := cfg.SetValue(name, value); err != nil {
		return err
	}
	return f.Save(cfg)
}

// Unset restores one dotted key to its default and saves the file.
func (f *File) Unset(name string) error {
	k, err := lookupKey(name)
	if err != nil {
		return err
	}
	cfg, err := f.Load()
	if err != nil {
		return err
	}
	if err := k.set(cfg, fmt.Sprint(k.value(NewDefaultConfig()))); err != nil {
		return err
	}
	return f.Save(cfg)
}

// Decode parses config.toml contents and fills unset fields from the
// defaults. stream.max_retries is only defaulted when absent, since 0 turns
// the bound off.
func Decode(data []byte) (*Config, error) {
	cfg := &Config{}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	if cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	d := NewDefaultConfig()
	if !md.IsDefined("stream", "max_retries") {
		cfg.Stream.MaxRetries = d.Stream.MaxRetries
	}

	fill(&cfg.Provider.Name, d.Provider.Name)
	fill(&cfg.Provider.Model, presetModel(cfg.Provider.Name))
	if cfg.Provider.Name == d.Provider.Name {
		fill(&cfg.Provider.APIKeyEnv, d.Provider.APIKeyEnv)
	}
	fill(&cfg.Server.Listen, d.Server.Listen)
	fill(&cfg.Client.ServerTarget, d.Client.ServerTarget)
	fill(&cfg.Course.Language, d.Course.Language)
	fill(&cfg.EventStream.KafkaTopic, d.EventStream.KafkaTopic)

	return cfg, nil
}

func fill(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

// Validate checks the settings the server and clients cannot start without.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(ValidPresetNames(), c.Provider.Name) {
		errs = append(errs, fmt.Errorf("provider.name %q is not one of %v", c.Provider.Name, ValidPresetNames()))
	}
	if c.Stream.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("stream.max_retries %d is negative", c.Stream.MaxRetries))
	}
	if u, err := url.Parse(c.Client.ServerTarget); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("client.server_target %q is not an http(s) URL", c.Client.ServerTarget))
	}
	if c.EventStream.KafkaBrokers != "" && c.EventStream.KafkaTopic == "" {
		errs = append(errs, errors.New("eventstream.kafka_topic is required when kafka_brokers is set"))
	}

	return errors.Join(errs...)
}

// Preset returns the defaults tuned for one model provider.
func Preset(name string) (*Config, error) {
	cfg := NewDefaultConfig()
	name = strings.ToLower(name)

	switch name {
	case "gemini":
	case "openai":
		cfg.Provider = ProviderConfig{
			Name:      name,
			Model:     presetModel(name),
			Upstream:  "https://api.openai.com/v1",
			APIKeyEnv: "OPENAI_API_KEY",
		}
	case "ollama":
		cfg.Provider = ProviderConfig{
			Name:     name,
			Model:    presetModel(name),
			Upstream: "http://localhost:11434/v1",
		}
	default:
		return nil, fmt.Errorf("unknown preset: %q (available: %s)", name, strings.Join(ValidPresetNames(), ", "))
	}
	return cfg, nil
}

// ValidPresetNames returns the providers a preset exists for.
func ValidPresetNames() []string {
	return []string{"gemini", "openai", "ollama"}
}

func presetModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini"
	case "ollama":
		return "llama3.2"
	default:
		return defaultModel
	}
}
