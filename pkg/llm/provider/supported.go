package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/papercomputeco/tutor/pkg/llm"
	"github.com/papercomputeco/tutor/pkg/llm/provider/gemini"
	"github.com/papercomputeco/tutor/pkg/llm/provider/openai"
)

// Supported provider type constants
const (
	Gemini = "gemini"
	OpenAI = "openai"
	Ollama = "ollama"
)

const defaultOllamaUpstream = "http://localhost:11434/v1"

// Config selects and configures a provider.
type Config struct {
	Name     string
	Model    string
	Upstream string
	APIKey   string

	// MaxRetries bounds how long a malformed stream record may stall an
	// OpenAI-compatible stream. Zero disables the bound.
	MaxRetries int

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{Gemini, OpenAI, Ollama}
}

// New creates a new Provider instance for the given configuration.
// Returns an error if the provider type is not recognized.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Name {
	case Gemini:
		p, err := gemini.New(ctx, gemini.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			BaseURL:    cfg.Upstream,
			HTTPClient: cfg.HTTPClient,
			Logger:     cfg.Logger,
			Generation: llm.DefaultGeneration(),
		})
		if err != nil {
			return nil, err
		}
		return p, nil

	case OpenAI, Ollama:
		upstream := cfg.Upstream
		if upstream == "" && cfg.Name == Ollama {
			upstream = defaultOllamaUpstream
		}
		return openai.New(openai.Config{
			Name:       cfg.Name,
			BaseURL:    upstream,
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			MaxRetries: cfg.MaxRetries,
			HTTPClient: cfg.HTTPClient,
			Logger:     cfg.Logger,
			Generation: llm.DefaultGeneration(),
		}), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", cfg.Name, SupportedProviders())
	}
}
