package provider

import (
	"context"

	"github.com/papercomputeco/tutor/pkg/llm"
	"github.com/papercomputeco/tutor/pkg/llm/provider/gemini"
	"github.com/papercomputeco/tutor/pkg/llm/provider/openai"
)

// Provider is an upstream generative model. Implementations are safe for
// concurrent use; every call owns its own stream.
type Provider interface {
	// Name returns the canonical provider name (e.g., "gemini", "openai", "ollama")
	Name() string

	// Generate sends a single user prompt and returns the full reply text.
	Generate(ctx context.Context, prompt string) (string, error)

	// Stream sends a conversation with an optional system instruction and
	// calls onDelta with each text increment as it arrives. An error from
	// onDelta stops the stream and is returned.
	Stream(ctx context.Context, system string, msgs []llm.Message, onDelta func(string) error) error
}

// APIError is the upstream non-2xx error shared by all providers.
type APIError = llm.APIError

var (
	_ Provider = (*gemini.Provider)(nil)
	_ Provider = (*openai.Provider)(nil)
)
