// Package gemini implements the tutor provider on the Google Gen AI SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/genai"

	"github.com/papercomputeco/tutor/pkg/llm"
	"github.com/papercomputeco/tutor/pkg/logger"
)

const (
	name         = "gemini"
	defaultModel = "gemini-2.5-flash"
)

// Config configures a Provider.
type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API endpoint (tests, regional gateways).
	BaseURL string

	HTTPClient *http.Client
	Logger     *slog.Logger
	Generation llm.GenerationConfig
}

// Provider calls generateContent and streamGenerateContent.
type Provider struct {
	client     *genai.Client
	model      string
	generation llm.GenerationConfig
	logger     *slog.Logger
}

// New creates a new Gemini provider.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	p := &Provider{
		client:     client,
		model:      cfg.Model,
		generation: cfg.Generation,
		logger:     cfg.Logger,
	}
	if p.model == "" {
		p.model = defaultModel
	}
	if p.logger == nil {
		p.logger = logger.Nop()
	}

	return p, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return name }

// Generate sends prompt as a single user turn and returns the reply text.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	p.logger.Debug("calling upstream", "provider", name, "model", p.model, "stream", false)

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), p.config(""))
	if err != nil {
		return "", wrapError(err)
	}

	return resp.Text(), nil
}

// Stream sends the conversation and calls onDelta with each text increment.
func (p *Provider) Stream(ctx context.Context, system string, msgs []llm.Message, onDelta func(string) error) error {
	p.logger.Debug("calling upstream", "provider", name, "model", p.model, "stream", true, "messages", len(msgs))

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for resp, err := range p.client.Models.GenerateContentStream(streamCtx, p.model, contents(msgs), p.config(system)) {
		if err != nil {
			return wrapError(err)
		}
		if resp == nil {
			continue
		}

		text := resp.Text()
		if text == "" {
			continue
		}
		if err := onDelta(text); err != nil {
			return err
		}
	}

	return nil
}

func (p *Provider) config(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: p.generation.MaxOutputTokens,
	}
	if p.generation.Temperature != 0 {
		cfg.Temperature = genai.Ptr(p.generation.Temperature)
	}
	if p.generation.TopK != 0 {
		cfg.TopK = genai.Ptr(p.generation.TopK)
	}
	if p.generation.TopP != 0 {
		cfg.TopP = genai.Ptr(p.generation.TopP)
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	return cfg
}

// contents converts the conversation to genai turns. System messages are
// folded into user turns since Gemini only takes them as a config field.
func contents(msgs []llm.Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := string(genai.RoleUser)
		if m.Role == llm.RoleAssistant {
			role = string(genai.RoleModel)
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	return out
}

func wrapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.APIError{
			Provider:   name,
			StatusCode: apiErr.Code,
			Body:       apiErr.Message,
		}
	}

	return fmt.Errorf("calling %s: %w", name, err)
}
