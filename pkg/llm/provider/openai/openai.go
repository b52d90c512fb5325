// Package openai talks to OpenAI-compatible chat completions endpoints
// (OpenAI itself, Ollama's /v1 API and similar gateways).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/tutor/pkg/llm"
	"github.com/papercomputeco/tutor/pkg/logger"
	"github.com/papercomputeco/tutor/pkg/sse"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultName    = "openai"

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 4 * 1024
)

// Config configures a Provider.
type Config struct {
	// Name is reported by Provider.Name ("openai" when empty).
	Name string

	BaseURL string
	APIKey  string
	Model   string

	// MaxRetries is passed to the stream assembler. Zero disables the bound.
	MaxRetries int

	HTTPClient *http.Client
	Logger     *slog.Logger
	Generation llm.GenerationConfig
}

// Provider implements chat completions over plain HTTP.
type Provider struct {
	name       string
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	generation llm.GenerationConfig
	client     *http.Client
	logger     *slog.Logger
}

// New creates a new OpenAI-compatible provider.
func New(cfg Config) *Provider {
	p := &Provider{
		name:       cfg.Name,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		generation: cfg.Generation,
		client:     cfg.HTTPClient,
		logger:     cfg.Logger,
	}

	if p.name == "" {
		p.name = defaultName
	}
	if p.baseURL == "" {
		p.baseURL = defaultBaseURL
	}
	if p.client == nil {
		p.client = &http.Client{Timeout: 5 * time.Minute}
	}
	if p.logger == nil {
		p.logger = logger.Nop()
	}

	return p
}

func (p *Provider) Name() string {
	return p.name
}

// Generate sends prompt as a single user message and returns the reply.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.do(ctx, p.request(false, "", []llm.Message{llm.NewTextMessage(llm.RoleUser, prompt)}))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding %s response: %w", p.name, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s response has no choices", p.name)
	}

	return out.Choices[0].Message.Content, nil
}

// Stream sends the conversation with stream enabled and feeds every delta
// to onDelta as the assembler extracts it.
func (p *Provider) Stream(ctx context.Context, system string, msgs []llm.Message, onDelta func(string) error) error {
	resp, err := p.do(ctx, p.request(true, system, msgs))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	a := sse.NewAssembler(resp.Body,
		sse.WithMaxRetries(p.maxRetries),
		sse.WithLogger(p.logger),
	)
	for delta, err := range a.Deltas(ctx) {
		if err != nil {
			return fmt.Errorf("reading %s stream: %w", p.name, err)
		}
		if err := onDelta(delta); err != nil {
			return err
		}
	}

	p.logger.Debug("upstream stream complete",
		"provider", p.name,
		"model", p.model,
		"chars", len(a.Message()),
	)

	return nil
}

func (p *Provider) request(stream bool, system string, msgs []llm.Message) *chatRequest {
	req := &chatRequest{
		Model:    p.model,
		Stream:   stream,
		Messages: make([]chatMessage, 0, len(msgs)+1),
	}

	if system != "" {
		req.Messages = append(req.Messages, chatMessage{Role: llm.RoleSystem, Content: system})
	}
	for _, m := range msgs {
		req.Messages = append(req.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	if p.generation.Temperature != 0 {
		req.Temperature = &p.generation.Temperature
	}
	if p.generation.TopP != 0 {
		req.TopP = &p.generation.TopP
	}
	if p.generation.MaxOutputTokens != 0 {
		req.MaxTokens = &p.generation.MaxOutputTokens
	}

	return req
}

// do posts req to the chat completions endpoint and returns the response
// when it is a 2xx. Any other status is returned as an *llm.APIError.
func (p *Provider) do(ctx context.Context, req *chatRequest) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", p.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", p.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	p.logger.Debug("calling upstream",
		"provider", p.name,
		"model", p.model,
		"stream", req.Stream,
		"messages", len(req.Messages),
	)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", p.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			data = []byte(readErr.Error())
		}
		return nil, &llm.APIError{
			Provider:   p.name,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	return resp, nil
}
