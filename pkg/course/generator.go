package course

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/papercomputeco/tutor/pkg/logger"
)

// Model is the single-shot completion the generator needs from a provider.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Generator turns a topic into a Course through a Model.
type Generator struct {
	model    Model
	language string
	logger   *slog.Logger
}

// NewGenerator creates a Generator writing courses in language.
func NewGenerator(model Model, language string, log *slog.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{
		model:    model,
		language: language,
		logger:   log,
	}
}

// Generate builds a course for topic. A blank topic returns ErrEmptyTopic;
// model and parse failures return a *GenerationError.
func (g *Generator) Generate(ctx context.Context, topic string) (*Course, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	g.logger.Info("generating course", "topic", topic, "language", g.language)
	start := time.Now()

	reply, err := g.model.Generate(ctx, Prompt(topic, g.language))
	if err != nil {
		g.logger.Error("course generation failed", "topic", topic, "error", err)
		return nil, &GenerationError{Topic: topic, Err: err}
	}

	c, err := Parse(reply)
	if err != nil {
		g.logger.Error("course reply unreadable", "topic", topic, "error", err, "reply_bytes", len(reply))
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			genErr.Topic = topic
		}
		return nil, err
	}

	g.logger.Info("course generated",
		"topic", topic,
		"modules", len(c.Mindmap.Modules),
		"flashcards", len(c.Flashcards),
		"situations", len(c.Situations),
		"tests", len(c.Tests),
		"duration", time.Since(start),
	)

	return c, nil
}
