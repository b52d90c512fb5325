package api

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/papercomputeco/tutor/api/worker"
	"github.com/papercomputeco/tutor/pkg/eventstream"
	"github.com/papercomputeco/tutor/pkg/interview"
	"github.com/papercomputeco/tutor/pkg/llm"
	"github.com/papercomputeco/tutor/pkg/progress"
	"github.com/papercomputeco/tutor/pkg/sse"
)

// turn is one streamed conversation turn against the provider.
type turn struct {
	system   string
	messages []llm.Message

	// onComplete runs after the stream ended cleanly.
	onComplete func()
}

// handleInterview streams the interviewer's next reply and records the
// exchange once the reply is complete.
func (s *Server) handleInterview(c *fiber.Ctx) error {
	var req llm.InterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Position) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "position is required"})
	}
	if len(req.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "messages are required"})
	}

	route := c.Path()
	return s.streamTurn(c, turn{
		system:   interview.SystemPrompt(req.Position),
		messages: req.Messages,
		onComplete: func() {
			s.recordInterview(route, req.Position, len(req.Messages)+1)
		},
	})
}

// handleChat streams the course assistant's next reply. Nothing is recorded.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req llm.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if len(req.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "messages are required"})
	}

	return s.streamTurn(c, turn{
		system:   interview.TutorPrompt(req.Topic),
		messages: req.Messages,
	})
}

// streamTurn runs the provider stream in the background and relays it as
// chat-completions frames. The response status is decided by the first
// event: a provider failure before any delta becomes a JSON error, anything
// later aborts the body.
func (s *Server) streamTurn(c *fiber.Ctx, t turn) error {
	// Use context.Background() instead of c.Context() because fasthttp recycles
	// the request context once the handler returns, while the stream outlives it.
	ctx, cancel := context.WithCancel(context.Background())

	pr, pw := io.Pipe()
	first := make(chan error, 1)
	started := time.Now()

	go func() {
		defer cancel()

		enc := sse.NewEncoder(pw, "chatcmpl-"+uuid.NewString(), s.config.Model)
		opened := false
		open := func() error {
			if opened {
				return nil
			}
			opened = true
			first <- nil
			return enc.Role(llm.RoleAssistant)
		}

		err := s.config.Provider.Stream(ctx, t.system, t.messages, func(delta string) error {
			if err := open(); err != nil {
				return err
			}
			return enc.Delta(delta)
		})
		if err != nil {
			if !opened {
				first <- err
				pw.Close()
				return
			}
			s.logger.Warn("stream aborted", "error", err, "duration", time.Since(started))
			pw.CloseWithError(err)
			return
		}

		if err := open(); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := enc.Done(); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.Close()

		s.logger.Debug("stream complete", "duration", time.Since(started))
		if t.onComplete != nil {
			t.onComplete()
		}
	}()

	if err := <-first; err != nil {
		s.logger.Error("provider stream failed", "error", err)
		return c.Status(upstreamStatus(err)).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	// Use io.Pipe + SetBodyStream so each Encoder write blocks until fasthttp
	// has consumed it; deltas reach the client as they are produced.
	c.Context().Response.SetBodyStream(pr, -1)
	return nil
}

func (s *Server) recordInterview(route, position string, messages int) {
	record, err := progress.NewInterviewRecord(progress.InterviewResult{
		Position:      strings.TrimSpace(position),
		MessagesCount: messages,
	})
	if err != nil {
		s.logger.Error("failed to build interview record", "error", err)
		return
	}

	if !s.pool.Enqueue(worker.Job{Record: record, Source: eventstream.EventSource{Route: route}}) {
		s.logger.Warn("interview record dropped", "position", position)
	}
}
