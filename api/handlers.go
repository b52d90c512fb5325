package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/tutor/api/worker"
	"github.com/papercomputeco/tutor/pkg/course"
	"github.com/papercomputeco/tutor/pkg/eventstream"
	"github.com/papercomputeco/tutor/pkg/hr"
	"github.com/papercomputeco/tutor/pkg/jobs"
	"github.com/papercomputeco/tutor/pkg/llm"
	"github.com/papercomputeco/tutor/pkg/progress"
)

// JobsResponse is the body of GET /jobs.
type JobsResponse struct {
	Skills  []string     `json:"skills"`
	Matches []jobs.Match `json:"matches"`
}

// RecordedResponse acknowledges a queued progress record.
type RecordedResponse struct {
	ID string `json:"id"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleStats reports the progress worker pool counters.
func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(s.pool.Stats())
}

// handleGenerateCourse asks the provider for a course on the requested topic.
func (s *Server) handleGenerateCourse(c *fiber.Ctx) error {
	var req llm.CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	generated, err := s.generator.Generate(c.UserContext(), req.Topic)
	switch {
	case errors.Is(err, course.ErrEmptyTopic):
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "topic is required"})
	case err != nil:
		return c.Status(upstreamStatus(err)).JSON(llm.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(generated)
}

// handleListProgress returns the progress log, optionally filtered by kind.
func (s *Server) handleListProgress(c *fiber.Ctx) error {
	kind := progress.Kind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "unknown record kind"})
	}

	records, err := s.storer.List(c.UserContext(), kind)
	if err != nil {
		s.logger.Error("failed to list progress", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list progress"})
	}
	return c.JSON(records)
}

// handleRecordTest queues a test result.
func (s *Server) handleRecordTest(c *fiber.Ctx) error {
	var res progress.TestResult
	if err := c.BodyParser(&res); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	record, err := progress.NewTestRecord(res)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: err.Error()})
	}
	return s.enqueue(c, record)
}

// handleRecordSituation queues a situation result.
func (s *Server) handleRecordSituation(c *fiber.Ctx) error {
	var res progress.SituationResult
	if err := c.BodyParser(&res); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	record, err := progress.NewSituationRecord(res)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: err.Error()})
	}
	return s.enqueue(c, record)
}

func (s *Server) enqueue(c *fiber.Ctx, record *progress.Record) error {
	ok := s.pool.Enqueue(worker.Job{
		Record: record,
		Source: eventstream.EventSource{Route: c.Path()},
	})
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(llm.ErrorResponse{Error: "progress recording unavailable"})
	}
	return c.Status(fiber.StatusAccepted).JSON(RecordedResponse{ID: record.ID.String()})
}

// handleProfile aggregates the whole log into the competency profile.
func (s *Server) handleProfile(c *fiber.Ctx) error {
	records, err := s.storer.List(c.UserContext(), "")
	if err != nil {
		s.logger.Error("failed to list progress", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list progress"})
	}
	return c.JSON(progress.Aggregate(records))
}

// handleJobs matches the catalog against the skills the log demonstrates.
func (s *Server) handleJobs(c *fiber.Ctx) error {
	ctx := c.UserContext()

	tests, err := s.storer.List(ctx, progress.KindTestResult)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list progress"})
	}
	situations, err := s.storer.List(ctx, progress.KindSituationResult)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list progress"})
	}

	skills := jobs.Skills(len(tests), len(situations))
	return c.JSON(JobsResponse{
		Skills:  skills,
		Matches: jobs.Rank(s.config.Catalog, skills),
	})
}

// handleHR returns the reviewer dashboard.
func (s *Server) handleHR(c *fiber.Ctx) error {
	return c.JSON(hr.Dashboard(s.config.Roster))
}

// upstreamStatus maps a provider failure to a response status. Rate limits
// pass through so clients can back off; everything else is a 500.
func upstreamStatus(err error) int {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == fiber.StatusTooManyRequests {
		return fiber.StatusTooManyRequests
	}
	return fiber.StatusInternalServerError
}
