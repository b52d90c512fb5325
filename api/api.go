package api

import (
	"errors"
	"log/slog"
	"net"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/tutor/api/mcp"
	"github.com/papercomputeco/tutor/api/worker"
	"github.com/papercomputeco/tutor/pkg/course"
	"github.com/papercomputeco/tutor/pkg/hr"
	"github.com/papercomputeco/tutor/pkg/jobs"
	"github.com/papercomputeco/tutor/pkg/storage"
)

// Server is the tutor API server.
type Server struct {
	config    Config
	storer    storage.Driver
	pool      *worker.Pool
	generator *course.Generator
	logger    *slog.Logger
	app       *fiber.App
}

// NewServer creates a new API server.
// The storer is read directly; writes go through pool, which the caller
// owns and closes after Shutdown.
func NewServer(config Config, storer storage.Driver, pool *worker.Pool, logger *slog.Logger) (*Server, error) {
	if config.Provider == nil {
		return nil, errors.New("provider is required")
	}
	if storer == nil {
		return nil, errors.New("storage driver is required")
	}
	if pool == nil {
		return nil, errors.New("worker pool is required")
	}
	if config.Catalog == nil {
		config.Catalog = jobs.Catalog()
	}
	if config.Roster == nil {
		config.Roster = hr.DemoRoster()
	}
	if config.Language == "" {
		config.Language = course.DefaultLanguage
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:    config,
		storer:    storer,
		pool:      pool,
		generator: course.NewGenerator(config.Provider, config.Language, logger),
		logger:    logger,
		app:       app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/stats", s.handleStats)

	fn := app.Group("/functions/v1")
	fn.Post("/generate-course", s.handleGenerateCourse)
	fn.Post("/interview", s.handleInterview)
	fn.Post("/chat", s.handleChat)

	app.Get("/progress", s.handleListProgress)
	app.Post("/progress/tests", s.handleRecordTest)
	app.Post("/progress/situations", s.handleRecordSituation)
	app.Get("/profile", s.handleProfile)
	app.Get("/jobs", s.handleJobs)
	app.Get("/hr", s.handleHR)

	if !config.DisableMCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Driver:  storer,
			Catalog: config.Catalog,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
		"provider", s.config.Provider.Name(),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener starts the API server on an existing listener.
func (s *Server) RunWithListener(ln net.Listener) error {
	s.logger.Info("starting API server",
		"listen", ln.Addr().String(),
		"provider", s.config.Provider.Name(),
	)
	return s.app.Listener(ln)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
