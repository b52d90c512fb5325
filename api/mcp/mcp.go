// Package mcp exposes the learner's progress log to MCP clients over
// streamable HTTP.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/tutor/pkg/jobs"
	"github.com/papercomputeco/tutor/pkg/storage"
	"github.com/papercomputeco/tutor/pkg/utils"
)

type Config struct {
	// Driver is the progress log the tools read.
	Driver storage.Driver

	// Catalog is the job list matched by the job_matches tool. Defaults to
	// jobs.Catalog().
	Catalog []jobs.Job

	// Noop builds a server without tools.
	Noop bool

	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer registers the progress tools unless c.Noop is set.
func NewServer(c Config) (*Server, error) {
	if !c.Noop {
		switch {
		case c.Driver == nil:
			return nil, errors.New("storage driver is required")
		case c.Logger == nil:
			return nil, errors.New("logger is required")
		}
		if c.Catalog == nil {
			c.Catalog = jobs.Catalog()
		}
	}

	s := &Server{
		config:    c,
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: "tutor", Version: utils.Version}, nil),
	}
	if !c.Noop {
		s.registerTools()
	}

	s.handler = mcp.NewStreamableHTTPHandler(
		func(*http.Request) *mcp.Server { return s.mcpServer },
		&mcp.StreamableHTTPOptions{Stateless: true},
	)
	return s, nil
}

// Handler serves MCP requests over HTTP.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// MCPServer returns the underlying server, for in-process transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}
