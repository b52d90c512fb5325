// Package api provides the tutor HTTP backend: course generation, streamed
// interview and chat turns, and the progress log with its derived views.
package api

import (
	"github.com/papercomputeco/tutor/pkg/hr"
	"github.com/papercomputeco/tutor/pkg/jobs"
	"github.com/papercomputeco/tutor/pkg/llm/provider"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8787")
	ListenAddr string

	// Provider is the upstream model behind every generative route.
	Provider provider.Provider

	// Model is reported in streamed chunks.
	Model string

	// Language is the content language of generated courses.
	Language string

	// Catalog and Roster back the job and HR views. They default to the
	// demo data of the jobs and hr packages.
	Catalog []jobs.Job
	Roster  []hr.Learner

	// DisableMCP leaves the /mcp route unmounted.
	DisableMCP bool
}
