package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/tutor/pkg/jobs"
	"github.com/papercomputeco/tutor/pkg/progress"
)

var (
	profileToolName    = "competency_profile"
	profileDescription = "Return the learner's competency profile: test and situation totals, a 0-100 score for analytical thinking, communication, decision making and stress resistance, the overall score and recommendations."

	jobMatchesToolName    = "job_matches"
	jobMatchesDescription = "Return jobs from the catalog ranked by how well their required skills overlap the skills the learner has demonstrated."

	progressLogToolName    = "progress_log"
	progressLogDescription = "Return the most recent entries of the learner's progress log, newest first. Filter by kind: test_result, situation_result or interview_result."
)

const defaultLogLimit = 20

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{Name: profileToolName, Description: profileDescription}, s.handleProfile)
	mcp.AddTool(s.mcpServer, &mcp.Tool{Name: jobMatchesToolName, Description: jobMatchesDescription}, s.handleJobMatches)
	mcp.AddTool(s.mcpServer, &mcp.Tool{Name: progressLogToolName, Description: progressLogDescription}, s.handleProgressLog)
}

// ProfileInput takes no arguments.
type ProfileInput struct{}

// JobMatchesInput represents the input arguments for the job_matches tool.
type JobMatchesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of jobs to return (default: all)"`
}

// JobMatchesOutput represents the output of the job_matches tool.
type JobMatchesOutput struct {
	Skills  []string     `json:"skills"`
	Matches []jobs.Match `json:"matches"`
	Count   int          `json:"count"`
}

// ProgressLogInput represents the input arguments for the progress_log tool.
type ProgressLogInput struct {
	Kind  string `json:"kind,omitempty" jsonschema:"record kind to return (default: all kinds)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of records to return (default: 20)"`
}

// LogEntry is one progress record as returned by the progress_log tool.
type LogEntry struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	RecordedAt string         `json:"recorded_at"`
	Payload    map[string]any `json:"payload"`
}

// ProgressLogOutput represents the output of the progress_log tool.
type ProgressLogOutput struct {
	Records []LogEntry `json:"records"`
	Total   int        `json:"total"`
}

func (s *Server) handleProfile(ctx context.Context, _ *mcp.CallToolRequest, _ ProfileInput) (*mcp.CallToolResult, progress.Profile, error) {
	records, err := s.config.Driver.List(ctx, "")
	if err != nil {
		s.config.Logger.Error("failed to list progress", "error", err)
		return errorResult("Failed to read progress: %v", err), progress.Profile{}, nil
	}

	profile := progress.Aggregate(records)
	s.config.Logger.Debug("MCP profile request", "records", len(records), "overall", profile.Overall)
	return textResult(profile), profile, nil
}

func (s *Server) handleJobMatches(ctx context.Context, _ *mcp.CallToolRequest, input JobMatchesInput) (*mcp.CallToolResult, JobMatchesOutput, error) {
	tests, err := s.config.Driver.List(ctx, progress.KindTestResult)
	if err != nil {
		return errorResult("Failed to read progress: %v", err), JobMatchesOutput{}, nil
	}
	situations, err := s.config.Driver.List(ctx, progress.KindSituationResult)
	if err != nil {
		return errorResult("Failed to read progress: %v", err), JobMatchesOutput{}, nil
	}

	skills := jobs.Skills(len(tests), len(situations))
	matches := jobs.Rank(s.config.Catalog, skills)
	if input.Limit > 0 && input.Limit < len(matches) {
		matches = matches[:input.Limit]
	}

	output := JobMatchesOutput{
		Skills:  skills,
		Matches: matches,
		Count:   len(matches),
	}
	return textResult(output), output, nil
}

func (s *Server) handleProgressLog(ctx context.Context, _ *mcp.CallToolRequest, input ProgressLogInput) (*mcp.CallToolResult, ProgressLogOutput, error) {
	kind := progress.Kind(input.Kind)
	if kind != "" && !kind.Valid() {
		return errorResult("Unknown record kind %q", input.Kind), ProgressLogOutput{}, nil
	}

	records, err := s.config.Driver.List(ctx, kind)
	if err != nil {
		s.config.Logger.Error("failed to list progress", "kind", kind, "error", err)
		return errorResult("Failed to read progress: %v", err), ProgressLogOutput{}, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLogLimit
	}
	recent := make([]LogEntry, 0, min(limit, len(records)))
	for i := len(records) - 1; i >= 0 && len(recent) < limit; i-- {
		r := records[i]
		entry := LogEntry{
			ID:         r.ID.String(),
			Kind:       string(r.Kind),
			RecordedAt: r.RecordedAt.Format(time.RFC3339),
		}
		if err := json.Unmarshal(r.Payload, &entry.Payload); err != nil {
			return errorResult("Failed to decode record %s: %v", r.ID, err), ProgressLogOutput{}, nil
		}
		recent = append(recent, entry)
	}

	output := ProgressLogOutput{Records: recent, Total: len(records)}
	return textResult(output), output, nil
}

// textResult serializes the structured output as JSON for the text field;
// tools returning structured content should also return it as text for
// clients that do not read structured content.
func textResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult("Failed to serialize results: %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}
