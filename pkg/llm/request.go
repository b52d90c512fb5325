package llm

// CourseRequest is the body of a course generation call.
type CourseRequest struct {
	Topic string `json:"topic"`
}

// InterviewRequest is the body of an interview turn. Messages is the full
// visible history, greeting included.
type InterviewRequest struct {
	Messages []Message `json:"messages"`
	Position string    `json:"position"`
}

// ChatRequest is the body of a course assistant turn.
type ChatRequest struct {
	Messages []Message `json:"messages"`
	Topic    string    `json:"topic,omitempty"`
}

// ErrorResponse is the JSON error body returned by the backend.
type ErrorResponse struct {
	Error string `json:"error"`
}
