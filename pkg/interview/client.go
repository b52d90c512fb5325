package interview

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
	"sync/atomic"
	"time"

	"github.com/papercomputeco/tutor/pkg/course"
	"github.com/papercomputeco/tutor/pkg/llm"
	"github.com/papercomputeco/tutor/pkg/logger"
	"github.com/papercomputeco/tutor/pkg/sse"
)

// Backend routes.
const (
	PathGenerateCourse = "/functions/v1/generate-course"
	PathInterview      = "/functions/v1/interview"
	PathChat           = "/functions/v1/chat"
)

// maxErrorBody caps how much of a failed response is kept in a FetchError.
const maxErrorBody = 4 << 10

// Client talks to the tutor backend. A Client runs at most one stream at a
// time; Stream returns ErrBusy while one is in flight.
type Client struct {
	baseURL    string
	http       *http.Client
	maxRetries int
	log        *slog.Logger

	busy atomic.Bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithMaxRetries bounds how many reads a malformed stream record may stay
// unresolved. See sse.WithMaxRetries.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) { c.maxRetries = n }
}

// WithLogger sets the client's logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient returns a client for the backend at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			// LLM responses can be slow
			Timeout: 5 * time.Minute,
		},
		maxRetries: sse.DefaultMaxRetries,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stream POSTs body as JSON to path and assembles the streamed reply. sink
// receives the whole message after every delta. The final message is
// returned even when the stream fails part way.
func (c *Client) Stream(ctx context.Context, path string, body any, sink sse.Sink) (string, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer c.busy.Store(false)

	resp, err := c.post(ctx, path, body, "text/event-stream")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	c.log.Debug("stream opened", "path", path, "status", resp.StatusCode)

	src := &countingReader{r: resp.Body}
	msg, err := sse.Assemble(ctx, src, sink,
		sse.WithMaxRetries(c.maxRetries),
		sse.WithLogger(c.log),
	)
	if src.n == 0 && (err == nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)) {
		return "", &FetchError{URL: resp.Request.URL.String()}
	}
	if err != nil {
		return msg, fmt.Errorf("reading stream from %s: %w", path, err)
	}
	return msg, nil
}

// countingReader tallies the bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Busy reports whether a stream is in flight.
func (c *Client) Busy() bool {
	return c.busy.Load()
}

// Interview streams the interviewer's next turn.
func (c *Client) Interview(ctx context.Context, req llm.InterviewRequest, sink sse.Sink) (string, error) {
	return c.Stream(ctx, PathInterview, req, sink)
}

// Chat streams the course assistant's next turn.
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest, sink sse.Sink) (string, error) {
	return c.Stream(ctx, PathChat, req, sink)
}

// GenerateCourse asks the backend for a course on topic.
func (c *Client) GenerateCourse(ctx context.Context, topic string) (*course.Course, error) {
	var out course.Course
	if err := c.Do(ctx, http.MethodPost, PathGenerateCourse, llm.CourseRequest{Topic: topic}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Do sends a JSON request and decodes the JSON reply into out. body and out
// may be nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body any, accept string) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)

	return c.send(req)
}

// send performs req and turns every outcome without a usable body into a
// FetchError.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	url := req.URL.String()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Body: errorText(raw)}
	}

	// http.Client wraps the body when a timeout is set, so an empty reply
	// shows up as a zero length rather than http.NoBody.
	if resp.Body == nil || resp.Body == http.NoBody || resp.ContentLength == 0 {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, &FetchError{URL: url}
	}
	return resp, nil
}

// errorText prefers the message of a JSON error body.
func errorText(raw []byte) string {
	var e llm.ErrorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(raw))
}

// IsFetchError reports whether err is, or wraps, a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
