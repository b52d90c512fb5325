package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/papercomputeco/tutor/pkg/logger"
	"github.com/papercomputeco/tutor/pkg/utils"
)

const (
	// DefaultChunkSize is the size of a single read from the source.
	DefaultChunkSize = 4 * 1024

	// DefaultMaxRetries is how many further chunks an unparseable data record
	// may wait for before the stream is declared corrupt.
	DefaultMaxRetries = 4
)

// Sink receives the full accumulated message after every delta, so a display
// can replace the last rendered message instead of appending fragments.
type Sink func(message string) error

// Option configures an Assembler.
type Option func(*Assembler)

// WithChunkSize sets the read size used against the source.
func WithChunkSize(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.chunk = make([]byte, n)
		}
	}
}

// WithMaxRetries bounds how many chunks a malformed record may wait for.
// Zero or a negative value disables the bound: the assembler then stalls on
// a permanently malformed record until the source ends.
func WithMaxRetries(n int) Option {
	return func(a *Assembler) {
		a.maxRetries = n
	}
}

// WithLogger sets the logger used for stream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// Assembler turns a chunked chat-completions event stream into text deltas
// and keeps the accumulated assistant message.
//
// ┌──────────────────┐
// │ source io.Reader │  arbitrary chunk boundaries
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌───────────────────────────┐
// │   text buffer    │──▶│ lines: ":" / "" / "data:" │
// └──────────────────┘   └───────────────────────────┘
// │
// ▼
// ┌──────────────────┐
// │ Next() -> delta  │  message grows by delta
// └──────────────────┘
//
// An Assembler belongs to exactly one call and one reader; it is not safe
// for concurrent use.
type Assembler struct {
	src   io.Reader
	chunk []byte

	// buf holds bytes read from src that have not been consumed as lines.
	buf     []byte
	message strings.Builder

	maxRetries int

	// failures counts consecutive chunks that ended on the same unparseable
	// record. stalled stops scanning until the next chunk arrives.
	failures int
	stalled  bool

	eof  bool
	done bool

	logger *slog.Logger
}

// NewAssembler returns an Assembler reading from src.
func NewAssembler(src io.Reader, opts ...Option) *Assembler {
	a := &Assembler{
		src:        src,
		chunk:      make([]byte, DefaultChunkSize),
		maxRetries: DefaultMaxRetries,
		logger:     logger.Nop(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Message returns the accumulated message so far.
func (a *Assembler) Message() string {
	return a.message.String()
}

// Done reports whether the stream has ended, either through the terminator
// token or the end of the source.
func (a *Assembler) Done() bool {
	return a.done
}

// Next returns the next non-empty delta. It blocks only while waiting on the
// source for more bytes. Next returns io.EOF once the stream has ended.
func (a *Assembler) Next(ctx context.Context) (string, error) {
	for {
		if a.done {
			return "", io.EOF
		}

		if !a.stalled {
			delta, ok, err := a.scan()
			if err != nil {
				return "", err
			}
			if ok {
				return delta, nil
			}
			if a.done {
				return "", io.EOF
			}
		}

		if err := a.fill(ctx); err != nil {
			return "", err
		}
	}
}

// Deltas returns a lazy sequence over the remaining deltas. The sequence
// ends after the terminator token or the end of the source; a failure is
// yielded once as the final element.
func (a *Assembler) Deltas(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for {
			delta, err := a.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
			if !yield(delta, nil) {
				return
			}
		}
	}
}

// Assemble reads src to completion, notifying sink with the full message
// after every delta. It returns the final message, which is also returned
// alongside any error as the last successfully assembled value.
func Assemble(ctx context.Context, src io.Reader, sink Sink, opts ...Option) (string, error) {
	a := NewAssembler(src, opts...)

	for _, err := range a.Deltas(ctx) {
		if err != nil {
			return a.Message(), err
		}

		if sink == nil {
			continue
		}
		if err := sink(a.Message()); err != nil {
			return a.Message(), err
		}
	}

	return a.Message(), nil
}

// scan consumes complete lines from the buffer until one yields a delta,
// the buffer has no complete line left, or a malformed record stalls it.
func (a *Assembler) scan() (string, bool, error) {
	for {
		idx := bytes.IndexByte(a.buf, '\n')
		if idx < 0 {
			return "", false, nil
		}

		kind, payload := classify(a.buf[:idx])
		switch kind {
		case lineIgnored:
			a.buf = a.buf[idx+1:]
			continue
		case lineDone:
			a.finish()
			return "", false, nil
		}

		content, err := extractDelta(payload)
		if err != nil {
			// The line stays in front of the buffer and is retried once the
			// next chunk has been appended.
			a.stalled = true
			a.failures++

			a.logger.Debug("unparseable stream record, waiting for next chunk",
				"attempt", a.failures,
				"record", utils.Truncate(payload, 64),
				"error", err,
			)

			if a.maxRetries > 0 && a.failures > a.maxRetries {
				return "", false, fmt.Errorf("%w: record unparseable after %d chunks: %q",
					ErrStreamCorruption, a.failures, utils.Truncate(payload, 64))
			}
			return "", false, nil
		}

		a.failures = 0
		a.buf = a.buf[idx+1:]
		if content == "" {
			continue
		}

		a.message.WriteString(content)
		return content, true, nil
	}
}

// fill appends the next chunk from the source to the buffer.
func (a *Assembler) fill(ctx context.Context) error {
	if a.eof {
		a.finish()
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	n, err := a.src.Read(a.chunk)
	if n > 0 {
		a.buf = append(a.buf, a.chunk[:n]...)
		a.stalled = false
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		a.eof = true
		if n == 0 {
			a.finish()
		}
		return nil
	default:
		return &SourceError{Err: err}
	}
}

// finish ends the stream and drops anything left unconsumed.
func (a *Assembler) finish() {
	if len(a.buf) > 0 {
		a.logger.Debug("discarding unconsumed stream bytes", "bytes", len(a.buf))
	}

	a.buf = nil
	a.stalled = false
	a.done = true
}

// extractDelta parses a data payload and returns choices[0].delta.content.
// Payloads that are valid JSON but lack the field yield an empty string.
func extractDelta(payload string) (string, error) {
	var record any
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return "", err
	}

	root, ok := record.(map[string]any)
	if !ok {
		return "", nil
	}
	choices, ok := root["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", nil
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", nil
	}
	delta, ok := choice["delta"].(map[string]any)
	if !ok {
		return "", nil
	}
	content, _ := delta["content"].(string)

	return content, nil
}
