package sse

import "errors"

// ErrStreamCorruption is returned by the Assembler when a complete data
// record stays unparseable for more chunks than the configured retry bound.
var ErrStreamCorruption = errors.New("stream corruption")

// SourceError wraps a failure of the underlying byte source (network reset,
// closed body, etc). It aborts the whole assembly and is never retried.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	if e.Err == nil {
		return "stream source failed"
	}

	return "stream source failed: " + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
