// Package sse reads and writes the newline-delimited event frames used by
// chat-completions style streaming endpoints.
//
// The Assembler is the client half: it consumes an arbitrarily chunked byte
// stream of "data: <json>" frames and reconstructs the assistant message
// delta by delta. The Encoder is the server half: it writes delta frames and
// the "[DONE]" terminator to a streaming response body.
//
// Only the subset of the SSE format that chat-completions streams use is
// handled: comment lines, blank lines and "data: " records. Event types, ids
// and retry fields are ignored.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import "strings"

const (
	// DataPrefix starts every data record line.
	DataPrefix = "data: "

	// DoneToken is the payload of the final data record of a stream.
	DoneToken = "[DONE]"

	// commentPrefix starts comment and heartbeat lines.
	commentPrefix = ":"
)

// lineKind classifies a single frame line.
type lineKind int

const (
	lineIgnored lineKind = iota
	lineData
	lineDone
)

// classify normalizes and classifies a candidate line (without its trailing
// newline). For data records it also returns the trimmed payload.
func classify(line []byte) (lineKind, string) {
	// Strip a single trailing carriage return ("\r\n" line endings).
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}

	s := string(line)
	switch {
	case strings.TrimSpace(s) == "":
		return lineIgnored, ""
	case strings.HasPrefix(s, commentPrefix):
		return lineIgnored, ""
	case !strings.HasPrefix(s, DataPrefix):
		return lineIgnored, ""
	}

	payload := strings.TrimSpace(s[len(DataPrefix):])
	if payload == DoneToken {
		return lineDone, payload
	}

	return lineData, payload
}
