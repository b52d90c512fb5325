package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const chunkObject = "chat.completion.chunk"

// chunk is the chat-completions streaming record written by the Encoder.
type chunk struct {
	ID      string        `json:"id,omitempty"`
	Object  string        `json:"object"`
	Model   string        `json:"model,omitempty"`
	Choices []chunkChoice `json:"choices"`
}

type chunkChoice struct {
	Index int        `json:"index"`
	Delta chunkDelta `json:"delta"`
}

type chunkDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// Encoder writes chat-completions delta frames to a streaming body. Every
// frame is flushed when the destination supports it, so clients see deltas
// as they are produced.
type Encoder struct {
	w     io.Writer
	id    string
	model string
}

// NewEncoder returns an Encoder writing frames for the given stream id and
// model name to w. Both may be empty.
func NewEncoder(w io.Writer, id, model string) *Encoder {
	return &Encoder{w: w, id: id, model: model}
}

// Role writes the opening role-only record some clients expect.
func (e *Encoder) Role(role string) error {
	return e.record(chunkDelta{Role: role})
}

// Delta writes one content delta. Empty deltas are skipped.
func (e *Encoder) Delta(content string) error {
	if content == "" {
		return nil
	}

	return e.record(chunkDelta{Content: content})
}

// Comment writes a comment line, used as a keep-alive heartbeat.
func (e *Encoder) Comment(text string) error {
	return e.write(commentPrefix + " " + text + "\n")
}

// Done writes the terminator record.
func (e *Encoder) Done() error {
	return e.write(DataPrefix + DoneToken + "\n\n")
}

func (e *Encoder) record(delta chunkDelta) error {
	payload, err := json.Marshal(chunk{
		ID:      e.id,
		Object:  chunkObject,
		Model:   e.model,
		Choices: []chunkChoice{{Index: 0, Delta: delta}},
	})
	if err != nil {
		return fmt.Errorf("encoding stream record: %w", err)
	}

	return e.write(DataPrefix + string(payload) + "\n\n")
}

func (e *Encoder) write(frame string) error {
	if _, err := io.WriteString(e.w, frame); err != nil {
		return err
	}

	switch f := e.w.(type) {
	case interface{ Flush() error }:
		return f.Flush()
	case http.Flusher:
		f.Flush()
	}

	return nil
}
