// Package progress defines the append-only learning progress log and the
// competency profile derived from it.
package progress

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the payload type of a Record.
type Kind string

const (
	KindTestResult      Kind = "test_result"
	KindSituationResult Kind = "situation_result"
	KindInterviewResult Kind = "interview_result"
)

// Valid reports whether k is a known record kind.
func (k Kind) Valid() bool {
	switch k {
	case KindTestResult, KindSituationResult, KindInterviewResult:
		return true
	}
	return false
}

// Competency is one of the four profile axes. The empty competency marks an
// untyped result, which counts toward every axis fed by its source.
type Competency string

const (
	Analytical    Competency = "analytical"
	Communication Competency = "communication"
	Decision      Competency = "decision"
	Stress        Competency = "stress"
)

// Valid reports whether c is a known competency or untyped.
func (c Competency) Valid() bool {
	switch c {
	case "", Analytical, Communication, Decision, Stress:
		return true
	}
	return false
}

// TestResult is one answered multiple choice question.
type TestResult struct {
	Correct    bool       `json:"correct"`
	Competency Competency `json:"competency,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// SituationResult is one self-assessed scenario.
type SituationResult struct {
	Correct    bool       `json:"correct"`
	Competency Competency `json:"competency,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// InterviewResult is one completed interview exchange.
type InterviewResult struct {
	Position      string    `json:"position"`
	Date          time.Time `json:"date"`
	MessagesCount int       `json:"messages_count"`
}

// Record is a single entry of the progress log.
type Record struct {
	ID         uuid.UUID       `json:"id"`
	Kind       Kind            `json:"kind"`
	RecordedAt time.Time       `json:"recorded_at"`
	Payload    json.RawMessage `json:"payload"`
}

func newRecord(kind Kind, payload any) (*Record, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", kind, err)
	}

	return &Record{
		ID:         uuid.New(),
		Kind:       kind,
		RecordedAt: time.Now().UTC(),
		Payload:    data,
	}, nil
}

// NewTestRecord wraps a TestResult. A zero timestamp is set to now.
func NewTestRecord(r TestResult) (*Record, error) {
	if !r.Competency.Valid() {
		return nil, fmt.Errorf("unknown competency %q", r.Competency)
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	return newRecord(KindTestResult, r)
}

// NewSituationRecord wraps a SituationResult. A zero timestamp is set to now.
func NewSituationRecord(r SituationResult) (*Record, error) {
	if !r.Competency.Valid() {
		return nil, fmt.Errorf("unknown competency %q", r.Competency)
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	return newRecord(KindSituationResult, r)
}

// NewInterviewRecord wraps an InterviewResult. A zero date is set to now.
func NewInterviewRecord(r InterviewResult) (*Record, error) {
	if r.Date.IsZero() {
		r.Date = time.Now().UTC()
	}
	return newRecord(KindInterviewResult, r)
}

// TestResult decodes the payload of a test_result record.
func (r *Record) TestResult() (TestResult, error) {
	var out TestResult
	return out, r.decode(KindTestResult, &out)
}

// SituationResult decodes the payload of a situation_result record.
func (r *Record) SituationResult() (SituationResult, error) {
	var out SituationResult
	return out, r.decode(KindSituationResult, &out)
}

// InterviewResult decodes the payload of an interview_result record.
func (r *Record) InterviewResult() (InterviewResult, error) {
	var out InterviewResult
	return out, r.decode(KindInterviewResult, &out)
}

func (r *Record) decode(kind Kind, v any) error {
	if r.Kind != kind {
		return fmt.Errorf("record %s is %s, not %s", r.ID, r.Kind, kind)
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", kind, err)
	}
	return nil
}
