package eventstream

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/tutor/pkg/progress"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeProgressRecorded is emitted after a progress record is stored.
	EventTypeProgressRecorded = "tutor.progress.recorded"
)

// ProgressRecordedEvent is a transport-neutral event payload for a stored
// progress record.
type ProgressRecordedEvent struct {
	SchemaVersion int              `json:"schema_version"`
	EventType     string           `json:"event_type"`
	EventID       string           `json:"event_id"`
	EmittedAt     time.Time        `json:"emitted_at"`
	Source        EventSource      `json:"source"`
	Record        *progress.Record `json:"record"`
}

// EventSource identifies where the record originated.
type EventSource struct {
	// Route is the API route that accepted the result.
	Route string `json:"route,omitempty"`

	// Topic is the course topic in use, when known.
	Topic string `json:"topic,omitempty"`
}

// NewProgressRecordedEvent wraps r in a v1 event stamped with a fresh id.
func NewProgressRecordedEvent(r *progress.Record, source EventSource) (*ProgressRecordedEvent, error) {
	if r == nil {
		return nil, errors.New("nil progress record")
	}

	return &ProgressRecordedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeProgressRecorded,
		EventID:       "evt_" + uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		Record:        r,
	}, nil
}
