package course

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/papercomputeco/tutor/pkg/dotdir"
)

// Session keeps the course currently being studied in the .tutor/ directory
// so that mindmap, learn and chat can pick it up after generate.
type Session struct {
	ddm         *dotdir.Manager
	overrideDir string
}

// NewSession returns a Session rooted at the resolved .tutor/ directory.
func NewSession(overrideDir string) *Session {
	return &Session{
		ddm:         dotdir.NewManager(),
		overrideDir: overrideDir,
	}
}

// Save replaces the session course.
func (s *Session) Save(topic string, c *Course) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding course: %w", err)
	}

	return s.ddm.SaveSession(&dotdir.SessionState{
		Topic:   topic,
		SavedAt: time.Now().UTC(),
		Course:  data,
	}, s.overrideDir)
}

// Load returns the session course and its topic, or ErrNoSession.
func (s *Session) Load() (*Course, string, error) {
	state, err := s.ddm.LoadSession(s.overrideDir)
	if err != nil {
		return nil, "", err
	}
	if state == nil || len(state.Course) == 0 {
		return nil, "", ErrNoSession
	}

	c := &Course{}
	if err := json.Unmarshal(state.Course, c); err != nil {
		return nil, "", fmt.Errorf("decoding session course: %w", err)
	}

	return c, state.Topic, nil
}

// Clear removes the session course.
func (s *Session) Clear() error {
	return s.ddm.ClearSession(s.overrideDir)
}
