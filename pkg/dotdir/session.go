package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	sessionDir  = "session"
	sessionFile = "course.json"
)

// SessionState is the course the user is currently working through. The
// course document is kept opaque here; pkg/course owns its shape.
type SessionState struct {
	Topic   string          `json:"topic"`
	SavedAt time.Time       `json:"saved_at"`
	Course  json.RawMessage `json:"course"`
}

// LoadSession loads the session state from a target .tutor/session/course.json.
// Returns nil, nil if no session exists.
func (m *Manager) LoadSession(overrideDir string) (*SessionState, error) {
	path, err := m.SessionPath(overrideDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	state := &SessionState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}

	return state, nil
}

// SaveSession persists the session state, replacing any previous session.
func (m *Manager) SaveSession(state *SessionState, overrideDir string) error {
	if state == nil {
		return errors.New("cannot save nil session state")
	}

	path, err := m.SessionPath(overrideDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	return nil
}

// ClearSession removes the session file. Returns nil if there is nothing to
// clear.
func (m *Manager) ClearSession(overrideDir string) error {
	path, err := m.SessionPath(overrideDir)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing session: %w", err)
	}

	return nil
}

// SessionPath returns the path of the session file inside the resolved
// .tutor/ directory.
func (m *Manager) SessionPath(overrideDir string) (string, error) {
	return m.Join(overrideDir, sessionDir, sessionFile)
}
