// Package dotdir manages the .tutor/ and ~/.tutor directories.
//
// The directory holds config.toml, the default SQLite progress log and the
// session/ subdirectory where the course currently being studied is kept
// between CLI invocations.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirName is the name of the tutor directory.
const DirName = ".tutor"

// Manager resolves which .tutor/ directory a command works in.
type Manager struct {
	getwd func() (string, error)
	home  func() (string, error)
}

func NewManager() *Manager {
	return &Manager{getwd: os.Getwd, home: os.UserHomeDir}
}

// Target returns the absolute path of the .tutor/ directory to use, creating
// it when missing. Precedence:
//  1. overrideDir
//  2. the nearest .tutor/ in the working directory or one of its parents,
//     stopping before the home directory
//  3. ~/.tutor/
func (m *Manager) Target(overrideDir string) (string, error) {
	dir := ExpandHome(overrideDir)
	if dir == "" {
		var err error
		if dir, err = m.nearest(); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating tutor directory %s: %w", dir, err)
	}
	return filepath.Abs(dir)
}

// Join returns elem joined onto the resolved .tutor/ directory.
func (m *Manager) Join(overrideDir string, elem ...string) (string, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

func (m *Manager) nearest() (string, error) {
	home, err := m.home()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	cwd, err := m.getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}

	for dir := cwd; dir != home; {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return filepath.Join(home, DirName), nil
}

// ExpandHome replaces a leading "~/" with the user's home directory. Paths
// that do not start with "~" are returned unchanged.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
