// Package learn holds the per-view state of the practice modes. Every view
// is a plain value owned by its caller; nothing here is global.
package learn

import (
	"fmt"
	"strings"
)

// Mode is one of the practice views.
type Mode string

const (
	ModeFlashcards Mode = "flashcards"
	ModeSituations Mode = "situations"
	ModeTests      Mode = "tests"
)

// Modes lists every mode in display order.
func Modes() []Mode {
	return []Mode{ModeFlashcards, ModeSituations, ModeTests}
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown learning mode %q (want flashcards, situations or tests)", s)
}

func (m Mode) String() string {
	return string(m)
}

// wrap moves i by step inside [0, n). n == 0 leaves i untouched.
func wrap(i, step, n int) int {
	if n == 0 {
		return i
	}
	return ((i+step)%n + n) % n
}
