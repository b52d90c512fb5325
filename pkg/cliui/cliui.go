// Package cliui holds the terminal styling shared by tutor commands: progress
// spinners, key/value listings, score bars and markdown rendering.
package cliui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	KeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	NameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	bands = []struct {
		floor int
		style lipgloss.Style
	}{
		{70, lipgloss.NewStyle().Foreground(lipgloss.Color("82"))},
		{40, lipgloss.NewStyle().Foreground(lipgloss.Color("214"))},
		{0, lipgloss.NewStyle().Foreground(lipgloss.Color("196"))},
	}
)

// Same dot frames as the bubbles spinner used by the learn TUI.
var frames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const frameInterval = 80 * time.Millisecond

// Spinner animates one status line until Stop replaces it with a result mark.
type Spinner struct {
	w     io.Writer
	msg   string
	start time.Time

	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup
}

// StartSpinner draws msg behind an animated frame on w.
func StartSpinner(w io.Writer, msg string) *Spinner {
	s := &Spinner{w: w, msg: msg, start: time.Now(), done: make(chan struct{})}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTicker(frameInterval)
		defer t.Stop()

		for i := 0; ; i++ {
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r  %s %s", bands[0].style.Render(frames[i%len(frames)]), s.msg)
			s.mu.Unlock()

			select {
			case <-s.done:
				return
			case <-t.C:
			}
		}
	}()
	return s
}

// Stop ends the animation and prints the outcome of err with the elapsed time.
func (s *Spinner) Stop(err error) {
	close(s.done)
	s.wg.Wait()

	fmt.Fprintf(s.w, "\r  %s %s %s\n", Mark(err), s.msg, DimStyle.Render("("+FormatDuration(time.Since(s.start))+")"))
}

// Step runs fn behind a spinner and returns its error.
func Step(w io.Writer, msg string, fn func() error) error {
	s := StartSpinner(w, msg)
	err := fn()
	s.Stop(err)
	return err
}

// Mark returns ✓ for a nil error and ✗ otherwise.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration renders sub-second durations in ms and the rest as seconds
// with one decimal.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// Section prints a bracketed heading such as "[provider]".
func Section(w io.Writer, name string) {
	fmt.Fprintf(w, "  %s\n", HeaderStyle.Render("["+name+"]"))
}

// KV prints one key padded to width followed by its value. Empty values show
// as <not set>.
func KV(w io.Writer, key string, width int, value string) {
	shown := ValueStyle.Render(value)
	if value == "" {
		shown = DimStyle.Render("<not set>")
	}
	fmt.Fprintf(w, "    %s  %s\n", KeyStyle.Render(fmt.Sprintf("%-*s", width, key)), shown)
}

// Notice prints a dim line surrounded by blank lines.
func Notice(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\n  %s\n\n", DimStyle.Render(fmt.Sprintf(format, args...)))
}

// RenderMarkdown renders markdown for the terminal. On failure the raw
// content is returned with the error.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return content, err
	}
	out, err := r.Render(content)
	if err != nil {
		return content, err
	}
	return out, nil
}

// Bar renders a 0..100 score as a bar of width cells in its band color.
func Bar(score, width int) string {
	if width <= 0 {
		return ""
	}
	score = max(0, min(100, score))
	filled := score * width / 100
	return ScoreStyle(score).Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}

// ScoreStyle picks the band color for a 0..100 score: 70 and up is good,
// 40 and up is fair, anything lower is weak.
func ScoreStyle(score int) lipgloss.Style {
	for _, b := range bands {
		if score >= b.floor {
			return b.style
		}
	}
	return bands[len(bands)-1].style
}
