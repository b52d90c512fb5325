package learncmder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/tutor/pkg/course"
	"github.com/papercomputeco/tutor/pkg/learn"
)

func init() {
	// Force TrueColor profile to fix lipgloss color detection issue
	// See: https://github.com/charmbracelet/lipgloss/issues/439
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.TrueColor))
	renderer.SetColorProfile(termenv.TrueColor)
	lipgloss.SetDefaultRenderer(renderer)
}

// Result endpoints of the backend.
const (
	pathTests      = "/progress/tests"
	pathSituations = "/progress/situations"
)

// recorder posts a result to the backend. A nil recorder practices offline.
type recorder func(ctx context.Context, path string, body any) error

var (
	learnTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	learnTabStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1)
	learnTabOnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("214")).Bold(true).Padding(0, 1)
	learnMutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	learnCardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("215")).Padding(1, 3).Width(64)
	learnCardBackStyle = learnCardStyle.BorderForeground(lipgloss.Color("70"))
	learnSectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	learnSelectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("215"))
	learnOKStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	learnFailStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type learnKeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Flip    key.Binding
	Up      key.Binding
	Down    key.Binding
	Submit  key.Binding
	Handled key.Binding
	Missed  key.Binding
	Mode    key.Binding
	Quit    key.Binding
}

func (k learnKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Flip, k.Up, k.Down, k.Submit, k.Handled, k.Missed, k.Mode, k.Quit}
}

func (k learnKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Prev, k.Mode, k.Quit}, {k.Flip, k.Up, k.Down, k.Submit, k.Handled, k.Missed}}
}

func defaultKeyMap() learnKeyMap {
	return learnKeyMap{
		Next:    key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→", "next")),
		Prev:    key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←", "prev")),
		Flip:    key.NewBinding(key.WithKeys(" ", "f"), key.WithHelp("space", "flip")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "option up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "option down")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "answer")),
		Handled: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "handled it")),
		Missed:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "struggled")),
		Mode:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mode")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// recordedMsg reports the outcome of posting one result.
type recordedMsg struct {
	what string
	err  error
}

type learnModel struct {
	ctx    context.Context
	topic  string
	record recorder

	mode       learn.Mode
	flashcards *learn.FlashcardsView
	situations *learn.SituationsView
	tests      *learn.TestsView

	status string
	width  int
	keys   learnKeyMap
	help   help.Model
}

func runLearnTUI(ctx context.Context, model learnModel) error {
	program := bubbletea.NewProgram(model,
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

func newLearnModel(ctx context.Context, topic string, c *course.Course, mode learn.Mode, rec recorder) learnModel {
	return learnModel{
		ctx:        ctx,
		topic:      topic,
		record:     rec,
		mode:       mode,
		flashcards: learn.NewFlashcardsView(c.Flashcards),
		situations: learn.NewSituationsView(c.Situations),
		tests:      learn.NewTestsView(c.Tests),
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
}

func (m learnModel) Init() bubbletea.Cmd {
	return nil
}

func (m learnModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case recordedMsg:
		if msg.err != nil {
			m.status = learnFailStyle.Render("✗ " + msg.what + " not saved: " + msg.err.Error())
		} else {
			m.status = learnOKStyle.Render("✓ " + msg.what + " saved")
		}
		return m, nil
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m learnModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, bubbletea.Quit
	case key.Matches(msg, m.keys.Mode):
		m.mode = nextMode(m.mode)
		m.status = ""
		return m, nil
	}

	switch m.mode {
	case learn.ModeFlashcards:
		switch {
		case key.Matches(msg, m.keys.Next):
			m.flashcards.Next()
		case key.Matches(msg, m.keys.Prev):
			m.flashcards.Prev()
		case key.Matches(msg, m.keys.Flip), key.Matches(msg, m.keys.Submit):
			m.flashcards.Flip()
		}

	case learn.ModeSituations:
		switch {
		case key.Matches(msg, m.keys.Next):
			m.situations.Next()
		case key.Matches(msg, m.keys.Prev):
			m.situations.Prev()
		case key.Matches(msg, m.keys.Handled), key.Matches(msg, m.keys.Missed):
			// Situations are self-assessed and untyped: they count toward
			// every competency situations feed.
			res, ok := m.situations.Assess(key.Matches(msg, m.keys.Handled), "")
			if ok {
				return m, m.post(pathSituations, "situation", res)
			}
		}

	case learn.ModeTests:
		switch {
		case key.Matches(msg, m.keys.Next):
			m.tests.Next()
		case key.Matches(msg, m.keys.Prev):
			m.tests.Prev()
		case key.Matches(msg, m.keys.Up):
			m.tests.Select(max(m.tests.Selected()-1, 0))
		case key.Matches(msg, m.keys.Down):
			m.tests.Select(m.tests.Selected() + 1)
		case key.Matches(msg, m.keys.Submit):
			res, ok := m.tests.Submit()
			if ok {
				return m, m.post(pathTests, "answer", res)
			}
		default:
			if n, ok := digit(msg.String()); ok {
				m.tests.Select(n - 1)
			}
		}
	}
	return m, nil
}

// post records a result in the background.
func (m learnModel) post(path, what string, body any) bubbletea.Cmd {
	if m.record == nil {
		return nil
	}
	ctx, rec := m.ctx, m.record
	return func() bubbletea.Msg {
		return recordedMsg{what: what, err: rec(ctx, path, body)}
	}
}

func (m learnModel) View() string {
	var b strings.Builder

	b.WriteString(learnTitleStyle.Render(m.topic))
	b.WriteString("\n\n")
	for _, mode := range learn.Modes() {
		style := learnTabStyle
		if mode == m.mode {
			style = learnTabOnStyle
		}
		b.WriteString(style.Render(mode.String()))
	}
	b.WriteString("\n\n")

	switch m.mode {
	case learn.ModeFlashcards:
		b.WriteString(m.viewFlashcards())
	case learn.ModeSituations:
		b.WriteString(m.viewSituations())
	case learn.ModeTests:
		b.WriteString(m.viewTests())
	}

	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m learnModel) viewFlashcards() string {
	card, ok := m.flashcards.Current()
	if !ok {
		return learnMutedStyle.Render("This course has no flashcards.")
	}

	counter := learnMutedStyle.Render(fmt.Sprintf("Card %d of %d", m.flashcards.Index()+1, m.flashcards.Len()))
	if m.flashcards.Flipped() {
		return counter + "\n" + learnCardBackStyle.Render(card.Back)
	}
	return counter + "\n" + learnCardStyle.Render(card.Front)
}

func (m learnModel) viewSituations() string {
	s, ok := m.situations.Current()
	if !ok {
		return learnMutedStyle.Render("This course has no situations.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", learnMutedStyle.Render(fmt.Sprintf("Situation %d of %d", m.situations.Index()+1, m.situations.Len())))
	fmt.Fprintf(&b, "%s\n\n%s\n\n", learnSectionStyle.Render(s.Title), s.Scenario)
	for i, q := range s.Questions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, q)
	}
	if m.situations.Assessed() {
		b.WriteString("\n" + learnMutedStyle.Render("Assessed."))
	} else {
		b.WriteString("\n" + learnMutedStyle.Render("Think it through, then press y if you handled it or x if you struggled."))
	}
	return b.String()
}

func (m learnModel) viewTests() string {
	t, ok := m.tests.Current()
	if !ok {
		return learnMutedStyle.Render("This course has no tests.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", learnMutedStyle.Render(fmt.Sprintf("Question %d of %d", m.tests.Index()+1, m.tests.Len())))
	fmt.Fprintf(&b, "%s\n\n", learnSectionStyle.Render(t.Question))

	for i, opt := range t.Options {
		line := fmt.Sprintf(" %d. %s ", i+1, opt)
		switch {
		case m.tests.Answered() && t.IsCorrect(i):
			line = learnOKStyle.Render("✓" + line)
		case m.tests.Answered() && i == m.tests.Selected():
			line = learnFailStyle.Render("✗" + line)
		case i == m.tests.Selected():
			line = " " + learnSelectStyle.Render(line)
		default:
			line = " " + line
		}
		b.WriteString(line + "\n")
	}

	if m.tests.Answered() {
		verdict := learnFailStyle.Render("Incorrect.")
		if m.tests.Correct() {
			verdict = learnOKStyle.Render("Correct!")
		}
		fmt.Fprintf(&b, "\n%s %s", verdict, t.Explanation)
	}
	return b.String()
}

func nextMode(cur learn.Mode) learn.Mode {
	modes := learn.Modes()
	for i, mode := range modes {
		if mode == cur {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

func digit(s string) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '0'), true
}
