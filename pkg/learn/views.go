package learn

import (
	"time"

	"github.com/papercomputeco/tutor/pkg/course"
	"github.com/papercomputeco/tutor/pkg/progress"
)

// FlashcardsView walks a deck of flashcards, one side at a time.
type FlashcardsView struct {
	cards   []course.Flashcard
	index   int
	flipped bool
}

func NewFlashcardsView(cards []course.Flashcard) *FlashcardsView {
	return &FlashcardsView{cards: cards}
}

func (v *FlashcardsView) Len() int      { return len(v.cards) }
func (v *FlashcardsView) Index() int    { return v.index }
func (v *FlashcardsView) Flipped() bool { return v.flipped }

// Current returns the card under the cursor. ok is false for an empty deck.
func (v *FlashcardsView) Current() (course.Flashcard, bool) {
	if len(v.cards) == 0 {
		return course.Flashcard{}, false
	}
	return v.cards[v.index], true
}

// Next moves to the following card, wrapping, and shows its front.
func (v *FlashcardsView) Next() { v.move(1) }

// Prev moves to the previous card, wrapping, and shows its front.
func (v *FlashcardsView) Prev() { v.move(-1) }

// Flip turns the current card over.
func (v *FlashcardsView) Flip() {
	if len(v.cards) == 0 {
		return
	}
	v.flipped = !v.flipped
}

func (v *FlashcardsView) move(step int) {
	if len(v.cards) == 0 {
		return
	}
	v.flipped = false
	v.index = wrap(v.index, step, len(v.cards))
}

// SituationsView walks the workplace scenarios. The learner grades their own
// answer to a scenario; that assessment feeds the communication and decision
// competencies.
type SituationsView struct {
	situations []course.Situation
	index      int
	assessed   map[int]bool
}

func NewSituationsView(situations []course.Situation) *SituationsView {
	return &SituationsView{situations: situations, assessed: map[int]bool{}}
}

func (v *SituationsView) Len() int   { return len(v.situations) }
func (v *SituationsView) Index() int { return v.index }

func (v *SituationsView) Current() (course.Situation, bool) {
	if len(v.situations) == 0 {
		return course.Situation{}, false
	}
	return v.situations[v.index], true
}

func (v *SituationsView) Next() { v.index = wrap(v.index, 1, len(v.situations)) }
func (v *SituationsView) Prev() { v.index = wrap(v.index, -1, len(v.situations)) }

// Assessed reports whether the current situation already has a result.
func (v *SituationsView) Assessed() bool {
	return v.assessed[v.index]
}

// Assess records the learner's self-assessment of the current situation.
// It returns ok == false when the view is empty or the situation was already
// assessed.
func (v *SituationsView) Assess(correct bool, c progress.Competency) (progress.SituationResult, bool) {
	if len(v.situations) == 0 || v.assessed[v.index] {
		return progress.SituationResult{}, false
	}
	v.assessed[v.index] = true
	return progress.SituationResult{Correct: correct, Competency: c, Timestamp: time.Now().UTC()}, true
}

// TestsView walks the multiple choice tests. An option can be selected until
// the answer is submitted; moving to another test clears both.
type TestsView struct {
	tests    []course.Test
	index    int
	selected int
	answered bool
}

func NewTestsView(tests []course.Test) *TestsView {
	return &TestsView{tests: tests, selected: -1}
}

func (v *TestsView) Len() int       { return len(v.tests) }
func (v *TestsView) Index() int     { return v.index }
func (v *TestsView) Answered() bool { return v.answered }

// Selected returns the selected option, or -1.
func (v *TestsView) Selected() int { return v.selected }

func (v *TestsView) Current() (course.Test, bool) {
	if len(v.tests) == 0 {
		return course.Test{}, false
	}
	return v.tests[v.index], true
}

// Select picks an option of the current test. It is ignored once the answer
// has been submitted or when option is out of range.
func (v *TestsView) Select(option int) {
	t, ok := v.Current()
	if !ok || v.answered || option < 0 || option >= len(t.Options) {
		return
	}
	v.selected = option
}

// Submit locks in the selected option and returns the result to record. It
// returns ok == false when nothing is selected or the answer is already in.
func (v *TestsView) Submit() (progress.TestResult, bool) {
	t, ok := v.Current()
	if !ok || v.answered || v.selected < 0 {
		return progress.TestResult{}, false
	}
	v.answered = true
	return progress.TestResult{
		Correct:    t.IsCorrect(v.selected),
		Competency: progress.Analytical,
		Timestamp:  time.Now().UTC(),
	}, true
}

// Correct reports whether the submitted answer was right.
func (v *TestsView) Correct() bool {
	t, ok := v.Current()
	return ok && v.answered && t.IsCorrect(v.selected)
}

func (v *TestsView) Next() { v.move(1) }
func (v *TestsView) Prev() { v.move(-1) }

func (v *TestsView) move(step int) {
	if len(v.tests) == 0 {
		return
	}
	v.index = wrap(v.index, step, len(v.tests))
	v.selected = -1
	v.answered = false
}
