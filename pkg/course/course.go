// Package course generates, parses and stores the structured course document
// a model produces for a topic.
package course

import (
	"fmt"
	"strings"
)

// Course is the generated learning material for one topic.
type Course struct {
	Mindmap    Mindmap     `json:"mindmap"`
	Flashcards []Flashcard `json:"flashcards"`
	Situations []Situation `json:"situations"`
	Tests      []Test      `json:"tests"`
}

type Mindmap struct {
	Title   string   `json:"title"`
	Modules []Module `json:"modules"`
}

type Module struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
}

type Flashcard struct {
	Front  string `json:"front"`
	Back   string `json:"back"`
	Module string `json:"module"`
}

// Situation is a workplace scenario with open reflection questions.
type Situation struct {
	Title     string   `json:"title"`
	Scenario  string   `json:"scenario"`
	Questions []string `json:"questions"`
	Module    string   `json:"module"`
}

// Test is a multiple choice question. CorrectAnswer indexes Options.
type Test struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Module        string   `json:"module"`
}

// IsCorrect reports whether option is the right answer.
func (t Test) IsCorrect(option int) bool {
	return option == t.CorrectAnswer
}

// Module returns the mindmap module with the given id.
func (c *Course) Module(id string) (Module, bool) {
	for _, m := range c.Mindmap.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// MindmapMarkdown renders the mindmap as a markdown outline, with the number
// of flashcards, situations and tests attached to each module.
func (c *Course) MindmapMarkdown() string {
	counts := make(map[string][3]int, len(c.Mindmap.Modules))
	for _, f := range c.Flashcards {
		n := counts[f.Module]
		n[0]++
		counts[f.Module] = n
	}
	for _, s := range c.Situations {
		n := counts[s.Module]
		n[1]++
		counts[s.Module] = n
	}
	for _, t := range c.Tests {
		n := counts[t.Module]
		n[2]++
		counts[t.Module] = n
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Mindmap.Title)
	for i, m := range c.Mindmap.Modules {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, m.Title)
		if m.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", m.Description)
		}
		for _, t := range m.Topics {
			fmt.Fprintf(&b, "- %s\n", t)
		}
		n := counts[m.ID]
		fmt.Fprintf(&b, "\n*%d flashcards, %d situations, %d tests*\n\n", n[0], n[1], n[2])
	}

	return b.String()
}
