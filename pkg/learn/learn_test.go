package learn_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tutor/pkg/course"
	"github.com/papercomputeco/tutor/pkg/learn"
	"github.com/papercomputeco/tutor/pkg/progress"
)

var _ = Describe("ParseMode", func() {
	DescribeTable("known modes",
		func(in string, want learn.Mode) {
			m, err := learn.ParseMode(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(want))
		},
		Entry("flashcards", "flashcards", learn.ModeFlashcards),
		Entry("upper case", "Situations", learn.ModeSituations),
		Entry("padded", "  tests ", learn.ModeTests),
	)

	It("rejects unknown modes", func() {
		_, err := learn.ParseMode("quiz")
		Expect(err).To(MatchError(ContainSubstring(`"quiz"`)))
	})
})

var _ = Describe("FlashcardsView", func() {
	cards := []course.Flashcard{{Front: "a"}, {Front: "b"}, {Front: "c"}}

	It("flips and unflips on navigation", func() {
		v := learn.NewFlashcardsView(cards)
		v.Flip()
		Expect(v.Flipped()).To(BeTrue())
		v.Flip()
		Expect(v.Flipped()).To(BeFalse())

		v.Flip()
		v.Next()
		Expect(v.Flipped()).To(BeFalse())
		Expect(v.Index()).To(Equal(1))
	})

	It("wraps in both directions", func() {
		v := learn.NewFlashcardsView(cards)
		v.Prev()
		Expect(v.Index()).To(Equal(2))
		c, ok := v.Current()
		Expect(ok).To(BeTrue())
		Expect(c.Front).To(Equal("c"))

		v.Next()
		Expect(v.Index()).To(Equal(0))
	})

	It("is inert when empty", func() {
		v := learn.NewFlashcardsView(nil)
		v.Next()
		v.Prev()
		v.Flip()
		Expect(v.Index()).To(BeZero())
		Expect(v.Flipped()).To(BeFalse())
		_, ok := v.Current()
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("SituationsView", func() {
	situations := []course.Situation{{Title: "one"}, {Title: "two"}}

	It("wraps", func() {
		v := learn.NewSituationsView(situations)
		v.Next()
		v.Next()
		Expect(v.Index()).To(BeZero())
		v.Prev()
		Expect(v.Index()).To(Equal(1))
	})

	It("assesses each situation once", func() {
		v := learn.NewSituationsView(situations)
		r, ok := v.Assess(true, progress.Communication)
		Expect(ok).To(BeTrue())
		Expect(r.Correct).To(BeTrue())
		Expect(r.Competency).To(Equal(progress.Communication))
		Expect(v.Assessed()).To(BeTrue())

		_, ok = v.Assess(false, "")
		Expect(ok).To(BeFalse())

		v.Next()
		Expect(v.Assessed()).To(BeFalse())
	})

	It("is inert when empty", func() {
		v := learn.NewSituationsView(nil)
		v.Next()
		Expect(v.Index()).To(BeZero())
		_, ok := v.Assess(true, "")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("TestsView", func() {
	var v *learn.TestsView

	BeforeEach(func() {
		v = learn.NewTestsView([]course.Test{
			{Question: "q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 2},
			{Question: "q2", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 0},
		})
	})

	It("needs a selection before submitting", func() {
		Expect(v.Selected()).To(Equal(-1))
		_, ok := v.Submit()
		Expect(ok).To(BeFalse())
	})

	It("submits once and records an analytical result", func() {
		v.Select(2)
		r, ok := v.Submit()
		Expect(ok).To(BeTrue())
		Expect(r.Correct).To(BeTrue())
		Expect(r.Competency).To(Equal(progress.Analytical))
		Expect(v.Correct()).To(BeTrue())

		_, ok = v.Submit()
		Expect(ok).To(BeFalse())
	})

	It("locks the selection after submitting", func() {
		v.Select(1)
		r, _ := v.Submit()
		Expect(r.Correct).To(BeFalse())

		v.Select(2)
		Expect(v.Selected()).To(Equal(1))
	})

	It("ignores out of range options", func() {
		v.Select(4)
		v.Select(-2)
		Expect(v.Selected()).To(Equal(-1))
	})

	It("resets selection and answer on navigation", func() {
		v.Select(0)
		v.Submit()
		v.Next()
		Expect(v.Index()).To(Equal(1))
		Expect(v.Selected()).To(Equal(-1))
		Expect(v.Answered()).To(BeFalse())

		v.Select(0)
		r, ok := v.Submit()
		Expect(ok).To(BeTrue())
		Expect(r.Correct).To(BeTrue())

		v.Next()
		Expect(v.Index()).To(BeZero())
	})

	It("is inert when empty", func() {
		e := learn.NewTestsView(nil)
		e.Select(0)
		e.Next()
		_, ok := e.Submit()
		Expect(ok).To(BeFalse())
		Expect(e.Correct()).To(BeFalse())
	})
})
