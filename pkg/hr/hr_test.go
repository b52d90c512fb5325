package hr_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tutor/pkg/hr"
)

var _ = Describe("Dashboard", func() {
	It("ranks the demo roster and computes the means", func() {
		roster := hr.DemoRoster()
		s := hr.Dashboard(roster)

		Expect(s.TotalLearners).To(Equal(4))
		Expect(s.Learners[0].Name).To(Equal("Dmitry Ivanov"))
		Expect(s.Learners[3].Name).To(Equal("Elena Sidorova"))
		Expect(s.AvgTestsCompleted).To(BeNumerically("~", 13.75, 1e-9))
		Expect(s.AvgScore).To(BeNumerically("~", 85.5, 1e-9))
		Expect(s.TotalTimeSpent).To(Equal(870))

		Expect(roster[0].Name).To(Equal("Anna Petrova"), "input must stay untouched")
	})

	It("returns zeros for an empty roster", func() {
		s := hr.Dashboard(nil)
		Expect(s.TotalLearners).To(BeZero())
		Expect(s.AvgScore).To(BeZero())
		Expect(s.Learners).To(BeEmpty())
		Expect(s.Learners).NotTo(BeNil())
	})
})
