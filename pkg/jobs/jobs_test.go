package jobs_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tutor/pkg/jobs"
)

var _ = Describe("Skills", func() {
	It("always includes problem solving and adaptability", func() {
		Expect(jobs.Skills(0, 0)).To(Equal([]string{jobs.SkillProblems, jobs.SkillAdaptability}))
	})

	It("needs more than 5 tests for analytical thinking", func() {
		Expect(jobs.Skills(5, 0)).NotTo(ContainElement(jobs.SkillAnalytical))
		Expect(jobs.Skills(6, 0)).To(HaveExactElements(jobs.SkillAnalytical, jobs.SkillProblems, jobs.SkillAdaptability))
	})

	It("needs more than 3 situations for communication and teamwork", func() {
		Expect(jobs.Skills(0, 3)).To(HaveLen(2))
		Expect(jobs.Skills(0, 4)).To(ContainElements(jobs.SkillCommunication, jobs.SkillTeamwork))
	})
})

var _ = Describe("MatchScore", func() {
	DescribeTable("overlap",
		func(required, skills []string, want int) {
			Expect(jobs.MatchScore(required, skills)).To(Equal(want))
		},
		Entry("none", []string{"SQL"}, []string{"Adaptability"}, 0),
		Entry("all", []string{"communication"}, []string{"Communication"}, 100),
		Entry("skill contains requirement", []string{"solving"}, []string{"Problem solving"}, 100),
		Entry("requirement contains skill", []string{"Excel reporting"}, []string{"excel"}, 100),
		Entry("rounds", []string{"a1", "b2", "c3"}, []string{"a1", "b2"}, 67),
		Entry("empty requirements", nil, []string{"x"}, 0),
	)
})

var _ = Describe("Rank", func() {
	It("orders the catalog best first", func() {
		matches := jobs.Rank(jobs.Catalog(), jobs.Skills(0, 0))
		Expect(matches).To(HaveLen(4))
		Expect(matches[0].Title).To(Equal("Customer Success Manager"))
		Expect(matches[0].Score).To(Equal(67))
		Expect(matches[1].Title).To(Equal("Project Coordinator"))
		Expect(matches[1].Score).To(Equal(33))
		Expect(matches[3].Score).To(BeZero())
	})

	It("keeps catalog order for ties", func() {
		matches := jobs.Rank(jobs.Catalog(), nil)
		ids := []string{}
		for _, m := range matches {
			ids = append(ids, m.ID)
		}
		Expect(ids).To(Equal([]string{"1", "2", "3", "4"}))
	})
})
