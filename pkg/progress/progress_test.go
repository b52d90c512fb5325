package progress_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tutor/pkg/progress"
)

func testRecord(correct bool, c progress.Competency) *progress.Record {
	r, err := progress.NewTestRecord(progress.TestResult{Correct: correct, Competency: c})
	Expect(err).NotTo(HaveOccurred())
	return r
}

func situationRecord(correct bool, c progress.Competency) *progress.Record {
	r, err := progress.NewSituationRecord(progress.SituationResult{Correct: correct, Competency: c})
	Expect(err).NotTo(HaveOccurred())
	return r
}

func interviewRecord(position string) *progress.Record {
	r, err := progress.NewInterviewRecord(progress.InterviewResult{Position: position, MessagesCount: 3})
	Expect(err).NotTo(HaveOccurred())
	return r
}

func scoreOf(p progress.Profile, c progress.Competency) int {
	for _, s := range p.Competencies {
		if s.Key == c {
			return s.Score
		}
	}
	Fail("competency missing: " + string(c))
	return -1
}

var _ = Describe("Record", func() {
	It("assigns an id, kind and timestamps", func() {
		r := testRecord(true, progress.Analytical)
		Expect(r.ID.String()).NotTo(BeEmpty())
		Expect(r.Kind).To(Equal(progress.KindTestResult))
		Expect(r.RecordedAt).To(BeTemporally("~", time.Now(), time.Minute))

		t, err := r.TestResult()
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Correct).To(BeTrue())
		Expect(t.Competency).To(Equal(progress.Analytical))
		Expect(t.Timestamp.IsZero()).To(BeFalse())
	})

	It("keeps explicit timestamps", func() {
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		r, err := progress.NewInterviewRecord(progress.InterviewResult{Position: "SRE", Date: at, MessagesCount: 5})
		Expect(err).NotTo(HaveOccurred())

		i, err := r.InterviewResult()
		Expect(err).NotTo(HaveOccurred())
		Expect(i.Date.Equal(at)).To(BeTrue())
		Expect(i.MessagesCount).To(Equal(5))
	})

	It("refuses to decode a payload of another kind", func() {
		r := testRecord(true, "")
		_, err := r.SituationResult()
		Expect(err).To(MatchError(ContainSubstring("not situation_result")))
	})

	It("rejects unknown competencies", func() {
		_, err := progress.NewTestRecord(progress.TestResult{Competency: "charisma"})
		Expect(err).To(HaveOccurred())
		_, err = progress.NewSituationRecord(progress.SituationResult{Competency: "charisma"})
		Expect(err).To(HaveOccurred())
	})

	It("validates kinds", func() {
		Expect(progress.KindInterviewResult.Valid()).To(BeTrue())
		Expect(progress.Kind("note").Valid()).To(BeFalse())
	})
})

var _ = Describe("Aggregate", func() {
	It("scores everything 0 for an empty log", func() {
		p := progress.Aggregate(nil)
		Expect(p.TotalTests).To(BeZero())
		Expect(p.Competencies).To(HaveLen(4))
		for _, c := range p.Competencies {
			Expect(c.Score).To(BeZero())
		}
		Expect(p.Overall).To(BeZero())
		Expect(p.Recommendations).To(HaveLen(4))
	})

	It("counts untyped results toward every competency of their source", func() {
		p := progress.Aggregate([]*progress.Record{
			testRecord(true, progress.Analytical),
			testRecord(false, progress.Analytical),
			testRecord(true, progress.Analytical),
			testRecord(true, progress.Stress),
		})

		// analytical: 2 of 3 correct; stress: 1 of 1.
		Expect(scoreOf(p, progress.Analytical)).To(Equal(67))
		Expect(scoreOf(p, progress.Stress)).To(Equal(100))
		Expect(scoreOf(p, progress.Communication)).To(BeZero())
		Expect(p.TotalTests).To(Equal(4))
		Expect(p.CorrectAnswers).To(Equal(3))
	})

	It("scores 0 for a competency with no relevant results in a non-empty source", func() {
		p := progress.Aggregate([]*progress.Record{testRecord(true, progress.Analytical)})
		Expect(scoreOf(p, progress.Stress)).To(BeZero())
	})

	It("feeds communication and decision from situations", func() {
		p := progress.Aggregate([]*progress.Record{
			situationRecord(true, ""),
			situationRecord(false, ""),
			situationRecord(true, progress.Decision),
		})

		// communication: untyped only, 1 of 2; decision: 2 of 3.
		Expect(scoreOf(p, progress.Communication)).To(Equal(50))
		Expect(scoreOf(p, progress.Decision)).To(Equal(67))
		Expect(p.TotalSituations).To(Equal(3))
		Expect(p.TotalTests).To(BeZero())
	})

	It("averages the four scores and recommends the weak ones", func() {
		p := progress.Aggregate([]*progress.Record{
			testRecord(true, ""),
			situationRecord(true, progress.Communication),
			situationRecord(false, progress.Decision),
			interviewRecord("Backend engineer"),
			interviewRecord("SRE"),
		})

		Expect(scoreOf(p, progress.Analytical)).To(Equal(100))
		Expect(scoreOf(p, progress.Stress)).To(Equal(100))
		Expect(scoreOf(p, progress.Communication)).To(Equal(100))
		Expect(scoreOf(p, progress.Decision)).To(Equal(0))
		Expect(p.Overall).To(BeNumerically("==", 75))
		Expect(p.InterviewsCompleted).To(Equal(2))
		Expect(p.Recommendations).To(ConsistOf(ContainSubstring("Decision making")))
	})

	It("is deterministic", func() {
		records := []*progress.Record{
			testRecord(true, progress.Analytical),
			situationRecord(false, ""),
		}
		Expect(progress.Aggregate(records)).To(Equal(progress.Aggregate(records)))
	})
})
