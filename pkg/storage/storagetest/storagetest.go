// Package storagetest holds the behavior every storage.Driver must share.
package storagetest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tutor/pkg/progress"
	"github.com/papercomputeco/tutor/pkg/storage"
)

// DescribeDriver registers the shared driver specs. newDriver is called for
// every test and the driver is closed afterwards.
func DescribeDriver(newDriver func() storage.Driver) {
	Describe("storage.Driver behavior", func() {
		var (
			driver storage.Driver
			ctx    context.Context
		)

		BeforeEach(func() {
			ctx = context.Background()
			driver = newDriver()
			DeferCleanup(driver.Close)
		})

		testRecord := func(correct bool) *progress.Record {
			r, err := progress.NewTestRecord(progress.TestResult{Correct: correct, Competency: progress.Analytical})
			Expect(err).NotTo(HaveOccurred())
			return r
		}

		It("lists nothing when empty", func() {
			records, err := driver.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})

		It("returns records in append order", func() {
			first := testRecord(true)
			second, err := progress.NewSituationRecord(progress.SituationResult{Correct: false})
			Expect(err).NotTo(HaveOccurred())
			third := testRecord(false)

			for _, r := range []*progress.Record{first, second, third} {
				Expect(driver.Append(ctx, r)).To(Succeed())
			}

			records, err := driver.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(3))
			Expect(records[0].ID).To(Equal(first.ID))
			Expect(records[1].ID).To(Equal(second.ID))
			Expect(records[2].ID).To(Equal(third.ID))
		})

		It("filters by kind", func() {
			Expect(driver.Append(ctx, testRecord(true))).To(Succeed())
			interview, err := progress.NewInterviewRecord(progress.InterviewResult{Position: "SRE", MessagesCount: 4})
			Expect(err).NotTo(HaveOccurred())
			Expect(driver.Append(ctx, interview)).To(Succeed())

			records, err := driver.List(ctx, progress.KindInterviewResult)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))

			res, err := records[0].InterviewResult()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Position).To(Equal("SRE"))
			Expect(res.MessagesCount).To(Equal(4))
		})

		It("round trips every field", func() {
			r := testRecord(true)
			r.RecordedAt = time.Date(2026, 3, 1, 12, 30, 0, 123000, time.UTC)
			Expect(driver.Append(ctx, r)).To(Succeed())

			got, err := driver.Get(ctx, r.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(r.ID))
			Expect(got.Kind).To(Equal(progress.KindTestResult))
			Expect(got.RecordedAt.Equal(r.RecordedAt)).To(BeTrue())
			Expect(got.Payload).To(MatchJSON(r.Payload))
		})

		It("returns NotFoundError for an unknown id", func() {
			id := uuid.New()
			_, err := driver.Get(ctx, id)

			var notFound storage.NotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
			Expect(notFound.ID).To(Equal(id))
		})

		It("refuses to append the same record twice", func() {
			r := testRecord(true)
			Expect(driver.Append(ctx, r)).To(Succeed())

			var dup storage.DuplicateError
			Expect(errors.As(driver.Append(ctx, r), &dup)).To(BeTrue())

			records, err := driver.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
		})

		It("rejects a nil record", func() {
			Expect(driver.Append(ctx, nil)).To(MatchError(storage.ErrNilRecord))
		})

		It("feeds the profile aggregation", func() {
			Expect(driver.Append(ctx, testRecord(true))).To(Succeed())
			Expect(driver.Append(ctx, testRecord(false))).To(Succeed())

			records, err := driver.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			p := progress.Aggregate(records)
			Expect(p.TotalTests).To(Equal(2))
			Expect(p.CorrectAnswers).To(Equal(1))
		})
	})
}
