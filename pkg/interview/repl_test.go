package interview_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tutor/pkg/interview"
	"github.com/papercomputeco/tutor/pkg/llm"
	"github.com/papercomputeco/tutor/pkg/logger"
	"github.com/papercomputeco/tutor/pkg/sse"
)

var _ = Describe("REPL", func() {
	var (
		client *interview.Client
		turns  []llm.InterviewRequest
		fail   bool
	)

	BeforeEach(func() {
		turns = nil
		fail = false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			var req llm.InterviewRequest
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			turns = append(turns, req)

			if fail {
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(llm.ErrorResponse{Error: "slow down"})
				return
			}
			enc := sse.NewEncoder(w, "", "")
			_ = enc.Delta("Question ")
			_ = enc.Delta("two?")
			_ = enc.Done()
		}))
		DeferCleanup(server.Close)

		client = interview.NewClient(server.URL, interview.WithLogger(logger.Nop()))
	})

	It("prints the greeting, streams each reply and stops at an exit word", func() {
		cv := interview.NewInterview("QA")
		var out bytes.Buffer

		err := interview.REPL(context.Background(), strings.NewReader("I test things\n\nexit\nnever sent\n"), &out, client, cv)
		Expect(err).NotTo(HaveOccurred())

		Expect(out.String()).To(ContainSubstring(interview.Greeting("QA")))
		Expect(out.String()).To(ContainSubstring("Question two?"))
		Expect(turns).To(HaveLen(1))
		Expect(turns[0].Messages).To(HaveLen(2))
		Expect(cv.Messages).To(HaveLen(3))
	})

	It("reports a failed turn and keeps going", func() {
		fail = true
		cv := interview.NewInterview("QA")
		var out bytes.Buffer

		err := interview.REPL(context.Background(), strings.NewReader("hello\n"), &out, client, cv)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("slow down"))
		Expect(cv.Messages).To(HaveLen(1))
	})

	It("ends cleanly at end of input", func() {
		err := interview.REPL(context.Background(), strings.NewReader(""), &bytes.Buffer{}, client, interview.NewChat("Go"))
		Expect(err).NotTo(HaveOccurred())
		Expect(turns).To(BeEmpty())
	})
})

var _ = Describe("IsUnreachable", func() {
	It("is true only for transport failures", func() {
		server := httptest.NewServer(http.NotFoundHandler())
		target := server.URL
		server.Close()

		_, err := interview.NewClient(target, interview.WithLogger(logger.Nop())).GenerateCourse(context.Background(), "Go")
		Expect(interview.IsUnreachable(err)).To(BeTrue())

		Expect(interview.IsUnreachable(&interview.FetchError{StatusCode: 500})).To(BeFalse())
		Expect(interview.IsUnreachable(nil)).To(BeFalse())
	})
})
