package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tutor/api/worker"
	"github.com/papercomputeco/tutor/pkg/course"
	"github.com/papercomputeco/tutor/pkg/hr"
	"github.com/papercomputeco/tutor/pkg/llm"
	"github.com/papercomputeco/tutor/pkg/logger"
	"github.com/papercomputeco/tutor/pkg/progress"
	"github.com/papercomputeco/tutor/pkg/sse"
	"github.com/papercomputeco/tutor/pkg/storage/inmemory"
	testutils "github.com/papercomputeco/tutor/pkg/utils/test"
)

// rateLimitedProvider fails every call with an upstream 429.
type rateLimitedProvider struct{ *testutils.MockProvider }

func (rateLimitedProvider) Stream(context.Context, string, []llm.Message, func(string) error) error {
	return &llm.APIError{Provider: "mock", StatusCode: http.StatusTooManyRequests, Body: "slow down"}
}

func jsonRequest(method, target string, body any) *http.Request {
	data, err := json.Marshal(body)
	Expect(err).NotTo(HaveOccurred())
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(resp *http.Response, v any) {
	defer resp.Body.Close()
	Expect(json.NewDecoder(resp.Body).Decode(v)).To(Succeed())
}

var _ = Describe("Server", func() {
	var (
		server *Server
		mock   *testutils.MockProvider
		driver *inmemory.Driver
		pool   *worker.Pool
		ctx    context.Context
	)

	newServer := func(cfg Config) *Server {
		s, err := NewServer(cfg, driver, pool, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	listKind := func(kind progress.Kind) func() []*progress.Record {
		return func() []*progress.Record {
			records, err := driver.List(ctx, kind)
			Expect(err).NotTo(HaveOccurred())
			return records
		}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		mock = testutils.NewMockProvider()
		driver = inmemory.NewDriver()
		pool, err = worker.NewPool(&worker.Config{Driver: driver, Logger: logger.Nop()})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(pool.Close)

		server = newServer(Config{ListenAddr: ":0", Provider: mock, Model: "mock-model"})
	})

	Describe("NewServer", func() {
		It("requires a provider", func() {
			_, err := NewServer(Config{}, driver, pool, logger.Nop())
			Expect(err).To(MatchError(ContainSubstring("provider")))
		})

		It("requires a storage driver", func() {
			_, err := NewServer(Config{Provider: mock}, nil, pool, logger.Nop())
			Expect(err).To(MatchError(ContainSubstring("storage driver")))
		})

		It("requires a worker pool", func() {
			_, err := NewServer(Config{Provider: mock}, driver, nil, logger.Nop())
			Expect(err).To(MatchError(ContainSubstring("worker pool")))
		})

		It("defaults the catalog, roster and language", func() {
			Expect(server.config.Catalog).To(HaveLen(4))
			Expect(server.config.Roster).To(HaveLen(4))
			Expect(server.config.Language).To(Equal(course.DefaultLanguage))
		})
	})

	Describe("GET /ping", func() {
		It("answers pong", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body string
			decodeBody(resp, &body)
			Expect(body).To(Equal("pong"))
		})
	})

	Describe("GET /stats", func() {
		It("reports the worker pool counters", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/stats", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var stats worker.Stats
			decodeBody(resp, &stats)
			Expect(stats).To(Equal(worker.Stats{}))
		})
	})

	Describe("POST /functions/v1/generate-course", func() {
		It("returns the parsed course", func() {
			mock.Reply = testutils.SampleCourseJSON

			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/functions/v1/generate-course", llm.CourseRequest{Topic: "Go Concurrency"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var c course.Course
			decodeBody(resp, &c)
			Expect(c.Mindmap.Title).To(Equal("Go Concurrency"))
			Expect(c.Flashcards).To(HaveLen(3))
			Expect(c.Tests).To(HaveLen(2))
			Expect(mock.Prompts).To(HaveLen(1))
			Expect(mock.Prompts[0]).To(ContainSubstring("Go Concurrency"))
		})

		It("rejects an empty topic without calling the model", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/functions/v1/generate-course", llm.CourseRequest{Topic: "  "}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			generate, _ := mock.Calls()
			Expect(generate).To(BeZero())
		})

		It("rejects a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/functions/v1/generate-course", bytes.NewBufferString("{"))
			req.Header.Set("Content-Type", "application/json")

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("reports a generation failure as a JSON error", func() {
			mock.Reply = "I cannot help with that."

			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/functions/v1/generate-course", llm.CourseRequest{Topic: "Go"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))

			var body llm.ErrorResponse
			decodeBody(resp, &body)
			Expect(body.Error).To(ContainSubstring("generating course"))
		})
	})

	Describe("POST /functions/v1/interview", func() {
		history := []llm.Message{
			llm.NewTextMessage(llm.RoleAssistant, "Hello! Tell me about yourself."),
			llm.NewTextMessage(llm.RoleUser, "I build backends in Go."),
		}

		It("streams the reply as chat-completions frames and records the exchange", func() {
			mock.Deltas = []string{"Great. ", "What was your ", "hardest project?"}

			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/functions/v1/interview",
				llm.InterviewRequest{Messages: history, Position: "Backend Engineer"}), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/event-stream"))
			Expect(resp.Header.Get("Cache-Control")).To(Equal("no-cache"))

			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(HaveSuffix("data: [DONE]\n\n"))
			Expect(string(raw)).To(ContainSubstring(`"model":"mock-model"`))

			msg, err := sse.Assemble(ctx, bytes.NewReader(raw), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(msg).To(Equal("Great. What was your hardest project?"))

			Expect(mock.Systems).To(HaveLen(1))
			Expect(mock.Systems[0]).To(ContainSubstring("Backend Engineer"))
			Expect(mock.Messages[0]).To(Equal(history))

			Eventually(listKind(progress.KindInterviewResult)).WithTimeout(2 * time.Second).Should(HaveLen(1))
			res, err := listKind(progress.KindInterviewResult)()[0].InterviewResult()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Position).To(Equal("Backend Engineer"))
			Expect(res.MessagesCount).To(Equal(3))
		})

		It("finishes a stream with no deltas", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/functions/v1/interview",
				llm.InterviewRequest{Messages: history, Position: "QA"}), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(HaveSuffix("data: [DONE]\n\n"))
		})

		It("requires a position", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/functions/v1/interview",
				llm.InterviewRequest{Messages: history}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("requires messages", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/functions/v1/interview",
				llm.InterviewRequest{Position: "QA"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns a JSON error and records nothing when the provider fails up front", func() {
			mock.FailOn = "*"

			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/functions/v1/interview",
				llm.InterviewRequest{Messages: history, Position: "QA"}), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusInternalServerError))
			Expect(resp.Header.Get("Content-Type")).To(HavePrefix("application/json"))

			var body llm.ErrorResponse
			decodeBody(resp, &body)
			Expect(body.Error).To(ContainSubstring("mock stream failure"))
			Consistently(listKind(""), 100*time.Millisecond).Should(BeEmpty())
		})

		It("passes an upstream rate limit through", func() {
			server = newServer(Config{Provider: rateLimitedProvider{mock}})

			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/functions/v1/interview",
				llm.InterviewRequest{Messages: history, Position: "QA"}), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusTooManyRequests))
		})
	})

	Describe("POST /functions/v1/chat", func() {
		It("streams the tutor reply and records nothing", func() {
			mock.Deltas = []string{"Channels ", "carry values."}

			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/functions/v1/chat", llm.ChatRequest{
				Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, "What is a channel?")},
				Topic:    "Go Concurrency",
			}), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			msg, err := sse.Assemble(ctx, resp.Body, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(msg).To(Equal("Channels carry values."))
			Expect(mock.Systems[0]).To(ContainSubstring("Go Concurrency"))

			Consistently(listKind(""), 100*time.Millisecond).Should(BeEmpty())
		})
	})

	Describe("progress routes", func() {
		It("queues a test result and lists it", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/progress/tests",
				progress.TestResult{Correct: true, Competency: progress.Analytical}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusAccepted))

			var ack RecordedResponse
			decodeBody(resp, &ack)
			Expect(ack.ID).NotTo(BeEmpty())

			Eventually(listKind(progress.KindTestResult)).Should(HaveLen(1))
			Expect(listKind(progress.KindTestResult)()[0].ID.String()).To(Equal(ack.ID))

			resp, err = server.app.Test(httptest.NewRequest(http.MethodGet, "/progress?kind=test_result", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var records []*progress.Record
			decodeBody(resp, &records)
			Expect(records).To(HaveLen(1))
			Expect(records[0].Kind).To(Equal(progress.KindTestResult))
		})

		It("queues a situation result", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/progress/situations",
				progress.SituationResult{Correct: false, Competency: progress.Stress}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusAccepted))

			Eventually(listKind(progress.KindSituationResult)).Should(HaveLen(1))
		})

		It("answers 503 once the pool has stopped", func() {
			pool.Close()

			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/progress/tests",
				progress.TestResult{Correct: true, Competency: progress.Analytical}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusServiceUnavailable))

			var body llm.ErrorResponse
			decodeBody(resp, &body)
			Expect(body.Error).To(Equal("progress recording unavailable"))
			Expect(listKind(progress.KindTestResult)()).To(BeEmpty())
		})

		It("rejects an unknown competency", func() {
			resp, err := server.app.Test(jsonRequest(http.MethodPost, "/progress/tests",
				map[string]any{"correct": true, "competency": "charisma"}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("rejects an unknown kind filter", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/progress?kind=bogus", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("lists an empty log as an empty array", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/progress", nil))
			Expect(err).NotTo(HaveOccurred())

			raw, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(Equal("[]"))
		})
	})

	Describe("GET /profile", func() {
		It("aggregates the stored log", func() {
			for _, correct := range []bool{true, true, false, true} {
				rec, err := progress.NewTestRecord(progress.TestResult{Correct: correct, Competency: progress.Analytical})
				Expect(err).NotTo(HaveOccurred())
				Expect(driver.Append(ctx, rec)).To(Succeed())
			}

			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/profile", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var profile progress.Profile
			decodeBody(resp, &profile)
			Expect(profile.TotalTests).To(Equal(4))
			Expect(profile.CorrectAnswers).To(Equal(3))
		})
	})

	Describe("GET /jobs", func() {
		It("matches the catalog against demonstrated skills", func() {
			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/jobs", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var body JobsResponse
			decodeBody(resp, &body)
			Expect(body.Matches).To(HaveLen(4))
			for i := 1; i < len(body.Matches); i++ {
				Expect(body.Matches[i-1].Score).To(BeNumerically(">=", body.Matches[i].Score))
			}
		})
	})

	Describe("GET /hr", func() {
		It("returns the dashboard of the configured roster", func() {
			server = newServer(Config{Provider: mock, Roster: []hr.Learner{
				{ID: "1", Name: "Ann", AvgScore: 70, TestsCompleted: 4, TimeSpent: 60},
				{ID: "2", Name: "Bo", AvgScore: 90, TestsCompleted: 6, TimeSpent: 30},
			}})

			resp, err := server.app.Test(httptest.NewRequest(http.MethodGet, "/hr", nil))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var summary hr.Summary
			decodeBody(resp, &summary)
			Expect(summary.TotalLearners).To(Equal(2))
			Expect(summary.Learners[0].Name).To(Equal("Bo"))
			Expect(summary.AvgScore).To(BeNumerically("~", 80, 0.001))
		})
	})
})
