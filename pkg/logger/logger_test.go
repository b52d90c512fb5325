package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/tutor/pkg/logger"
)

// decodeLine parses the single JSON record in buf.
func decodeLine(buf *bytes.Buffer) map[string]any {
	var parsed map[string]any
	ExpectWithOffset(1, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed)).To(Succeed())
	return parsed
}

// failingHandler accepts every record and fails to write it.
type failingHandler struct{ calls *int }

func (h failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h failingHandler) Handle(context.Context, slog.Record) error {
	*h.calls++
	return errors.New("disk full")
}
func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h failingHandler) WithGroup(string) slog.Handler      { return h }

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("writes text by default", func() {
			var buf bytes.Buffer
			logger.New(logger.WithWriter(&buf)).Info("course generated", "topic", "Go")

			Expect(buf.String()).To(ContainSubstring("course generated"))
			Expect(buf.String()).To(ContainSubstring("topic=Go"))
		})

		It("filters debug records unless debug is on", func() {
			var quiet, loud bytes.Buffer
			logger.New(logger.WithWriter(&quiet)).Debug("hidden")
			logger.New(logger.WithWriter(&loud), logger.WithDebug(true)).Debug("shown")

			Expect(quiet.String()).To(BeEmpty())
			Expect(loud.String()).To(ContainSubstring("shown"))
		})

		It("writes JSON records", func() {
			var buf bytes.Buffer
			logger.New(logger.WithWriter(&buf), logger.WithJSON(true)).Info("progress stored", "records", 3)

			parsed := decodeLine(&buf)
			Expect(parsed["msg"]).To(Equal("progress stored"))
			Expect(parsed["records"]).To(BeNumerically("==", 3))
		})

		It("prefers JSON over pretty output", func() {
			var buf bytes.Buffer
			logger.New(logger.WithWriter(&buf), logger.WithPretty(true), logger.WithJSON(true)).Info("x")

			Expect(decodeLine(&buf)["msg"]).To(Equal("x"))
		})

		It("writes pretty output with the prefix", func() {
			var buf bytes.Buffer
			logger.New(logger.WithWriter(&buf), logger.WithPretty(true), logger.WithPrefix("tutor")).Info("stream opened")

			Expect(buf.String()).To(ContainSubstring("stream opened"))
			Expect(buf.String()).To(ContainSubstring("tutor"))
		})

		It("adds the prefix as a component attribute to JSON output", func() {
			var buf bytes.Buffer
			logger.New(logger.WithWriter(&buf), logger.WithJSON(true), logger.WithPrefix("api")).Info("listening")

			Expect(decodeLine(&buf)["component"]).To(Equal("api"))
		})

		It("ignores a nil writer", func() {
			Expect(func() {
				logger.New(logger.WithWriter(nil)).Debug("discarded")
			}).NotTo(Panic())
		})
	})

	Describe("Client", func() {
		It("honors the debug flag", func() {
			ctx := context.Background()
			Expect(logger.Client(false).Enabled(ctx, slog.LevelDebug)).To(BeFalse())
			Expect(logger.Client(true).Enabled(ctx, slog.LevelDebug)).To(BeTrue())
		})
	})

	Describe("Nop", func() {
		It("is disabled at every level", func() {
			l := logger.Nop()
			for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelError} {
				Expect(l.Enabled(context.Background(), level)).To(BeFalse())
			}
			Expect(func() { l.With("k", "v").WithGroup("g").Error("msg") }).NotTo(Panic())
		})
	})

	Describe("Multi", func() {
		It("writes every record to all loggers", func() {
			var console, file bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(&console)),
				logger.New(logger.WithWriter(&file), logger.WithJSON(true)),
			)
			multi.Info("interview recorded", "position", "SRE")

			Expect(console.String()).To(ContainSubstring("interview recorded"))
			Expect(decodeLine(&file)["position"]).To(Equal("SRE"))
		})

		It("respects each logger's level", func() {
			var info, debug bytes.Buffer
			multi := logger.Multi(
				logger.New(logger.WithWriter(&info)),
				logger.New(logger.WithWriter(&debug), logger.WithDebug(true)),
			)
			multi.Debug("chunk read")

			Expect(info.String()).To(BeEmpty())
			Expect(debug.String()).To(ContainSubstring("chunk read"))
		})

		It("carries attributes and groups to every logger", func() {
			var buf bytes.Buffer
			multi := logger.Multi(logger.New(logger.WithWriter(&buf), logger.WithJSON(true)))
			multi.With("component", "worker").WithGroup("job").Info("stored", "kind", "test_result")

			parsed := decodeLine(&buf)
			Expect(parsed["component"]).To(Equal("worker"))
			Expect(parsed["job"]).To(HaveKeyWithValue("kind", "test_result"))
		})

		It("keeps writing when one handler fails", func() {
			calls := 0
			var buf bytes.Buffer
			multi := logger.Multi(
				slog.New(failingHandler{calls: &calls}),
				nil,
				logger.New(logger.WithWriter(&buf)),
			)

			err := multi.Handler().Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "still here", 0))
			Expect(err).To(MatchError(ContainSubstring("disk full")))

			Expect(calls).To(Equal(1))
			Expect(buf.String()).To(ContainSubstring("still here"))
		})
	})
})
