package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/papercomputeco/tutor/pkg/llm"
)

// MockProvider is a test provider that returns canned replies and records
// every call.
type MockProvider struct {
	mu sync.Mutex

	// Reply is returned by Generate.
	Reply string

	// Deltas are streamed in order by Stream.
	Deltas []string

	// FailOn causes Generate to fail when the prompt matches, and Stream to
	// fail when the last message matches. "*" fails every call.
	FailOn string

	Prompts  []string
	Systems  []string
	Messages [][]llm.Message
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if m.FailOn == "*" || (m.FailOn != "" && prompt == m.FailOn) {
		return "", fmt.Errorf("mock generate failure")
	}
	return m.Reply, nil
}

func (m *MockProvider) Stream(ctx context.Context, system string, msgs []llm.Message, onDelta func(string) error) error {
	m.mu.Lock()
	m.Systems = append(m.Systems, system)
	m.Messages = append(m.Messages, append([]llm.Message(nil), msgs...))
	deltas := append([]string(nil), m.Deltas...)
	fail := m.FailOn == "*" || (m.FailOn != "" && len(msgs) > 0 && msgs[len(msgs)-1].Content == m.FailOn)
	m.mu.Unlock()

	if fail {
		return fmt.Errorf("mock stream failure")
	}

	for _, d := range deltas {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return nil
}

// Calls returns how many Generate and Stream calls were made.
func (m *MockProvider) Calls() (generate, stream int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts), len(m.Systems)
}
