package interview

import (
	"context"
	"strings"

	"github.com/papercomputeco/tutor/pkg/llm"
	"github.com/papercomputeco/tutor/pkg/sse"
)

// Conversation is the visible history of one interview or chat. It is owned
// by a single caller.
type Conversation struct {
	// Position is set for interviews, Topic for course chats.
	Position string
	Topic    string

	Messages []llm.Message
}

// NewInterview starts an interview conversation with the greeting already in
// the history.
func NewInterview(position string) *Conversation {
	return &Conversation{
		Position: strings.TrimSpace(position),
		Messages: []llm.Message{llm.NewTextMessage(llm.RoleAssistant, Greeting(position))},
	}
}

// NewChat starts an empty course chat about topic.
func NewChat(topic string) *Conversation {
	return &Conversation{Topic: strings.TrimSpace(topic)}
}

// Send appends the user's text, streams the reply through c and appends it
// to the history. When the call fails the user message is removed again so
// the turn can be retried; a partial reply is returned but not kept.
func (cv *Conversation) Send(ctx context.Context, c *Client, text string, sink sse.Sink) (string, error) {
	cv.Messages = append(cv.Messages, llm.NewTextMessage(llm.RoleUser, text))
	history := append([]llm.Message(nil), cv.Messages...)

	var (
		reply string
		err   error
	)
	if cv.Position != "" {
		reply, err = c.Interview(ctx, llm.InterviewRequest{Messages: history, Position: cv.Position}, sink)
	} else {
		reply, err = c.Chat(ctx, llm.ChatRequest{Messages: history, Topic: cv.Topic}, sink)
	}
	if err != nil {
		cv.Messages = cv.Messages[:len(cv.Messages)-1]
		return reply, err
	}

	cv.Messages = append(cv.Messages, llm.NewTextMessage(llm.RoleAssistant, reply))
	return reply, nil
}
