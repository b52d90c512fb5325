// Package llm holds the provider-agnostic message and request types shared by
// the tutor backend, its providers and its clients.
package llm

// Conversation roles. Providers translate these to their own vocabulary
// (Gemini calls the assistant "model").
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewTextMessage creates a message with the given role and content.
func NewTextMessage(role, text string) Message {
	return Message{Role: role, Content: text}
}
