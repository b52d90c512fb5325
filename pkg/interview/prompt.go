// Package interview runs the streamed conversations of the tutor: the mock
// job interview and the course assistant chat.
package interview

import (
	"fmt"
	"strings"
)

// Greeting is the opening assistant message of an interview. The client
// shows it before the first request, so it is part of the history the model
// receives.
func Greeting(position string) string {
	return fmt.Sprintf("Hello! I will interview you for the position %q. Let's begin. "+
		"Please tell me about yourself and your experience.", strings.TrimSpace(position))
}

// SystemPrompt instructs the model to act as the interviewer for position.
func SystemPrompt(position string) string {
	return fmt.Sprintf(`You are an experienced recruiter interviewing a candidate for the position %q.

Rules:
- Ask one question at a time and wait for the answer.
- Mix questions about experience, technical skills and behavior in realistic situations.
- React briefly to each answer before asking the next question; point out strengths and gaps honestly.
- Keep replies under 120 words.
- After about eight questions, wrap up with a short assessment: strengths, areas to improve, and a hiring recommendation.`,
		strings.TrimSpace(position))
}

// TutorPrompt instructs the model to act as the course assistant for topic.
func TutorPrompt(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "You are a patient tutor. Answer the learner's questions clearly, with short examples, and check their understanding with a follow-up question."
	}
	return fmt.Sprintf(`You are a patient tutor helping a learner study %q.

Answer questions about the course material clearly and concisely, give short
practical examples, and end with one follow-up question that checks
understanding. If a question is unrelated to %q, answer briefly and steer
back to the course.`, topic, topic)
}
