package interview

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/tutor/pkg/llm"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("tutor> ")
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// exitWords end a REPL session.
var exitWords = map[string]bool{"exit": true, "quit": true, "/exit": true, "/quit": true}

// REPL reads user turns line by line from in and streams each reply to out
// as it arrives. The last assistant message of cv, if any, is printed first.
// A failed turn is reported and can be retried; the session ends on EOF, an
// exit word or a canceled ctx.
func REPL(ctx context.Context, in io.Reader, out io.Writer, c *Client, cv *Conversation) error {
	if n := len(cv.Messages); n > 0 && cv.Messages[n-1].Role == llm.RoleAssistant {
		fmt.Fprintf(out, "%s%s\n\n", assistantPrompt, cv.Messages[n-1].Content)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, userPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "":
			continue
		case exitWords[strings.ToLower(text)]:
			return nil
		}

		fmt.Fprint(out, assistantPrompt)
		printed := 0
		_, err := cv.Send(ctx, c, text, func(msg string) error {
			fmt.Fprint(out, msg[printed:])
			printed = len(msg)
			return nil
		})
		fmt.Fprint(out, "\n\n")

		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			fmt.Fprintf(out, "%s\n\n", errorStyle.Render("✗ "+err.Error()))
		}
	}
}
