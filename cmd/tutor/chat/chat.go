// Package chatcmder provides the chat command for asking the course
// assistant about the current session course.
package chatcmder

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/tutor/pkg/cliui"
	"github.com/papercomputeco/tutor/pkg/config"
	"github.com/papercomputeco/tutor/pkg/course"
	"github.com/papercomputeco/tutor/pkg/interview"
	"github.com/papercomputeco/tutor/pkg/logger"
)

type chatCommander struct {
	client    config.ClientSettings
	topic     string
	configDir string
	debug     bool
}

const chatLongDesc string = `Chat with the course assistant.

The assistant answers questions about the current course topic, gives short
examples and checks your understanding. The topic comes from the session
created by "tutor generate" unless --topic is given. Nothing is recorded.

Examples:
  tutor chat
  tutor chat --topic "SQL indexes"`

const chatShortDesc string = "Chat with the course assistant"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.ResolveClient(cmd, &cmder.client)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.topic, "topic", "t", "", "Topic to discuss (default: the session course)")
	config.AddClientFlags(cmd, &cmder.client)

	return cmd
}

func (c *chatCommander) run(ctx context.Context) error {
	topic, err := c.resolveTopic()
	if err != nil {
		return err
	}

	client := interview.NewClient(c.client.ServerTarget,
		interview.WithMaxRetries(c.client.MaxRetries),
		interview.WithLogger(logger.Client(c.debug)),
	)

	if topic != "" {
		fmt.Printf("\n  %s %s\n\n", cliui.KeyStyle.Render("Course:"), cliui.NameStyle.Render(topic))
	}
	return interview.REPL(ctx, os.Stdin, os.Stdout, client, interview.NewChat(topic))
}

// resolveTopic prefers --topic, then the session topic. Chatting without a
// session is allowed.
func (c *chatCommander) resolveTopic() (string, error) {
	if c.topic != "" {
		return c.topic, nil
	}

	_, topic, err := course.NewSession(c.configDir).Load()
	switch {
	case errors.Is(err, course.ErrNoSession):
		return "", nil
	case err != nil:
		return "", err
	}
	return topic, nil
}
