package chatcmder

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/shopgpt/cmd/shopgpt/bootstrap"
	"github.com/papercomputeco/shopgpt/pkg/tui"
)

const chatLongDesc string = `Open the interactive chat screen.

Type what you are looking for and press enter. The assistant replies with
its recommendations and the products it found: price, rating, a link to the
product page and the product image.

Keys:
  enter              send the message
  alt+enter, ctrl+j  insert a line break
  pgup, pgdown       scroll the conversation
  esc, ctrl+c        leave

Typing quit, exit or bye also leaves. Logs are written to the log file
because the screen owns the terminal.`

const chatShortDesc string = "Open the interactive chat screen"

type chatCommander struct {
	greeting string
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVar(&cmder.greeting, "greeting", "", "Opening assistant message")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, cmd *cobra.Command) error {
	env, err := bootstrap.Load(cmd, bootstrap.LogFile)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Logger.Info("starting chat screen", zap.String("base_url", env.Client.BaseURL()))

	return tui.Run(ctx, env.Client, env.Logger, tui.Options{
		Greeting: env.Config.Greeting,
		NoColor:  env.Config.NoColor,
	})
}
