package historycmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/shopgpt/cmd/shopgpt/bootstrap"
	"github.com/papercomputeco/shopgpt/pkg/session"
)

const historyLongDesc string = `Print the transcript the service keeps for a session.

The session id is the token the service issued to the conversation. It is
logged at debug level by the chat screen and the ask command.

Examples:
  shopgpt history 6f1c2e0a-3d1b-4f4e-9d55-2a1f0b7c9e11`

const historyShortDesc string = "Print a session transcript"

type historyCommander struct{}

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history <session-id>",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args[0])
		},
	}

	return cmd
}

func (c *historyCommander) run(ctx context.Context, cmd *cobra.Command, sessionID string) error {
	env, err := bootstrap.Load(cmd, bootstrap.LogStderr)
	if err != nil {
		return err
	}
	defer env.Close()

	history, err := env.Client.History(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("could not fetch history for %s: %w", sessionID, err)
	}

	out := cmd.OutOrStdout()
	printed := 0
	for _, entry := range history.History {
		if entry.Role != string(session.RoleUser) && entry.Role != string(session.RoleAssistant) {
			continue
		}
		if strings.TrimSpace(entry.Content) == "" {
			continue
		}
		if entry.Time != "" {
			fmt.Fprintf(out, "[%s] %s: %s\n", entry.Time, entry.Role, entry.Content)
		} else {
			fmt.Fprintf(out, "%s: %s\n", entry.Role, entry.Content)
		}
		printed++
	}

	if printed == 0 {
		fmt.Fprintln(out, "No messages in this session.")
	}
	return nil
}
