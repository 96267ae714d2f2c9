package rootcmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/papercomputeco/shopgpt/cmd/shopgpt/ask"
	"github.com/papercomputeco/shopgpt/cmd/shopgpt/bootstrap"
	chatcmder "github.com/papercomputeco/shopgpt/cmd/shopgpt/chat"
	healthcmder "github.com/papercomputeco/shopgpt/cmd/shopgpt/health"
	historycmder "github.com/papercomputeco/shopgpt/cmd/shopgpt/history"
	mcpcmder "github.com/papercomputeco/shopgpt/cmd/shopgpt/mcp"
)

const rootLongDesc string = `shopgpt is a terminal client for the shopping comparison assistant.

Ask for products in plain language and compare the results the assistant
finds. Without a subcommand shopgpt opens the interactive chat screen.

Configuration is read from ~/.shopgpt/config.toml, SHOPGPT_* environment
variables and the flags below, in increasing precedence.

Examples:
  shopgpt
  shopgpt ask "running shoes under $100"
  shopgpt --base-url http://10.0.0.5:8000 chat
  shopgpt history 6f1c2e`

const rootShortDesc string = "Chat with the shopping comparison assistant"

// NewRootCmd builds the shopgpt command tree.
func NewRootCmd() *cobra.Command {
	chatCmd := chatcmder.NewChatCmd()

	cmd := &cobra.Command{
		Use:          "shopgpt",
		Short:        rootShortDesc,
		Long:         rootLongDesc,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         chatCmd.RunE,
	}

	bootstrap.AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(chatCmd)
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(healthcmder.NewHealthCmd())
	cmd.AddCommand(mcpcmder.NewMCPCmd())

	return cmd
}
