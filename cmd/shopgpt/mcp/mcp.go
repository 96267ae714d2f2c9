package mcpcmder

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/shopgpt/cmd/shopgpt/bootstrap"
	"github.com/papercomputeco/shopgpt/pkg/product"
	"github.com/papercomputeco/shopgpt/pkg/session"
	"github.com/papercomputeco/shopgpt/pkg/transport"
)

const mcpLongDesc string = `Serve the shopping assistant as an MCP server over stdio.

The server exposes three tools:
  shop_ask         send a message to the assistant and receive its reply
                   and products; consecutive calls share one conversation
  shop_transcript  list the messages of that conversation so far
  shop_health      report the assistant service status

Logs go to standard error because standard output carries the protocol.

Examples:
  shopgpt mcp
  shopgpt mcp --base-url http://10.0.0.5:8000`

const mcpShortDesc string = "Serve the assistant as an MCP server"

const serverVersion = "v0.1.0"

type mcpCommander struct{}

// AskInput is the shop_ask argument.
type AskInput struct {
	Message string `json:"message" jsonschema:"what to ask the shopping assistant"`
}

// AskOutput is the shop_ask result.
type AskOutput struct {
	Reply     string            `json:"reply"`
	SessionID string            `json:"session_id,omitempty"`
	Ended     bool              `json:"ended,omitempty"`
	Products  []product.Product `json:"products"`
}

// TranscriptInput is the empty shop_transcript argument.
type TranscriptInput struct{}

// TranscriptEntry is one message of the conversation.
type TranscriptEntry struct {
	Hash    string   `json:"hash"`
	Role    string   `json:"role"`
	Content string   `json:"content"`
	ASINs   []string `json:"asins,omitempty"`
}

// TranscriptOutput is the shop_transcript result.
type TranscriptOutput struct {
	Messages []TranscriptEntry `json:"messages"`
}

// HealthInput is the empty shop_health argument.
type HealthInput struct{}

// HealthOutput is the shop_health result.
type HealthOutput struct {
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
}

func NewMCPCmd() *cobra.Command {
	cmder := &mcpCommander{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: mcpShortDesc,
		Long:  mcpLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	return cmd
}

func (c *mcpCommander) run(ctx context.Context, cmd *cobra.Command) error {
	env, err := bootstrap.Load(cmd, bootstrap.LogStderr)
	if err != nil {
		return err
	}
	defer env.Close()

	sess := session.New(env.Client, env.Logger)
	defer sess.Close()

	server := NewServer(sess, env.Client)

	env.Logger.Info("serving MCP over stdio", zap.String("base_url", env.Client.BaseURL()))
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// NewServer builds the MCP server. All shop_ask calls continue sess.
func NewServer(sess *session.Session, client *transport.Client) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "shopgpt",
		Version: serverVersion,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "shop_ask",
		Description: "Ask the shopping comparison assistant for products. Calls continue the same conversation.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, AskOutput, error) {
		reply, err := sess.Send(ctx, in.Message)
		if errors.Is(err, session.ErrNotAccepted) {
			return nil, AskOutput{}, errors.New("message is empty or another question is still being answered")
		}
		if err != nil {
			return nil, AskOutput{}, err
		}

		out := AskOutput{
			Reply:    reply.Content,
			Ended:    sess.Ended(),
			Products: reply.Products,
		}
		if out.Products == nil {
			out.Products = []product.Product{}
		}
		if token, ok := sess.Token(); ok {
			out.SessionID = token
		}
		return nil, out, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "shop_transcript",
		Description: "List the messages of the current shopping conversation, oldest first.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ TranscriptInput) (*mcp.CallToolResult, TranscriptOutput, error) {
		nodes, err := sess.Transcript(ctx)
		if err != nil {
			return nil, TranscriptOutput{}, fmt.Errorf("could not read transcript: %w", err)
		}

		out := TranscriptOutput{Messages: make([]TranscriptEntry, 0, len(nodes))}
		for _, n := range nodes {
			out.Messages = append(out.Messages, TranscriptEntry{
				Hash:    n.ShortHash(),
				Role:    n.Bucket.Role,
				Content: n.Bucket.Content,
				ASINs:   n.Bucket.ASINs,
			})
		}
		return nil, out, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "shop_health",
		Description: "Report whether the shopping assistant service is up and which model it runs.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ HealthInput) (*mcp.CallToolResult, HealthOutput, error) {
		health, err := client.Health(ctx)
		if err != nil {
			return nil, HealthOutput{}, err
		}
		return nil, HealthOutput{Status: health.Status, Model: health.Model}, nil
	})

	return server
}
