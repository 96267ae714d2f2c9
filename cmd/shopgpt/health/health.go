package healthcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/shopgpt/cmd/shopgpt/bootstrap"
)

const healthLongDesc string = `Check that the assistant service is reachable.

Prints the service status and the model it answers with.

Examples:
  shopgpt health
  shopgpt health --base-url http://10.0.0.5:8000`

const healthShortDesc string = "Check the assistant service"

type healthCommander struct{}

func NewHealthCmd() *cobra.Command {
	cmder := &healthCommander{}

	cmd := &cobra.Command{
		Use:   "health",
		Short: healthShortDesc,
		Long:  healthLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	return cmd
}

func (c *healthCommander) run(ctx context.Context, cmd *cobra.Command) error {
	env, err := bootstrap.Load(cmd, bootstrap.LogStderr)
	if err != nil {
		return err
	}
	defer env.Close()

	health, err := env.Client.Health(ctx)
	if err != nil {
		return fmt.Errorf("could not reach %s: %w", env.Client.BaseURL(), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (model %s)\n", env.Client.BaseURL(), health.Status, health.Model)
	return nil
}
