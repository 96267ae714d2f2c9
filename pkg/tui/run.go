package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/papercomputeco/shopgpt/pkg/session"
)

// Run shows the chat screen until the user leaves.
func Run(ctx context.Context, transport session.Transport, logger *zap.Logger, opts Options) error {
	model := New(ctx, transport, logger, opts)
	defer model.Session().Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("could not run chat screen: %w", err)
	}
	return nil
}
