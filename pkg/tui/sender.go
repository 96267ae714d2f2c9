package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papercomputeco/shopgpt/pkg/session"
)

// exchangeDoneMsg carries a finished round trip back to the update loop.
type exchangeDoneMsg struct {
	outcome session.Outcome
}

// sessionSender lets the composer submit to the session without blocking
// the update loop. Submit only begins the exchange; the round trip runs as
// the command returned by take.
type sessionSender struct {
	sess *session.Session
	next *session.Exchange
}

func (s *sessionSender) Pending() bool {
	return s.sess.Pending() || s.sess.Ended()
}

func (s *sessionSender) Submit(text string) bool {
	if s.sess.Ended() {
		return false
	}
	x, ok := s.sess.Begin(text)
	if !ok {
		return false
	}
	s.next = x
	return true
}

// take returns the command running the exchange accepted by the last
// Submit, or nil.
func (s *sessionSender) take(ctx context.Context) tea.Cmd {
	x := s.next
	s.next = nil
	if x == nil {
		return nil
	}
	return func() tea.Msg {
		return exchangeDoneMsg{outcome: x.Do(ctx)}
	}
}
