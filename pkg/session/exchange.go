package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/shopgpt/pkg/assistant"
	"github.com/papercomputeco/shopgpt/pkg/product"
)

// Exchange is an accepted request whose network round trip has not run yet.
// It is obtained from Begin and must be completed with Finish.
type Exchange struct {
	transport Transport
	request   assistant.ChatRequest
}

// Request returns the request the exchange will send.
func (x *Exchange) Request() assistant.ChatRequest {
	return x.request
}

// Outcome is the result of running an Exchange. Only outcomes returned by
// Do can be applied with Finish.
type Outcome struct {
	Response *assistant.ChatResponse
	Err      error

	exchange *Exchange
}

// Do performs the round trip. It touches no session state, so it may run on
// any goroutine.
func (x *Exchange) Do(ctx context.Context) Outcome {
	resp, err := x.transport.Chat(ctx, x.request)
	if err == nil && resp == nil {
		err = &emptyResponseError{}
	}
	return Outcome{Response: resp, Err: err, exchange: x}
}

type emptyResponseError struct{}

func (*emptyResponseError) Error() string { return "assistant service returned no response" }

// Begin validates text and, when accepted, appends the user message and
// marks the session pending before returning. It returns false, changing
// nothing, when the trimmed text is empty or an exchange is already pending.
func (s *Session) Begin(text string) (*Exchange, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		s.logger.Debug("rejected send while an exchange is pending")
		return nil, false
	}

	s.appendLocked(Message{Role: RoleUser, Content: text})
	s.pending = true
	s.inflight = &Exchange{
		transport: s.transport,
		request:   assistant.NewChatRequest(text, s.token),
	}
	return s.inflight, true
}

// Finish applies the outcome of the pending exchange. On success it adopts
// the session token, normalizes the products and appends the assistant
// message. On failure it notifies the Notifier once and appends nothing.
// In both cases the session is no longer pending afterwards.
//
// An outcome that does not belong to the pending exchange, including a
// second Finish for the same exchange, changes nothing and returns
// ErrNotAccepted.
func (s *Session) Finish(o Outcome) (Message, error) {
	s.mu.Lock()

	if !s.pending || o.exchange == nil || o.exchange != s.inflight {
		s.mu.Unlock()
		s.logger.Debug("ignored outcome of an exchange that is not pending")
		return Message{}, ErrNotAccepted
	}
	s.inflight = nil

	if o.Err == nil && o.Response == nil {
		o.Err = &emptyResponseError{}
	}
	if o.Err != nil {
		s.pending = false
		notifier := s.notifier
		s.mu.Unlock()

		s.logger.Warn("exchange failed", zap.Error(o.Err))
		notifier.NotifyFailure(o.Err)
		return Message{}, o.Err
	}
	defer s.mu.Unlock()

	resp := o.Response
	if token, ok := resp.Token(); ok {
		if s.token == nil || *s.token != token {
			s.logger.Debug("session token issued", zap.String("session_id", token))
		}
		s.token = &token
	}

	products, dropped := product.NormalizeAll(resp.Products)
	if dropped > 0 {
		s.logger.Debug("dropped malformed products",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(products)),
		)
	}

	m := s.appendLocked(Message{
		Role:     RoleAssistant,
		Content:  resp.Message,
		Products: products,
	})
	if resp.EndChat {
		s.ended = true
	}
	s.pending = false

	s.logger.Info("exchange complete",
		zap.Int("products", len(products)),
		zap.Int("messages", len(s.messages)),
		zap.Bool("end_chat", resp.EndChat),
	)
	return m.clone(), nil
}
