// Package session owns the state of one conversation with the shopping
// assistant: the ordered message history, the continuity token issued by the
// service, and whether an exchange is in flight.
//
// At most one exchange runs at a time. A Send (or Begin) issued while another
// exchange is pending is rejected, never queued.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/papercomputeco/shopgpt/pkg/assistant"
	"github.com/papercomputeco/shopgpt/pkg/merkle"
)

// ErrNotAccepted is returned when Send is called with blank text or while
// another exchange is pending. Nothing was sent and no state changed.
var ErrNotAccepted = errors.New("message not accepted")

// Transport performs one exchange with the assistant service.
type Transport interface {
	Chat(ctx context.Context, req assistant.ChatRequest) (*assistant.ChatResponse, error)
}

// Session is a single conversation. It is safe for concurrent use.
type Session struct {
	transport  Transport
	logger     *zap.Logger
	notifier   Notifier
	transcript merkle.Storer

	greeting string

	mu       sync.Mutex
	messages []Message
	token    *string
	pending  bool
	inflight *Exchange
	ended    bool
	head     *merkle.Node
}

// Option configures a Session.
type Option func(*Session)

// WithGreeting seeds the conversation with an assistant message.
func WithGreeting(text string) Option {
	return func(s *Session) {
		s.greeting = text
	}
}

// WithNotifier sets the receiver of failed exchanges.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		s.notifier = n
	}
}

// New creates a new Session.
func New(transport Transport, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		transport:  transport,
		logger:     logger,
		notifier:   nopNotifier{},
		transcript: merkle.NewMemoryStorer(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if strings.TrimSpace(s.greeting) != "" {
		s.appendLocked(Message{Role: RoleAssistant, Content: s.greeting})
	}
	return s
}

// Messages returns a copy of the conversation in display order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.clone()
	}
	return out
}

// Last returns the most recent message.
func (s *Session) Last() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1].clone(), true
}

// Token returns the continuity token issued by the service, if any.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == nil {
		return "", false
	}
	return *s.token, true
}

// Pending reports whether an exchange is in flight.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Ended reports whether the assistant closed the conversation.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// Transcript returns the message chain, oldest first.
func (s *Session) Transcript(ctx context.Context) ([]*merkle.Node, error) {
	s.mu.Lock()
	head := s.head
	s.mu.Unlock()

	if head == nil {
		return nil, nil
	}
	return s.transcript.Descendants(ctx, head.Hash)
}

// Head returns the newest transcript node and its depth, the number of
// messages before it.
func (s *Session) Head(ctx context.Context) (*merkle.Node, int, error) {
	s.mu.Lock()
	head := s.head
	s.mu.Unlock()

	if head == nil {
		return nil, 0, merkle.ErrNotFound{}
	}
	depth, err := s.transcript.Depth(ctx, head.Hash)
	if err != nil {
		return nil, 0, fmt.Errorf("could not measure transcript: %w", err)
	}
	return head, depth, nil
}

// Close releases the transcript. Messages and the token stay readable.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.head = nil
	return s.transcript.Close()
}

// Send runs one full exchange: it appends the user message, calls the
// service and appends the reply. It returns the assistant message, the
// transport error (already passed to the Notifier), or ErrNotAccepted.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	x, ok := s.Begin(text)
	if !ok {
		return Message{}, ErrNotAccepted
	}
	return s.Finish(x.Do(ctx))
}

// appendLocked must be called with mu held or before the session is shared.
func (s *Session) appendLocked(m Message) Message {
	bucket := merkle.Bucket{
		Type:    "message",
		Role:    string(m.Role),
		Content: m.Content,
	}
	for _, p := range m.Products {
		bucket.ASINs = append(bucket.ASINs, p.ASIN)
	}

	node := merkle.NewNode(bucket, s.head)
	if err := s.transcript.Put(context.Background(), node); err != nil {
		s.logger.Warn("could not record message in transcript", zap.Error(err))
	}
	s.head = node

	m.Hash = node.Hash
	s.messages = append(s.messages, m)
	return m
}
