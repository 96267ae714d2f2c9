// Package assistanttest provides an in-process stand-in for the shopping
// assistant service, for tests of the client packages.
package assistanttest

import (
	"encoding/json"
	"net/http/httptest"
	"sync"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/shopgpt/pkg/assistant"
)

// Reply is what the fake service answers to one chat request.
type Reply struct {
	// Status defaults to 200.
	Status int

	// Body is encoded as JSON unless Raw is set.
	Body any

	// Raw is written verbatim.
	Raw string
}

// ChatHandler decides the reply for a chat request.
type ChatHandler func(req assistant.ChatRequest) Reply

// Server is a fake assistant service listening on a local port.
type Server struct {
	// URL is the base URL to configure clients with.
	URL string

	app  *fiber.App
	http *httptest.Server

	mu       sync.Mutex
	handler  ChatHandler
	requests []assistant.ChatRequest
	history  map[string][]assistant.HistoryEntry
	model    string
}

// NewServer starts a fake service answering chat requests with handler.
func NewServer(handler ChatHandler) *Server {
	s := &Server{
		handler: handler,
		history: make(map[string][]assistant.HistoryEntry),
		model:   "test-model",
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Post("/api/chat", s.handleChat)
	app.Get("/api/history/:session", s.handleHistory)
	app.Get("/api/health", func(c *fiber.Ctx) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return c.JSON(assistant.HealthResponse{Status: "healthy", Model: s.model})
	})

	s.app = app
	s.http = httptest.NewServer(adaptor.FiberApp(app))
	s.URL = s.http.URL
	return s
}

// Close shuts the server down.
func (s *Server) Close() {
	s.http.Close()
	_ = s.app.Shutdown()
}

// App exposes the fiber app for app.Test style tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// SetHandler replaces the chat handler.
func (s *Server) SetHandler(handler ChatHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// SetHistory sets the transcript returned for a session.
func (s *Server) SetHistory(sessionID string, entries []assistant.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[sessionID] = entries
}

// Requests returns the chat requests received so far, in order.
func (s *Server) Requests() []assistant.ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]assistant.ChatRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req assistant.ChatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(assistant.ErrorResponse{Detail: "invalid request body"})
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	handler := s.handler
	s.mu.Unlock()

	reply := handler(req)
	status := reply.Status
	if status == 0 {
		status = fiber.StatusOK
	}

	if reply.Raw != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(status).SendString(reply.Raw)
	}
	return c.Status(status).JSON(reply.Body)
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	s.mu.Lock()
	entries, ok := s.history[c.Params("session")]
	s.mu.Unlock()

	if !ok {
		entries = []assistant.HistoryEntry{}
	}
	return c.JSON(assistant.HistoryResponse{History: entries})
}
