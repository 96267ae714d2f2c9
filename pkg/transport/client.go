// Package transport executes single request/response exchanges with the
// shopping assistant service. It carries no conversation state and performs
// no interpretation of the records it decodes.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/shopgpt/pkg/assistant"
)

const (
	chatPath    = "/api/chat"
	historyPath = "/api/history/"
	healthPath  = "/api/health"

	// maxErrorBody bounds, in cells, how much of an error body is kept.
	maxErrorBody = 4 << 10
)

var errEmptyBody = errors.New("decode response: empty body")

// Config is the transport configuration.
type Config struct {
	// BaseURL of the assistant service, e.g. "http://127.0.0.1:8000"
	BaseURL string

	// Timeout bounds a whole exchange. Zero means none.
	Timeout time.Duration
}

// Client talks to the assistant service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Client.
func NewClient(config Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the service URL the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat performs one chat exchange. The response is returned exactly as
// decoded; any failure is a *TransportError.
func (c *Client) Chat(ctx context.Context, req assistant.ChatRequest) (*assistant.ChatResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Op: "chat", Err: fmt.Errorf("marshal request: %w", err)}
	}

	var resp assistant.ChatResponse
	if err := c.do(ctx, "chat", http.MethodPost, chatPath, reqBody, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("received chat response",
		zap.Bool("has_session", resp.SessionID != nil),
		zap.Int("product_count", len(resp.Products)),
		zap.String("message_preview", truncate(resp.Message, 80)),
	)
	return &resp, nil
}

// History fetches the stored transcript of a session.
func (c *Client) History(ctx context.Context, sessionID string) (*assistant.HistoryResponse, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, &TransportError{Op: "history", Err: fmt.Errorf("session id is required")}
	}

	var resp assistant.HistoryResponse
	if err := c.do(ctx, "history", http.MethodGet, historyPath+url.PathEscape(sessionID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health queries the service health endpoint.
func (c *Client) Health(ctx context.Context) (*assistant.HealthResponse, error) {
	var resp assistant.HealthResponse
	if err := c.do(ctx, "health", http.MethodGet, healthPath, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	endpoint := c.baseURL + path
	requestID := uuid.NewString()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("sending request to assistant service",
		zap.String("op", op),
		zap.String("url", endpoint),
		zap.String("request_id", requestID),
		zap.Int("body_size", len(body)),
	)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("assistant request failed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return &TransportError{Op: op, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &TransportError{Op: op, StatusCode: 0, Err: fmt.Errorf("read response: %w", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		c.logger.Warn("assistant service returned error",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Int("status", httpResp.StatusCode),
			zap.String("body", truncate(string(respBody), 200)),
		)
		return &TransportError{
			Op:         op,
			StatusCode: httpResp.StatusCode,
			Body:       errorText(respBody),
		}
	}

	if body := bytes.TrimSpace(respBody); len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return &TransportError{Op: op, Err: errEmptyBody}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	c.logger.Debug("assistant exchange complete",
		zap.String("op", op),
		zap.String("request_id", requestID),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// errorText prefers the structured error message over the raw body.
func errorText(body []byte) string {
	var e assistant.ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Message() != "" {
		return e.Message()
	}
	return strings.TrimSpace(ansi.Truncate(string(body), maxErrorBody, ""))
}

// truncate shortens s to maxLen cells without splitting a character.
func truncate(s string, maxLen int) string {
	return ansi.Truncate(strings.ReplaceAll(s, "\n", " "), maxLen, "...")
}
