package assistanttest

import (
	"fmt"
	"sync"

	"github.com/papercomputeco/shopgpt/pkg/assistant"
)

// Respond always answers with a 200 carrying body.
func Respond(body any) ChatHandler {
	return func(assistant.ChatRequest) Reply {
		return Reply{Body: body}
	}
}

// Fail always answers with status and a FastAPI style error detail.
func Fail(status int, detail string) ChatHandler {
	return func(assistant.ChatRequest) Reply {
		return Reply{Status: status, Body: assistant.ErrorResponse{Detail: detail}}
	}
}

// Echo issues token on the first request and echoes the content back.
func Echo(token string) ChatHandler {
	return func(req assistant.ChatRequest) Reply {
		return Reply{Body: map[string]any{
			"session_id": token,
			"message":    fmt.Sprintf("You said: %s", req.Content),
		}}
	}
}

// Sequence answers with each handler in turn, repeating the last one.
func Sequence(handlers ...ChatHandler) ChatHandler {
	var mu sync.Mutex
	n := 0
	return func(req assistant.ChatRequest) Reply {
		mu.Lock()
		h := handlers[min(n, len(handlers)-1)]
		n++
		mu.Unlock()
		return h(req)
	}
}

// Product builds a raw product payload.
func Product(asin, title, price string) map[string]any {
	p := map[string]any{"asin": asin, "title": title}
	if price != "" {
		p["price"] = price
	}
	return p
}
