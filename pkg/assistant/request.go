package assistant

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Content string `json:"content"`

	// SessionID is encoded as null until the service has issued a token.
	SessionID *string `json:"session_id"`
}

// NewChatRequest builds a request carrying the given token, which may be nil.
func NewChatRequest(content string, sessionID *string) ChatRequest {
	req := ChatRequest{Content: content}
	if sessionID != nil {
		id := *sessionID
		req.SessionID = &id
	}
	return req
}
