package assistant

// HistoryResponse is the body of GET /api/history/{session_id}.
type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
}

// HistoryEntry is one stored chat row. The service stores system and tool
// rows too; callers filter on Role.
type HistoryEntry struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	Time           string `json:"time,omitempty"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
}
