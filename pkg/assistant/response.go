package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrMissingMessage is returned when decoding a chat response whose
// "message" is absent or null.
var ErrMissingMessage = errors.New("response has no message")

// ChatResponse is the success body of POST /api/chat.
type ChatResponse struct {
	SessionID *string     `json:"session_id,omitempty"`
	Message   string      `json:"message"`
	Products  RawProducts `json:"products,omitempty"`
	EndChat   bool        `json:"end_chat,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. The message is required.
func (r *ChatResponse) UnmarshalJSON(data []byte) error {
	type fields ChatResponse
	var w struct {
		fields
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Message == nil {
		return ErrMissingMessage
	}

	*r = ChatResponse(w.fields)
	r.Message = *w.Message
	return nil
}

// Token returns the session token carried by the response, if any.
// An empty string counts as absent.
func (r *ChatResponse) Token() (string, bool) {
	if r == nil || r.SessionID == nil || *r.SessionID == "" {
		return "", false
	}
	return *r.SessionID, true
}

// RawProducts is the ordered list of unvalidated product payloads.
//
// A "products" value that is null or not an array decodes to an empty list
// instead of failing the whole response.
type RawProducts []json.RawMessage

// UnmarshalJSON implements json.Unmarshaler.
func (p *RawProducts) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		*p = nil
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}
	*p = items
	return nil
}
