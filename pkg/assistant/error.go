// Package assistant holds the wire records exchanged with the shopping
// assistant service. Values are decoded exactly as received; interpretation
// of product payloads is left to the product package.
package assistant

// ErrorResponse is the error body returned by the assistant service.
// FastAPI style services report failures under "detail".
type ErrorResponse struct {
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Message returns whichever error text the service populated.
func (e ErrorResponse) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Error
}
