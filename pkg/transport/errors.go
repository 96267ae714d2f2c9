package transport

import (
	"fmt"
	"net/http"
)

// TransportError is returned for any exchange that did not produce a
// decodable success body: the service was unreachable, answered with a
// non-2xx status, or sent a body that could not be decoded.
type TransportError struct {
	// Op names the exchange, e.g. "chat".
	Op string

	// StatusCode is zero when no response was received.
	StatusCode int

	// Body holds the service's error text when it sent one.
	Body string

	Err error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: assistant service returned %d %s: %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: assistant service returned %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": exchange failed"
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
