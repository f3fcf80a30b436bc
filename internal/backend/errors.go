package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultErrorMessage is used when a failed response carries no readable message.
const DefaultErrorMessage = "request failed"

const (
	codeNoConnections   = "NO_CONNECTIONS"
	legacyNoConnections = "no connections found"
)

// Kind classifies gateway failures so callers never branch on message text.
type Kind int

const (
	KindUnknown Kind = iota
	// KindTransport means no response was obtained.
	KindTransport
	// KindHTTP is a non-2xx response.
	KindHTTP
	// KindNoConnections means the backend holds no connections for the session.
	KindNoConnections
	// KindDecode is a 2xx response with an unexpected body.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindNoConnections:
		return "no_connections"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by every Client operation.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil && e.Kind != KindHTTP && e.Kind != KindNoConnections {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of a gateway error or KindUnknown for anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNoConnections reports whether err says the session has no uploaded connections.
func IsNoConnections(err error) bool {
	return KindOf(err) == KindNoConnections
}

// Message returns the human-readable part of a gateway error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// parseError builds an Error from a non-2xx response body.
// sessionScoped marks endpoints where a 404 means the session has no data.
func parseError(op string, status int, body []byte, sessionScoped bool) *Error {
	e := &Error{
		Kind:    KindHTTP,
		Op:      op,
		Status:  status,
		Message: DefaultErrorMessage,
	}

	var payload errorBody
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			e.Message = msg
		}
		e.Code = strings.TrimSpace(payload.Code)
	}

	if isNoConnections(e, sessionScoped) {
		e.Kind = KindNoConnections
	}

	return e
}

func isNoConnections(e *Error, sessionScoped bool) bool {
	if strings.EqualFold(e.Code, codeNoConnections) {
		return true
	}
	if !sessionScoped {
		return false
	}
	if e.Status == http.StatusNotFound {
		return true
	}
	// Older backends only report this condition in the message text.
	return strings.Contains(strings.ToLower(e.Message), legacyNoConnections)
}
