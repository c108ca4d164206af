package authapi

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindValidation is detected locally, before any request is sent.
	KindValidation Kind = iota + 1
	// KindRequest is a non-2xx answer from the service.
	KindRequest
	// KindNetwork means no usable answer arrived.
	KindNetwork
	// KindSessionInvalid means the stored token was rejected on a protected view.
	KindSessionInvalid
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRequest:
		return "request"
	case KindNetwork:
		return "network"
	case KindSessionInvalid:
		return "session_invalid"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrValidation     = &Error{Kind: KindValidation}
	ErrRequest        = &Error{Kind: KindRequest}
	ErrNetwork        = &Error{Kind: KindNetwork}
	ErrSessionInvalid = &Error{Kind: KindSessionInvalid}
)

// NetworkMessage is shown when the service could not be reached.
const NetworkMessage = "Unable to reach the server. Check your connection and try again."

// Error is the single failure type surfaced to the UI layer.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Kind, msg)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s %s (%d): %s", e.Op, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Message == ""
}

// Validation builds a KindValidation error with a user-facing message.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// UserMessage extracts the text to show for err. Errors outside the taxonomy
// fall back to their Error() string.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
