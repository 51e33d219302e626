package client

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindNetwork means no response was received (DNS, connection, timeout).
	KindNetwork Kind = iota + 1
	// KindHTTP means a response arrived with a non-2xx status.
	KindHTTP
	// KindUnexpectedContentType means a 2xx response whose body is not usable JSON.
	KindUnexpectedContentType
	// KindRequest means the call failed locally before dispatch: an unparsable
	// URL or a payload that could not be encoded.
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindUnexpectedContentType:
		return "unexpected_content_type"
	case KindRequest:
		return "request"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// msgUnexpectedContentType is shown when a successful response cannot be decoded.
const msgUnexpectedContentType = "The server returned an unexpected response."

// msgResponseTooLarge is shown when a successful response exceeds the body limit.
const msgResponseTooLarge = "The server response is too large."

// msgRequestFailed is the last-resort message for a failure with no status phrase.
const msgRequestFailed = "Request failed."

// Error is returned by Send for every failed call. Message is the text shown
// to the user; Status is the HTTP status code for KindHTTP and
// KindUnexpectedContentType, zero otherwise.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %d: %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying transport or decode error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is a client *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func newError(kind Kind, status int, message string, cause error) *Error {
	return &Error{Kind: kind, Status: status, Message: message, cause: cause}
}
