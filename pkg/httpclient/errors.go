package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Failure kinds. Every error returned by Client unwraps to exactly one of them.
var (
	ErrTransport    = errors.New("transport failure")
	ErrTimeout      = errors.New("request timed out")
	ErrCanceled     = errors.New("request canceled")
	ErrTargetFormat = errors.New("malformed request target")
)

const maxErrorBodyBytes = 512

// Error describes a failed client operation.
type Error struct {
	Op   string
	URL  string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.URL == "" {
		return e.Op + ": " + msg
	}
	return fmt.Sprintf("%s %q: %s", e.Op, e.URL, msg)
}

// Unwrap exposes both the kind sentinel and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Temporary reports whether repeating the same call may succeed.
func (e *Error) Temporary() bool {
	switch e.Kind {
	case ErrTimeout:
		return true
	case ErrTransport:
		var se *StatusError
		if errors.As(e.Err, &se) {
			return se.Code >= http.StatusInternalServerError || se.Code == http.StatusTooManyRequests
		}
		return true
	default:
		return false
	}
}

// StatusError reports a non-success status returned to GetString.
type StatusError struct {
	Code   int
	Header http.Header
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, bodySnippet(e.Body))
}

// classify maps a transport failure to a failure kind. parent is the caller's
// context, call the (possibly deadline-bound) context handed to the transport.
func classify(parent, call context.Context, err error) error {
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		return ErrCanceled
	case errors.Is(call.Err(), context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.Canceled):
		return ErrCanceled
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return ErrTransport
}

func bodySnippet(body []byte) string {
	if len(body) == 0 {
		return "<empty>"
	}
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return strings.TrimSpace(string(body))
}
