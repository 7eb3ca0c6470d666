package api

import (
	stderrors "errors"
	"fmt"

	"github.com/felixgeelhaar/maison/internal/errors"
)

// Kind classifies the outcome of an API call.
type Kind int

const (
	// KindSuccess is a 2xx response.
	KindSuccess Kind = iota
	// KindUnauthorized is a 401 response: the credential was rejected.
	KindUnauthorized
	// KindNetwork means no response was received.
	KindNetwork
	// KindServer is any other non-2xx response, or a response that could not
	// be decoded.
	KindServer
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindUnauthorized:
		return "unauthorized"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Classify maps an HTTP status to a Kind. A status of 0 means no response.
func Classify(status int) Kind {
	switch {
	case status == 0:
		return KindNetwork
	case status >= 200 && status < 300:
		return KindSuccess
	case status == 401:
		return KindUnauthorized
	default:
		return KindServer
	}
}

// Error is a failed API call.
type Error struct {
	// Op names the attempted action, e.g. "create order".
	Op string

	Kind Kind

	// Status is the HTTP status, or 0 when no response was received.
	Status int

	// Detail is the server's explanation, when it gave one.
	Detail string

	RequestID string
	Err       error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindNetwork:
		cause := e.Err
		var me *errors.MaisonError
		if stderrors.As(e.Err, &me) && me.Cause != nil {
			cause = me.Cause
		}
		return fmt.Sprintf("failed to %s: %v", e.Op, cause)
	case e.Detail != "":
		return fmt.Sprintf("failed to %s: %s (status %d)", e.Op, e.Detail, e.Status)
	default:
		return fmt.Sprintf("failed to %s: status %d", e.Op, e.Status)
	}
}

// Unwrap exposes the coded error behind the failure.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err: KindSuccess for nil, the classified kind
// for an *Error, and KindServer for anything else.
func KindOf(err error) Kind {
	if err == nil {
		return KindSuccess
	}
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServer
}

// StatusOf returns the HTTP status behind err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func newNetworkError(op, requestID string, cause error) *Error {
	return &Error{
		Op:        op,
		Kind:      KindNetwork,
		RequestID: requestID,
		Err: errors.Wrap(errors.ErrCodeAPINetwork, "no response from the storefront API", cause).
			WithSuggestion("Check your connection and the configured API URL (maison config view)"),
	}
}

func newStatusError(op, requestID string, status int, detail string) *Error {
	e := &Error{
		Op:        op,
		Kind:      Classify(status),
		Status:    status,
		Detail:    detail,
		RequestID: requestID,
	}
	if e.Kind == KindUnauthorized {
		e.Err = errors.NewSessionExpiredError()
	} else {
		msg := detail
		if msg == "" {
			msg = fmt.Sprintf("server responded with status %d", status)
		}
		e.Err = errors.New(errors.ErrCodeAPIServer, msg)
	}
	return e
}

func newDecodeError(op, requestID string, status int, cause error) *Error {
	return &Error{
		Op:        op,
		Kind:      KindServer,
		Status:    status,
		Detail:    "unreadable response",
		RequestID: requestID,
		Err:       errors.Wrap(errors.ErrCodeAPIDecode, "failed to decode response", cause),
	}
}
