package api

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a normalized API failure.
type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindForbidden  Kind = "forbidden"
	KindNotFound   Kind = "not_found"
	KindServer     Kind = "server"
	KindTimeout    Kind = "timeout"
	KindNetwork    Kind = "network"
)

// Fallback display messages per failure class, used when the server response
// carries no usable message.
const (
	msgSessionExpired = "Session expired. Please sign in again."
	msgForbidden      = "You don't have permission to perform this action."
	msgNotFound       = "Resource not found."
	msgValidation     = "Validation error."
	msgServerError    = "Internal server error. Please try again later."
	msgTimeout        = "Connection timed out. Check your internet connection."
	msgNetwork        = "Network error. Check your internet connection."
)

// Error is the single error shape every transport or server failure is
// normalized into before it leaves this package.
type Error struct {
	Kind    Kind
	Message string
	Status  int // HTTP status, 0 for transport failures
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrorKind returns the Kind of a normalized API error, or "" if err is not one.
func ErrorKind(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// Message returns the display message of a normalized API error, falling back
// to err.Error() for anything else.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func fallbackMessage(kind Kind) string {
	switch kind {
	case KindAuth:
		return msgSessionExpired
	case KindForbidden:
		return msgForbidden
	case KindNotFound:
		return msgNotFound
	case KindValidation:
		return msgValidation
	case KindTimeout:
		return msgTimeout
	case KindNetwork:
		return msgNetwork
	default:
		return msgServerError
	}
}

func kindForStatus(status int) Kind {
	switch {
	case status == 401:
		return KindAuth
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status == 400 || status == 422:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindServer
	}
}

// classifyTransport maps a raw http.Client failure to Timeout or Network.
func classifyTransport(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}
