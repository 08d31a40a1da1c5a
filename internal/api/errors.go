package api

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError means the request never produced an HTTP response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError means the server answered with a non-success status.
type ServerError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Category groups errors by how they are reported to the user.
type Category int

const (
	CategoryNone Category = iota
	CategoryNetwork
	CategoryUnauthorized
	CategoryValidation
	CategoryServer
	CategoryUnknown
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryNetwork:
		return "network"
	case CategoryUnauthorized:
		return "unauthorized"
	case CategoryValidation:
		return "validation"
	case CategoryServer:
		return "server"
	default:
		return "unknown"
	}
}

// Classify reports which category err belongs to.
func Classify(err error) Category {
	if err == nil {
		return CategoryNone
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return CategoryNetwork
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		switch {
		case srvErr.StatusCode == http.StatusUnauthorized || srvErr.StatusCode == http.StatusForbidden:
			return CategoryUnauthorized
		case srvErr.StatusCode >= 400 && srvErr.StatusCode < 500:
			return CategoryValidation
		default:
			return CategoryServer
		}
	}
	return CategoryUnknown
}

// IsUnauthorized reports whether err means the credential was rejected.
func IsUnauthorized(err error) bool {
	return Classify(err) == CategoryUnauthorized
}

// retryable reports whether an idempotent request may be attempted again.
func retryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.StatusCode >= 500 || srvErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
