package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrRefreshInFlight = errors.New("refresh already in flight")
)

// Fetch failure kinds. A *FetchError matches its kind with errors.Is.
var (
	ErrNetwork        = errors.New("network error")
	ErrHTTPStatus     = errors.New("http status error")
	ErrParse          = errors.New("parse error")
	ErrServerReported = errors.New("server reported error")
)

type FetchKind string

const (
	KindNetwork        FetchKind = "network"
	KindHTTPStatus     FetchKind = "http_status"
	KindParse          FetchKind = "parse"
	KindServerReported FetchKind = "server_reported"
)

// FetchError describes a failed request against the backend API.
type FetchError struct {
	Kind    FetchKind
	Method  string
	URL     string
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		if e.Message != "" {
			return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Status, e.Message)
		}
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Status)
	case KindServerReported:
		return fmt.Sprintf("%s %s: server error: %s", e.Method, e.URL, e.Message)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Kind)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrHTTPStatus:
		return e.Kind == KindHTTPStatus
	case ErrParse:
		return e.Kind == KindParse
	case ErrServerReported:
		return e.Kind == KindServerReported
	}
	return false
}

// ServerMessage returns the backend-provided error text carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message, true
	}
	return "", false
}
