package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies provider failures
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindCanceled    ErrorKind = "canceled"
	KindAuth        ErrorKind = "auth"
	KindQuota       ErrorKind = "quota"
	KindRejected    ErrorKind = "rejected"
	KindMalformed   ErrorKind = "malformed"
	KindUnavailable ErrorKind = "unavailable"
	KindUnknown     ErrorKind = "unknown"
)

// ErrEmptyAnswer is returned when the provider answers with no text
var ErrEmptyAnswer = errors.New("provider returned empty answer")

// UpstreamError is a typed failure of a completion provider
type UpstreamError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s (status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Transient reports whether a retry may succeed
func (e *UpstreamError) Transient() bool {
	switch e.Kind {
	case KindTimeout, KindQuota, KindUnavailable:
		return true
	default:
		return false
	}
}

// newUpstreamError classifies err; statusCode is 0 when the provider gave none
func newUpstreamError(provider string, statusCode int, err error) *UpstreamError {
	return &UpstreamError{
		Provider:   provider,
		Kind:       classify(statusCode, err),
		StatusCode: statusCode,
		Err:        err,
	}
}

func classify(statusCode int, err error) ErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrEmptyAnswer):
		return KindMalformed
	}

	switch {
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return KindAuth
	case statusCode == http.StatusTooManyRequests:
		return KindQuota
	case statusCode == http.StatusRequestTimeout, statusCode == http.StatusGatewayTimeout:
		return KindTimeout
	case statusCode >= 500:
		return KindUnavailable
	case statusCode >= 400:
		return KindRejected
	}

	return KindUnknown
}
