package generator

import (
	"errors"
	"fmt"
)

// Kind classifies provider failures so callers never see provider-specific
// error shapes.
type Kind string

const (
	KindAuth        Kind = "auth"
	KindRateLimit   Kind = "rate_limit"
	KindTimeout     Kind = "timeout"
	KindNetwork     Kind = "network"
	KindBadResponse Kind = "bad_response"
)

// Error is the uniform failure type returned by every Client implementation.
type Error struct {
	Provider string
	Kind     Kind
	Message  string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether an error is a transient provider failure worth
// retrying. Auth and malformed-response failures are not.
func Retryable(err error) bool {
	var perr *Error
	if !errors.As(err, &perr) {
		return false
	}
	switch perr.Kind {
	case KindRateLimit, KindTimeout, KindNetwork:
		return true
	}
	return false
}

// classifyStatus maps an HTTP status to a failure kind.
func classifyStatus(provider string, status int, body string) *Error {
	var kind Kind
	switch {
	case status == 401 || status == 403:
		kind = KindAuth
	case status == 429:
		kind = KindRateLimit
	case status >= 500:
		kind = KindNetwork
	default:
		kind = KindBadResponse
	}
	return &Error{
		Provider: provider,
		Kind:     kind,
		Message:  fmt.Sprintf("API error %d: %s", status, body),
	}
}
