// Package common holds the error taxonomy shared by the broker services.
// Controllers map these to HTTP responses; services never write HTTP themselves.
package common

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrInvalidRequest: missing code, unknown/expired state, bad query params.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotAuthenticated: no credential stored for the user id.
	ErrNotAuthenticated = errors.New("user not authenticated")
	// ErrReauthenticationRequired: the refresh token was rejected; a new login is needed.
	ErrReauthenticationRequired = errors.New("re-authentication required")
	// ErrNotFound: lookup/logout of an unknown user id.
	ErrNotFound = errors.New("not found")
)

// RequestError is an ErrInvalidRequest with a machine-readable reason.
type RequestError struct {
	Reason  string // e.g. "missing_code", "invalid_state", "oauth_error"
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Reason, e.Message)
}

func (e *RequestError) Is(target error) bool { return target == ErrInvalidRequest }

// InvalidRequest builds a *RequestError.
func InvalidRequest(reason, msg string) error {
	return &RequestError{Reason: reason, Message: msg}
}

// UpstreamError is a non-200 answer from Zoom that the caller should see as-is.
type UpstreamError struct {
	Op     string // "token_exchange" | "identity" | "recordings"
	Status int
	Body   string
	// AfterRefresh marks a failure of the retry that followed a successful refresh.
	AfterRefresh bool
	Err          error
}

func (e *UpstreamError) Error() string {
	suffix := ""
	if e.AfterRefresh {
		suffix = " (after refresh)"
	}
	return fmt.Sprintf("upstream %s failed%s: http %d", e.Op, suffix, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// AsUpstream unwraps err into an *UpstreamError.
func AsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
