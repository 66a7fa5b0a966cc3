package zoom

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is matched (via errors.Is) by any *HTTPError carrying a 401:
// the bearer token was rejected, expired or revoked.
var ErrUnauthorized = errors.New("zoom: unauthorized")

// Kind tells which call produced an HTTPError.
type Kind string

const (
	KindTokenExchange Kind = "token_exchange"
	KindTokenRefresh  Kind = "token_refresh"
	KindUpstream      Kind = "upstream"
)

// HTTPError is a non-200 answer from Zoom. Body is the upstream body, truncated
// to maxErrorBody; it never contains our client secret.
type HTTPError struct {
	Kind   Kind
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("zoom: %s failed: http %d: %s", e.Kind, e.Status, e.Body)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// AsHTTPError unwraps err into an *HTTPError if there is one in the chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
