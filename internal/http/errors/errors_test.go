package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropDatabas3/zoombroker/internal/http/services/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError_Taxonomy(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid state", common.InvalidRequest("invalid_state", "x"), 400, "INVALID_STATE"},
		{"missing code", common.InvalidRequest("missing_code", "x"), 400, "MISSING_CODE"},
		{"bad date", common.InvalidRequest("invalid_date", "x"), 400, "INVALID_PARAMETER"},
		{"not authenticated", common.ErrNotAuthenticated, 401, "NOT_AUTHENTICATED"},
		{"reauth", fmt.Errorf("%w: refresh 400", common.ErrReauthenticationRequired), 401, "REAUTHENTICATION_REQUIRED"},
		{"not found", common.ErrNotFound, 404, "USER_NOT_FOUND"},
		{"upstream 500", &common.UpstreamError{Op: "recordings", Status: 500, Body: "b"}, 500, "UPSTREAM_ERROR"},
		{"upstream 404", &common.UpstreamError{Op: "recordings", Status: 404}, 404, "UPSTREAM_ERROR"},
		{"transport", &common.UpstreamError{Op: "recordings"}, 502, "UPSTREAM_UNAVAILABLE"},
		{"401 after refresh", &common.UpstreamError{Op: "recordings", Status: 401, AfterRefresh: true}, 502, "UPSTREAM_UNAUTHORIZED_AFTER_REFRESH"},
		{"500 after refresh", &common.UpstreamError{Op: "recordings", Status: 503, AfterRefresh: true}, 503, "UPSTREAM_ERROR_AFTER_REFRESH"},
		{"exchange", &common.UpstreamError{Op: "token_exchange", Status: 401, Body: "bad code"}, 400, "TOKEN_EXCHANGE_FAILED"},
		{"generic", fmt.Errorf("boom"), 500, "INTERNAL_SERVER_ERROR"},
		{"app error", ErrRateLimitExceeded, 429, "RATE_LIMIT_EXCEEDED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromError(tc.err)
			assert.Equal(t, tc.status, got.HTTPStatus)
			assert.Equal(t, tc.code, got.Code)
		})
	}
}

func TestWriteError_BodyShape(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, &common.UpstreamError{Op: "recordings", Status: 500, Body: `{"code":300}`})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UPSTREAM_ERROR", body["code"])
	assert.Equal(t, `{"code":300}`, body["detail"])
}

func TestWithDetail_DoesNotMutateCatalog(t *testing.T) {
	_ = ErrBadRequest.WithDetail("x")
	assert.Empty(t, ErrBadRequest.Detail)
}
