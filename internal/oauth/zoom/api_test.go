package zoom

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchIdentity(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/users/me", r.URL.Path)
		assert.Equal(t, "Bearer AT1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"id": "u42", "email": "a@b.com", "first_name": "Ada", "last_name": "L", "display_name": "Ada L",
		})
	}))

	id, err := c.FetchIdentity(context.Background(), "AT1")
	require.NoError(t, err)
	assert.Equal(t, "u42", id.ID)
	assert.Equal(t, "a@b.com", id.Email)
	assert.Equal(t, "Ada L", id.DisplayName)
	assert.JSONEq(t, `{"id":"u42","email":"a@b.com","first_name":"Ada","last_name":"L","display_name":"Ada L"}`, string(id.Raw))
}

func TestFetchIdentity_Errors(t *testing.T) {
	status := http.StatusUnauthorized
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, map[string]any{"code": 124, "message": "Invalid access token."})
	}))

	_, err := c.FetchIdentity(context.Background(), "bad")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	status = http.StatusTooManyRequests
	_, err = c.FetchIdentity(context.Background(), "AT1")
	assert.False(t, errors.Is(err, ErrUnauthorized))
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, KindUpstream, he.Kind)
	assert.Equal(t, http.StatusTooManyRequests, he.Status)
	assert.Contains(t, he.Body, "Invalid access token.")
}

func TestFetchIdentity_MissingID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"email": "a@b.com"})
	}))
	_, err := c.FetchIdentity(context.Background(), "AT1")
	assert.Error(t, err)
}

func TestListRecordings_QueryParams(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/users/u42/recordings", r.URL.Path)
		assert.Equal(t, "Bearer AT1", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "30", q.Get("page_size"))
		assert.True(t, q.Has("next_page_token"))
		assert.Equal(t, "2024-01-01", q.Get("from"))
		assert.Equal(t, "2024-01-31", q.Get("to"))
		writeJSON(w, http.StatusOK, map[string]any{"total_records": 1, "meetings": []any{map[string]any{"uuid": "m1"}}})
	}))

	body, err := c.ListRecordings(context.Background(), "AT1", "u42", RecordingsQuery{From: "2024-01-01", To: "2024-01-31"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_records":1,"meetings":[{"uuid":"m1"}]}`, string(body))
}

func TestListRecordings_OmitsEmptyDateFilters(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("from"))
		assert.False(t, q.Has("to"))
		assert.Equal(t, "100", q.Get("page_size"))
		assert.Equal(t, "tok", q.Get("next_page_token"))
		writeJSON(w, http.StatusOK, map[string]any{"meetings": []any{}})
	}))

	_, err := c.ListRecordings(context.Background(), "AT1", "u42", RecordingsQuery{PageSize: 100, NextPageToken: "tok"})
	require.NoError(t, err)
}

func TestListRecordings_401MatchesUnauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"code": 124, "message": "Access token is expired."})
	}))

	_, err := c.ListRecordings(context.Background(), "AT-old", "u42", RecordingsQuery{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
