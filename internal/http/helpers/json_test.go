package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/recordings?page_size=50&bad=x", nil)

	n, ok := QueryInt(r, "page_size")
	assert.True(t, ok)
	assert.Equal(t, 50, n)

	n, ok = QueryInt(r, "missing")
	assert.True(t, ok)
	assert.Zero(t, n)

	_, ok = QueryInt(r, "bad")
	assert.False(t, ok)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"a": "b"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"a":"b"}`, rec.Body.String())
}
