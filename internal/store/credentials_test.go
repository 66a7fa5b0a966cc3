package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/zoombroker/internal/domain/repository"
	"github.com/dropDatabas3/zoombroker/internal/domain/types"
)

func TestCredentialStore_PutGet(t *testing.T) {
	s := NewCredentialStore()

	_, ok := s.Get("u42")
	assert.False(t, ok)

	ts := types.TokenSet{AccessToken: "AT1", RefreshToken: "RT1", ExpiresIn: 3600}
	id := types.Identity{ID: "u42", Email: "a@b.com", Raw: []byte(`{"id":"u42"}`)}
	require.NoError(t, s.Put("u42", ts, id))

	rec, ok := s.Get("u42")
	require.True(t, ok)
	assert.Equal(t, "AT1", rec.Tokens.AccessToken)
	assert.Equal(t, "RT1", rec.Tokens.RefreshToken)
	assert.Equal(t, "a@b.com", rec.Identity.Email)
}

func TestCredentialStore_PutReplacesWholeRecord(t *testing.T) {
	s := NewCredentialStore()
	require.NoError(t, s.Put("u1", types.TokenSet{AccessToken: "A", RefreshToken: "R"}, types.Identity{ID: "u1", Email: "old@x"}))
	require.NoError(t, s.Put("u1", types.TokenSet{AccessToken: "B"}, types.Identity{ID: "u1"}))

	rec, ok := s.Get("u1")
	require.True(t, ok)
	assert.Equal(t, "B", rec.Tokens.AccessToken)
	assert.Empty(t, rec.Tokens.RefreshToken)
	assert.Empty(t, rec.Identity.Email)
}

func TestCredentialStore_UpdateTokenSet(t *testing.T) {
	s := NewCredentialStore()

	err := s.UpdateTokenSet("ghost", types.TokenSet{AccessToken: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.Put("u1", types.TokenSet{AccessToken: "A"}, types.Identity{ID: "u1", Email: "e"}))
	require.NoError(t, s.UpdateTokenSet("u1", types.TokenSet{AccessToken: "A2", RefreshToken: "R2"}))

	rec, _ := s.Get("u1")
	assert.Equal(t, "A2", rec.Tokens.AccessToken)
	assert.Equal(t, "e", rec.Identity.Email, "identity must survive a token update")
}

func TestCredentialStore_DeleteIsNotIdempotent(t *testing.T) {
	s := NewCredentialStore()
	require.NoError(t, s.Put("u1", types.TokenSet{}, types.Identity{ID: "u1"}))

	require.NoError(t, s.Delete("u1"))
	_, ok := s.Get("u1")
	assert.False(t, ok)

	assert.ErrorIs(t, s.Delete("u1"), repository.ErrNotFound)
}

func TestCredentialStore_GetReturnsCopy(t *testing.T) {
	s := NewCredentialStore()
	require.NoError(t, s.Put("u1", types.TokenSet{}, types.Identity{ID: "u1", Raw: []byte(`{"a":1}`)}))

	rec, _ := s.Get("u1")
	rec.Identity.Raw[0] = 'X'

	again, _ := s.Get("u1")
	assert.Equal(t, `{"a":1}`, string(again.Identity.Raw))
}

func TestCredentialStore_ListSorted(t *testing.T) {
	s := NewCredentialStore()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.Put(id, types.TokenSet{}, types.Identity{ID: id}))
	}
	assert.Equal(t, []string{"a", "b", "c"}, s.List())
	assert.Equal(t, 3, s.Len())
}

func TestCredentialStore_ConcurrentAccess(t *testing.T) {
	s := NewCredentialStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("u%d", i%5)
			_ = s.Put(id, types.TokenSet{AccessToken: id}, types.Identity{ID: id})
			_ = s.UpdateTokenSet(id, types.TokenSet{AccessToken: id + "-2"})
			_, _ = s.Get(id)
			_ = s.List()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, s.Len())
}
