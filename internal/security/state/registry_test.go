package state

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/zoombroker/internal/cache"
)

func TestRegistry_ConsumeExactlyOnce(t *testing.T) {
	ctx := context.Background()
	r := New(cache.NewMemory("test"), time.Minute)

	s, err := r.Issue(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, s)

	ok, err := r.Consume(ctx, s)
	require.NoError(t, err)
	assert.True(t, ok)

	for i := 0; i < 3; i++ {
		ok, err = r.Consume(ctx, s)
		require.NoError(t, err)
		assert.False(t, ok, "consumed state must not validate again")
	}
}

func TestRegistry_UnknownAndEmpty(t *testing.T) {
	ctx := context.Background()
	r := New(cache.NewMemory(""), time.Minute)

	ok, err := r.Consume(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.Consume(ctx, "   ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistry_IssuedStatesAreUnique(t *testing.T) {
	ctx := context.Background()
	r := New(cache.NewMemory(""), time.Minute)

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		s, err := r.Issue(ctx)
		require.NoError(t, err)
		_, dup := seen[s]
		require.False(t, dup)
		seen[s] = struct{}{}
		// 32 bytes en base64url sin padding
		assert.Len(t, s, 43)
	}
}

func TestRegistry_ExpiredStateIsRejected(t *testing.T) {
	ctx := context.Background()
	r := New(cache.NewMemory(""), 20*time.Millisecond)

	s, err := r.Issue(ctx)
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)

	ok, err := r.Consume(ctx, s)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistry_ConcurrentConsume(t *testing.T) {
	ctx := context.Background()
	r := New(cache.NewMemory(""), time.Minute)
	s, err := r.Issue(ctx)
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := r.Consume(ctx, s); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}
