package rate

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	base := time.Date(2026, 1, 1, 10, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return base }
	ctx := context.Background()

	r1, err := l.Allow(ctx, "1.2.3.4|/oauth/login")
	require.NoError(t, err)
	assert.True(t, r1.Allowed)
	assert.Equal(t, int64(1), r1.Remaining)

	r2, _ := l.Allow(ctx, "1.2.3.4|/oauth/login")
	assert.True(t, r2.Allowed)
	assert.Equal(t, int64(0), r2.Remaining)

	r3, _ := l.Allow(ctx, "1.2.3.4|/oauth/login")
	assert.False(t, r3.Allowed)
	assert.Equal(t, 50*time.Second, r3.RetryAfter)

	// otra key no comparte contador
	other, _ := l.Allow(ctx, "5.6.7.8|/oauth/login")
	assert.True(t, other.Allowed)

	// ventana siguiente
	l.now = func() time.Time { return base.Add(time.Minute) }
	r4, _ := l.Allow(ctx, "1.2.3.4|/oauth/login")
	assert.True(t, r4.Allowed)
	assert.Equal(t, int64(1), r4.CurrentHits)
}

func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := rdb.NewClient(&rdb.Options{Addr: addr})
	defer client.Close()

	l := NewRedisLimiter(client, "rl-test:", 1, time.Minute)
	key := uuid.NewString()

	r1, err := l.Allow(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, r1.Allowed)

	r2, err := l.Allow(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, r2.Allowed)
	assert.Greater(t, r2.RetryAfter, time.Duration(0))
}
