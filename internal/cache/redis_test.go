package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requiere un Redis real: REDIS_ADDR=localhost:6379 go test ./internal/cache/...
func TestRedis_TakeIsSingleUse(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR no seteado")
	}
	ctx := context.Background()

	c, err := NewRedis(ctx, Config{Addr: addr, Prefix: "zoombroker-test"})
	require.NoError(t, err)
	defer c.Close()

	key := "state:" + uuid.NewString()
	require.NoError(t, c.Set(ctx, key, "1", time.Minute))

	v, err := c.Take(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	_, err = c.Take(ctx, key)
	assert.True(t, IsNotFound(err))
}
