package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryClient implementa Client sobre go-cache.
// go-cache no tiene get-and-delete, así que Take se serializa con takeMu.
type MemoryClient struct {
	prefix string
	c      *gocache.Cache
	takeMu sync.Mutex

	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemory crea un cliente de cache en memoria. Las entradas vencidas se purgan cada minuto.
func NewMemory(prefix string) *MemoryClient {
	return &MemoryClient{
		prefix: prefix,
		c:      gocache.New(gocache.NoExpiration, time.Minute),
	}
}

func (m *MemoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(prefixed(m.prefix, key))
	if !ok {
		m.misses.Add(1)
		return "", ErrNotFound
	}
	m.hits.Add(1)
	s, _ := v.(string)
	return s, nil
}

func (m *MemoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(prefixed(m.prefix, key), value, ttl)
	return nil
}

func (m *MemoryClient) Take(_ context.Context, key string) (string, error) {
	k := prefixed(m.prefix, key)

	m.takeMu.Lock()
	defer m.takeMu.Unlock()

	v, ok := m.c.Get(k)
	if !ok {
		m.misses.Add(1)
		return "", ErrNotFound
	}
	m.c.Delete(k)
	m.hits.Add(1)
	s, _ := v.(string)
	return s, nil
}

func (m *MemoryClient) Delete(_ context.Context, key string) error {
	m.takeMu.Lock()
	m.c.Delete(prefixed(m.prefix, key))
	m.takeMu.Unlock()
	return nil
}

func (m *MemoryClient) Ping(context.Context) error { return nil }

func (m *MemoryClient) Close() error {
	m.c.Flush()
	return nil
}

func (m *MemoryClient) Stats(context.Context) (Stats, error) {
	return Stats{
		Driver: "memory",
		Keys:   int64(m.c.ItemCount()),
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
	}, nil
}
