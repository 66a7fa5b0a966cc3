// Package cache provee el backend clave/valor con TTL donde viven los states CSRF.
//
// Soporta:
//   - memory (go-cache, in-process; default)
//   - redis (para compartir states entre réplicas detrás de un balanceador)
//
// La operación central es Take: lectura + borrado atómicos, que es lo que da
// semántica de un solo uso a los states.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor sin consumirlo. ErrNotFound si no existe o expiró.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor. ttl == 0 significa sin expiración.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Take obtiene y elimina el valor en una sola operación atómica.
	// Dos Take concurrentes sobre la misma key: a lo sumo uno ve el valor.
	Take(ctx context.Context, key string) (string, error)

	// Delete elimina una key; borrar una key ausente no es error.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
	Close() error
	Stats(ctx context.Context) (Stats, error)
}

// Stats contiene estadísticas del cache.
type Stats struct {
	Driver string
	Keys   int64
	Hits   int64
	Misses int64
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// ErrNotFound indica que la key no existe o expiró.
var ErrNotFound = errors.New("cache: key not found")

// IsNotFound verifica si el error es porque la key no existe.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// New crea un cliente de cache según la configuración.
func New(ctx context.Context, cfg Config) (Client, error) {
	switch cfg.Driver {
	case "memory", "":
		return NewMemory(cfg.Prefix), nil
	case "redis":
		return NewRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("cache: driver %q not supported", cfg.Driver)
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
