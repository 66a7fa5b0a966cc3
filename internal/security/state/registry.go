// Package state implementa el registro de states CSRF del flujo authorization code.
package state

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/zoombroker/internal/cache"
	"github.com/dropDatabas3/zoombroker/internal/domain/repository"
	tokens "github.com/dropDatabas3/zoombroker/internal/security/token"
)

const (
	keyPrefix = "oauth:state:"

	// 32 bytes => 256 bits de entropía.
	stateBytes = 32

	DefaultTTL = 10 * time.Minute
)

// Registry guarda los states pendientes en un cache.Client con TTL.
// El consumo usa Take, así que un state valida una única vez aunque haya requests concurrentes.
type Registry struct {
	cache cache.Client
	ttl   time.Duration
}

var _ repository.StateRepository = (*Registry)(nil)

// New crea un Registry. ttl <= 0 usa DefaultTTL.
func New(c cache.Client, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{cache: c, ttl: ttl}
}

// Issue genera un state aleatorio y lo registra como pendiente.
func (r *Registry) Issue(ctx context.Context) (string, error) {
	s, err := tokens.GenerateOpaqueToken(stateBytes)
	if err != nil {
		return "", fmt.Errorf("state: generate: %w", err)
	}
	if err := r.cache.Set(ctx, keyPrefix+s, "1", r.ttl); err != nil {
		return "", fmt.Errorf("state: store: %w", err)
	}
	return s, nil
}

// Consume elimina el state y devuelve true si estaba pendiente.
// El borrado es incondicional: lo que pase después con el exchange no lo resucita.
func (r *Registry) Consume(ctx context.Context, s string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	if _, err := r.cache.Take(ctx, keyPrefix+s); err != nil {
		if cache.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("state: consume: %w", err)
	}
	return true, nil
}
