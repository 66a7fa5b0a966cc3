// Package health contiene el service para health checks.
package health

import (
	"context"

	dto "github.com/dropDatabas3/zoombroker/internal/http/dto/health"
	"github.com/dropDatabas3/zoombroker/internal/observability/logger"
)

// ServiceName es el nombre que reporta /health.
const ServiceName = "zoom-recordings-api"

// Service define las operaciones de health check.
type Service interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	Version    string
	CacheCheck func(ctx context.Context) error // ping al backend de states
}

type service struct {
	deps Deps
}

func NewService(deps Deps) Service {
	return &service{deps: deps}
}

// Check devuelve "healthy" o "degraded" si el backend de states no responde.
func (s *service) Check(ctx context.Context) dto.HealthResponse {
	resp := dto.HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: s.deps.Version,
	}
	if s.deps.CacheCheck == nil {
		return resp
	}

	resp.Checks = map[string]string{"cache": "ok"}
	if err := s.deps.CacheCheck(ctx); err != nil {
		logger.From(ctx).Warn("cache check failed",
			logger.Layer("service"), logger.Component("health"), logger.Err(err))
		resp.Status = "degraded"
		resp.Checks["cache"] = "error"
	}
	return resp
}
