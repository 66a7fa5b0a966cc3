// Package services agrupa los services HTTP del broker.
package services

import (
	"context"

	"github.com/dropDatabas3/zoombroker/internal/domain/repository"
	"github.com/dropDatabas3/zoombroker/internal/http/services/health"
	"github.com/dropDatabas3/zoombroker/internal/http/services/oauth"
	"github.com/dropDatabas3/zoombroker/internal/http/services/recordings"
	"github.com/dropDatabas3/zoombroker/internal/metrics"
	"github.com/dropDatabas3/zoombroker/internal/oauth/zoom"
)

// Deps contiene las dependencias compartidas por todos los services.
type Deps struct {
	States      repository.StateRepository
	Credentials repository.CredentialRepository
	Zoom        *zoom.Client
	Metrics     *metrics.Metrics
	Version     string
	CacheCheck  func(ctx context.Context) error
}

// Services agrupa los services por dominio.
type Services struct {
	OAuth      oauth.Service
	Recordings recordings.Service
	Health     health.Service
}

// New crea todos los services.
func New(d Deps) *Services {
	return &Services{
		OAuth: oauth.NewService(oauth.Deps{
			States:      d.States,
			Credentials: d.Credentials,
			Zoom:        d.Zoom,
			Metrics:     d.Metrics,
		}),
		Recordings: recordings.NewService(recordings.Deps{
			Credentials: d.Credentials,
			Zoom:        d.Zoom,
			Metrics:     d.Metrics,
		}),
		Health: health.NewService(health.Deps{
			Version:    d.Version,
			CacheCheck: d.CacheCheck,
		}),
	}
}
