// Package controllers agrupa los controllers HTTP. Es el composition root de
// controllers: services.New → controllers.New → router.New.
package controllers

import (
	"github.com/dropDatabas3/zoombroker/internal/http/controllers/health"
	"github.com/dropDatabas3/zoombroker/internal/http/controllers/oauth"
	"github.com/dropDatabas3/zoombroker/internal/http/controllers/recordings"
	"github.com/dropDatabas3/zoombroker/internal/http/services"
)

// Controllers agrupa los controllers por dominio.
type Controllers struct {
	OAuth      *oauth.OAuthController
	Recordings *recordings.RecordingsController
	Health     *health.HealthController
}

// New crea todos los controllers inyectando services.
func New(s *services.Services, popup oauth.PopupConfig) *Controllers {
	return &Controllers{
		OAuth:      oauth.NewOAuthController(s.OAuth, popup),
		Recordings: recordings.NewRecordingsController(s.Recordings),
		Health:     health.NewHealthController(s.Health),
	}
}
