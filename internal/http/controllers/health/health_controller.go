// Package health contiene el controller para health checks y la raíz del API.
package health

import (
	"net/http"

	dto "github.com/dropDatabas3/zoombroker/internal/http/dto/health"
	"github.com/dropDatabas3/zoombroker/internal/http/helpers"
	svc "github.com/dropDatabas3/zoombroker/internal/http/services/health"
	"github.com/dropDatabas3/zoombroker/internal/observability/logger"
)

// HealthController maneja GET /health y GET /.
type HealthController struct {
	service svc.Service
}

func NewHealthController(service svc.Service) *HealthController {
	return &HealthController{service: service}
}

func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res := c.service.Check(ctx)

	status := http.StatusOK
	if res.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	if res.Version != "" {
		w.Header().Set("X-Service-Version", res.Version)
	}
	logger.From(ctx).Debug("health check completed",
		logger.Layer("controller"), logger.String("status", res.Status))
	helpers.WriteJSON(w, status, res)
}

func (c *HealthController) Root(w http.ResponseWriter, _ *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, dto.RootResponse{
		Message:            "Zoom Recordings API",
		AuthEndpoint:       "/oauth/login",
		RecordingsEndpoint: "/recordings?user_id={user_id}",
	})
}
