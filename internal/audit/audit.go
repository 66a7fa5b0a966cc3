// Package audit registra los eventos del ciclo de vida de las credenciales.
// Por ahora el sink es el logger (named "audit"); nunca incluye tokens.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/zoombroker/internal/observability/logger"
)

const (
	EventLogin         = "credential.login"
	EventLogout        = "credential.logout"
	EventRefresh       = "credential.refresh"
	EventRefreshFailed = "credential.refresh_failed"
)

// Log escribe un evento estructurado con el logger del contexto.
func Log(ctx context.Context, event string, fields ...zap.Field) {
	fields = append(fields,
		zap.String("event", event),
		zap.Time("ts", time.Now().UTC()),
	)
	logger.From(ctx).Named("audit").Info(event, fields...)
}
