// Package audit registra eventos sensibles (login, cambios de credenciales,
// configuración) como líneas de log estructuradas con event=<nombre>.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/quicknotify/internal/observability/logger"
)

const (
	EventLogin          = "auth.login"
	EventLoginFailed    = "auth.login_failed"
	EventLoginThrottled = "auth.login_throttled"
	EventLogout         = "auth.logout"
	EventPasswordChange = "auth.password_changed"
	EventSMTPUpdate     = "config.smtp_updated"
	EventTemplateDelete = "template.deleted"
)

// Log escribe el evento con el logger del request (request_id incluido).
func Log(ctx context.Context, event string, fields ...zap.Field) {
	l := logger.From(ctx).Named("audit")
	l.Info(event, append([]zap.Field{zap.String("event", event)}, fields...)...)
}
