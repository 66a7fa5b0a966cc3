package logger

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// ─── HTTP ───

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field { return zap.String("method", v) }
func Path(v string) zap.Field { return zap.String("path", v) }
func Route(v string) zap.Field { return zap.String("route", v) }
func Status(v int) zap.Field { return zap.Int("status", v) }
func Bytes(v int) zap.Field { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// DurationMs registra la duración en milisegundos.
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

// ─── Dominio ───

// UserID es el id externo del usuario (id de Zoom), clave del CredentialStore.
func UserID(v string) zap.Field { return zap.String("user_id", v) }

// UpstreamStatus es el status HTTP devuelto por el proveedor.
func UpstreamStatus(v int) zap.Field { return zap.Int("upstream_status", v) }

// Attempt numera los intentos contra el recurso protegido (1 o 2).
func Attempt(v int) zap.Field { return zap.Int("attempt", v) }

// StatePrefix loguea sólo el prefijo de un state CSRF.
func StatePrefix(state string) zap.Field { return zap.String("state_prefix", TokenPrefix(state)) }

// Email loguea el email enmascarado: a…@e….com.
func Email(v string) zap.Field { return zap.String("email", MaskEmail(v)) }

// MaskEmail deja la primera letra del usuario y del dominio.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	at := strings.IndexByte(s, '@')
	if at <= 0 {
		if s == "" {
			return ""
		}
		return "***"
	}
	user, dom := s[:at], s[at+1:]
	if len(user) > 1 {
		user = user[:1] + "…"
	}
	parts := strings.Split(dom, ".")
	if len(parts[0]) > 1 {
		parts[0] = parts[0][:1] + "…"
	}
	return user + "@" + strings.Join(parts, ".")
}

// TokenPrefix recorta un valor sensible a sus primeros 6 caracteres.
func TokenPrefix(v string) string {
	const n = 6
	if len(v) <= n {
		return "***"
	}
	return v[:n] + "…"
}

// ─── Sistema ───

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field { return zap.String("op", v) }
func Layer(v string) zap.Field { return zap.String("layer", v) }
func Err(err error) zap.Field { return zap.Error(err) }

// ─── Genéricos ───

func String(key, v string) zap.Field { return zap.String(key, v) }
func Int(key string, v int) zap.Field { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
