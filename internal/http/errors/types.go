package errors

import (
	"fmt"
	"net/http"
)

// AppError define la estructura estándar de errores HTTP del broker.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // usado para el header, no se serializa
	Err        error  `json:"-"` // causa original, sólo para logs
}

// Error implementa la interfaz error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original
func (e *AppError) Unwrap() error {
	return e.Err
}

// New crea un nuevo AppError
func New(status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// WithDetail devuelve una COPIA con detalle (no muta las variables del catálogo).
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause devuelve una COPIA con la causa.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// WithStatus devuelve una COPIA con otro status HTTP (errores upstream propagan el del proveedor).
func (e *AppError) WithStatus(status int) *AppError {
	newErr := *e
	newErr.HTTPStatus = status
	return &newErr
}

// =================================================================================
// CATÁLOGO
// =================================================================================

// 400
var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "La solicitud contiene sintaxis inválida o parámetros faltantes.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidParameter = &AppError{
		Code:       "INVALID_PARAMETER",
		Message:    "Uno de los parámetros de la URL o Query String es inválido.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrMissingCode = &AppError{
		Code:       "MISSING_CODE",
		Message:    "No se recibió el código de autorización.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidState = &AppError{
		Code:       "INVALID_STATE",
		Message:    "El state no es válido o expiró. Inicie el login nuevamente.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrOAuthProvider = &AppError{
		Code:       "OAUTH_ERROR",
		Message:    "El proveedor rechazó la autorización.",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrTokenExchangeFailed = &AppError{
		Code:       "TOKEN_EXCHANGE_FAILED",
		Message:    "No se pudo intercambiar el código de autorización.",
		HTTPStatus: http.StatusBadRequest,
	}
)

// 401
var (
	ErrNotAuthenticated = &AppError{
		Code:       "NOT_AUTHENTICATED",
		Message:    "Usuario no autenticado. Inicie el login en /oauth/login.",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrReauthenticationRequired = &AppError{
		Code:       "REAUTHENTICATION_REQUIRED",
		Message:    "La sesión con Zoom expiró y no pudo renovarse. Inicie el login nuevamente.",
		HTTPStatus: http.StatusUnauthorized,
	}
)

// 404 / 405
var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "El recurso solicitado no fue encontrado.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrUserNotFound = &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "El usuario especificado no tiene credenciales.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrRouteNotFound = &AppError{
		Code:       "ROUTE_NOT_FOUND",
		Message:    "La ruta solicitada no existe.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "El método HTTP no está permitido para este recurso.",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
)

// 429
var (
	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Demasiadas solicitudes. Intente más tarde.",
		HTTPStatus: http.StatusTooManyRequests,
	}
)

// 5xx / upstream
var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    "Ocurrió un error interno inesperado.",
		HTTPStatus: http.StatusInternalServerError,
	}

	// ErrUpstream propaga status y body del proveedor.
	ErrUpstream = &AppError{
		Code:       "UPSTREAM_ERROR",
		Message:    "Zoom respondió con un error.",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrUpstreamAfterRefresh = &AppError{
		Code:       "UPSTREAM_ERROR_AFTER_REFRESH",
		Message:    "Zoom respondió con un error luego de renovar el token.",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrUpstreamUnauthorizedAfterRefresh = &AppError{
		Code:       "UPSTREAM_UNAUTHORIZED_AFTER_REFRESH",
		Message:    "Zoom rechazó el token recién renovado.",
		HTTPStatus: http.StatusBadGateway,
	}

	ErrUpstreamUnavailable = &AppError{
		Code:       "UPSTREAM_UNAVAILABLE",
		Message:    "No se pudo contactar a Zoom.",
		HTTPStatus: http.StatusBadGateway,
	}
)
