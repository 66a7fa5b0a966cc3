package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dropDatabas3/zoombroker/internal/http/services/common"
)

// errorResponse controla exactamente qué campos se envían al cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe la respuesta JSON de err (AppError, error de servicio o genérico).
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}

// FromError traduce la taxonomía de servicios a AppError.
// Lo que no reconoce queda como 500 conservando la causa.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var re *common.RequestError
	if stderrors.As(err, &re) {
		return requestError(re).WithCause(err)
	}
	if ue, ok := common.AsUpstream(err); ok {
		return upstreamError(ue).WithCause(err)
	}

	switch {
	case stderrors.Is(err, common.ErrReauthenticationRequired):
		return ErrReauthenticationRequired.WithCause(err)
	case stderrors.Is(err, common.ErrNotAuthenticated):
		return ErrNotAuthenticated.WithCause(err)
	case stderrors.Is(err, common.ErrNotFound):
		return ErrUserNotFound.WithCause(err)
	case stderrors.Is(err, common.ErrInvalidRequest):
		return ErrBadRequest.WithCause(err)
	}
	return ErrInternalServerError.WithCause(err)
}

func requestError(re *common.RequestError) *AppError {
	var base *AppError
	switch re.Reason {
	case "invalid_state":
		base = ErrInvalidState
	case "missing_code":
		base = ErrMissingCode
	case "oauth_error":
		base = ErrOAuthProvider
	case "invalid_date", "invalid_page_size", "missing_user_id":
		base = ErrInvalidParameter
	default:
		base = ErrBadRequest
	}
	return base.WithDetail(re.Message)
}

// upstreamError propaga el status y el body de Zoom. Un segundo 401 tras un
// refresh exitoso se reporta como 502 para distinguirlo del primer rechazo.
func upstreamError(ue *common.UpstreamError) *AppError {
	switch {
	case ue.Op == "token_exchange" && ue.Status != 0:
		return ErrTokenExchangeFailed.WithDetail(ue.Body)
	case ue.Status == 0:
		return ErrUpstreamUnavailable
	case ue.AfterRefresh && ue.Status == http.StatusUnauthorized:
		return ErrUpstreamUnauthorizedAfterRefresh.WithDetail(ue.Body)
	case ue.AfterRefresh:
		return ErrUpstreamAfterRefresh.WithStatus(passthrough(ue.Status)).WithDetail(ue.Body)
	default:
		return ErrUpstream.WithStatus(passthrough(ue.Status)).WithDetail(ue.Body)
	}
}

// passthrough sólo reenvía status de error; cualquier otro se reporta como 502.
func passthrough(status int) int {
	if status < 400 || status > 599 {
		return http.StatusBadGateway
	}
	return status
}
