// Package oauth contiene los controllers del flujo authorization code.
package oauth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/zoombroker/internal/http/dto/oauth"
	httperrors "github.com/dropDatabas3/zoombroker/internal/http/errors"
	"github.com/dropDatabas3/zoombroker/internal/http/helpers"
	svc "github.com/dropDatabas3/zoombroker/internal/http/services/oauth"
	"github.com/dropDatabas3/zoombroker/internal/observability/logger"
)

// PopupConfig activa la respuesta HTML del callback para flujos en ventana popup.
type PopupConfig struct {
	Enabled      bool
	TargetOrigin string
}

// OAuthController maneja /oauth/*, /user/{user_id}.
type OAuthController struct {
	service svc.Service
	popup   PopupConfig
}

// NewOAuthController crea el controller.
func NewOAuthController(service svc.Service, popup PopupConfig) *OAuthController {
	// sin origen explícito no hay a quién publicar el resultado
	if popup.TargetOrigin == "" {
		popup.Enabled = false
	}
	return &OAuthController{service: service, popup: popup}
}

// Login maneja GET /oauth/login.
func (c *OAuthController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("OAuthController.Login"))

	res, err := c.service.Login(ctx)
	if err != nil {
		log.Error("login failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// LoginSimple maneja GET /oauth/login-simple.
func (c *OAuthController) LoginSimple(w http.ResponseWriter, r *http.Request) {
	res, err := c.service.LoginSimple(r.Context())
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Callback maneja GET /oauth/callback. Nunca deja la popup colgada: éxito y error
// terminan con una respuesta (JSON o HTML que avisa a window.opener).
func (c *OAuthController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("OAuthController.Callback"))

	q := r.URL.Query()
	req := dto.CallbackRequest{
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}

	res, err := c.service.Callback(ctx, req)
	if err != nil {
		appErr := httperrors.FromError(err)
		if appErr.HTTPStatus >= 500 {
			log.Error("callback failed", logger.Err(err))
		} else {
			log.Warn("callback rejected", logger.String("code", appErr.Code), logger.Err(err))
		}
		if c.popup.Enabled {
			c.renderPopup(w, appErr.HTTPStatus, popupMessage{Type: popupMessageType, OK: false, Error: appErr.Code}, appErr.Message)
			return
		}
		httperrors.WriteError(w, appErr)
		return
	}

	if c.popup.Enabled {
		c.renderPopup(w, http.StatusOK, popupMessage{Type: popupMessageType, OK: true, UserID: res.UserID}, "Autenticación completa. Ya puede cerrar esta ventana.")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// User maneja GET /user/{user_id}.
func (c *OAuthController) User(w http.ResponseWriter, r *http.Request) {
	res, err := c.service.User(r.Context(), userIDParam(r))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Logout maneja DELETE /oauth/logout/{user_id}.
func (c *OAuthController) Logout(w http.ResponseWriter, r *http.Request) {
	res, err := c.service.Logout(r.Context(), userIDParam(r))
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Status maneja GET /oauth/status.
func (c *OAuthController) Status(w http.ResponseWriter, r *http.Request) {
	res, err := c.service.Status(r.Context())
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

func userIDParam(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "user_id"))
}
