// Package oauth drives the authorization-code flow: login URL, callback
// (state check, code exchange, identity lookup, credential storage) and the
// per-user credential operations.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dropDatabas3/zoombroker/internal/audit"
	"github.com/dropDatabas3/zoombroker/internal/domain/repository"
	"github.com/dropDatabas3/zoombroker/internal/domain/types"
	dto "github.com/dropDatabas3/zoombroker/internal/http/dto/oauth"
	"github.com/dropDatabas3/zoombroker/internal/http/services/common"
	"github.com/dropDatabas3/zoombroker/internal/metrics"
	"github.com/dropDatabas3/zoombroker/internal/oauth/zoom"
	"github.com/dropDatabas3/zoombroker/internal/observability/logger"
)

// Zoom is the subset of the Zoom client used by the flow.
type Zoom interface {
	AuthorizationURL(state string) string
	SimpleAuthorizationURL() string
	ExchangeCode(ctx context.Context, code string) (types.TokenSet, error)
	FetchIdentity(ctx context.Context, accessToken string) (types.Identity, error)
}

// Service defines the OAuth flow operations.
type Service interface {
	Login(ctx context.Context) (*dto.LoginResponse, error)
	LoginSimple(ctx context.Context) (*dto.LoginResponse, error)
	Callback(ctx context.Context, req dto.CallbackRequest) (*dto.CallbackResult, error)
	User(ctx context.Context, userID string) (*dto.UserResponse, error)
	Logout(ctx context.Context, userID string) (*dto.LogoutResponse, error)
	Status(ctx context.Context) (*dto.StatusResponse, error)
}

// Deps contains dependencies for the oauth service.
type Deps struct {
	States      repository.StateRepository
	Credentials repository.CredentialRepository
	Zoom        Zoom
	Metrics     *metrics.Metrics
}

type service struct {
	states  repository.StateRepository
	creds   repository.CredentialRepository
	zoom    Zoom
	metrics *metrics.Metrics
}

// NewService creates a new oauth Service.
func NewService(deps Deps) Service {
	return &service{
		states:  deps.States,
		creds:   deps.Credentials,
		zoom:    deps.Zoom,
		metrics: deps.Metrics,
	}
}

func (s *service) Login(ctx context.Context) (*dto.LoginResponse, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("oauth"), logger.Op("Login"))

	st, err := s.states.Issue(ctx)
	if err != nil {
		log.Error("state issue failed", logger.Err(err))
		return nil, fmt.Errorf("issue state: %w", err)
	}
	s.metrics.StateIssued()
	log.Debug("state issued", logger.StatePrefix(st))

	return &dto.LoginResponse{
		AuthURL: s.zoom.AuthorizationURL(st),
		Message: "Visit this URL to authorize the application",
	}, nil
}

// LoginSimple builds an authorize URL with neither state nor scope. The
// callback that follows arrives without state and is accepted as degraded.
func (s *service) LoginSimple(ctx context.Context) (*dto.LoginResponse, error) {
	logger.From(ctx).Warn("simple login requested: no CSRF state",
		logger.Layer("service"), logger.Component("oauth"), logger.Op("LoginSimple"))
	return &dto.LoginResponse{
		AuthURL: s.zoom.SimpleAuthorizationURL(),
		Message: "Simple OAuth URL without state or scope",
	}, nil
}

func (s *service) Callback(ctx context.Context, req dto.CallbackRequest) (*dto.CallbackResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("oauth"), logger.Op("Callback"))

	// El state se consume antes que nada: un callback fallido no lo deja reutilizable.
	st := strings.TrimSpace(req.State)
	stateOK := false
	if st != "" {
		ok, err := s.states.Consume(ctx, st)
		if err != nil {
			log.Error("state consume failed", logger.Err(err))
			return nil, fmt.Errorf("consume state: %w", err)
		}
		stateOK = ok
	}

	if e := strings.TrimSpace(req.Error); e != "" {
		msg := e
		if d := strings.TrimSpace(req.ErrorDescription); d != "" {
			msg = e + ": " + d
		}
		log.Warn("provider returned error", logger.String("oauth_error", e))
		return nil, common.InvalidRequest("oauth_error", msg)
	}

	switch {
	case st == "":
		s.metrics.StateConsumed("missing")
		log.Warn("callback without state: CSRF protection degraded")
	case !stateOK:
		s.metrics.StateConsumed("invalid")
		log.Warn("unknown or expired state", logger.StatePrefix(st))
		return nil, common.InvalidRequest("invalid_state", "state not recognized or expired")
	default:
		s.metrics.StateConsumed("ok")
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, common.InvalidRequest("missing_code", "authorization code not received")
	}

	tokens, err := s.zoom.ExchangeCode(ctx, code)
	if err != nil {
		s.metrics.TokenExchange("error")
		log.Warn("code exchange failed", logger.Err(err))
		return nil, upstreamError("token_exchange", err)
	}
	s.metrics.TokenExchange("ok")

	ident, err := s.zoom.FetchIdentity(ctx, tokens.AccessToken)
	if err != nil {
		log.Warn("identity fetch failed", logger.Err(err))
		return nil, upstreamError("identity", err)
	}
	if strings.TrimSpace(ident.ID) == "" {
		return nil, &common.UpstreamError{Op: "identity", Status: http.StatusBadGateway, Body: "identity without user id"}
	}

	if err := s.creds.Put(ident.ID, tokens, ident); err != nil {
		log.Error("credential store failed", logger.Err(err))
		return nil, fmt.Errorf("store credential: %w", err)
	}
	audit.Log(ctx, audit.EventLogin, logger.UserID(ident.ID), logger.Email(ident.Email))

	return &dto.CallbackResult{
		Message:     "Authentication successful",
		UserID:      ident.ID,
		UserEmail:   ident.Email,
		FirstName:   ident.FirstName,
		LastName:    ident.LastName,
		DisplayName: ident.DisplayName,
	}, nil
}

func (s *service) User(ctx context.Context, userID string) (*dto.UserResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, common.InvalidRequest("missing_user_id", "user_id is required")
	}
	rec, ok := s.creds.Get(userID)
	if !ok {
		return nil, common.ErrNotAuthenticated
	}

	info := rec.Identity.Raw
	if len(info) == 0 {
		b, err := json.Marshal(map[string]string{
			"id":           rec.Identity.ID,
			"email":        rec.Identity.Email,
			"first_name":   rec.Identity.FirstName,
			"last_name":    rec.Identity.LastName,
			"display_name": rec.Identity.DisplayName,
		})
		if err != nil {
			return nil, err
		}
		info = b
	}
	return &dto.UserResponse{UserInfo: info, Authenticated: true}, nil
}

func (s *service) Logout(ctx context.Context, userID string) (*dto.LogoutResponse, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, common.InvalidRequest("missing_user_id", "user_id is required")
	}
	if err := s.creds.Delete(userID); err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	audit.Log(ctx, audit.EventLogout, logger.UserID(userID))
	return &dto.LogoutResponse{Message: fmt.Sprintf("User %s logged out successfully", userID)}, nil
}

func (s *service) Status(ctx context.Context) (*dto.StatusResponse, error) {
	ids := s.creds.List()
	if ids == nil {
		ids = []string{}
	}
	return &dto.StatusResponse{AuthenticatedUsers: ids, TotalUsers: len(ids)}, nil
}

func upstreamError(op string, err error) error {
	ue := &common.UpstreamError{Op: op, Err: err}
	if he, ok := zoom.AsHTTPError(err); ok {
		ue.Status = he.Status
		ue.Body = he.Body
	} else if errors.Is(err, zoom.ErrUnauthorized) {
		ue.Status = http.StatusUnauthorized
	}
	return ue
}
