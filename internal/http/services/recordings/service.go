// Package recordings proxies the Zoom recordings list with the stored credential,
// refreshing the access token once when Zoom rejects it.
package recordings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/zoombroker/internal/audit"
	"github.com/dropDatabas3/zoombroker/internal/domain/repository"
	"github.com/dropDatabas3/zoombroker/internal/domain/types"
	"github.com/dropDatabas3/zoombroker/internal/http/services/common"
	"github.com/dropDatabas3/zoombroker/internal/metrics"
	"github.com/dropDatabas3/zoombroker/internal/oauth/zoom"
	"github.com/dropDatabas3/zoombroker/internal/observability/logger"
	"golang.org/x/sync/singleflight"
)

// MaxPageSize is the largest page_size Zoom accepts for recordings.
const MaxPageSize = 300

// refreshTimeout bounds a shared refresh, which runs detached from the caller's context.
const refreshTimeout = 30 * time.Second

// Zoom is the subset of the Zoom client the proxy needs.
type Zoom interface {
	Refresh(ctx context.Context, refreshToken string) (types.TokenSet, error)
	ListRecordings(ctx context.Context, accessToken, userID string, q zoom.RecordingsQuery) (json.RawMessage, error)
}

// Query holds the raw query-string filters of GET /recordings.
type Query struct {
	FromDate      string
	ToDate        string
	PageSize      int // 0 = client default
	NextPageToken string
}

// Service defines the recordings operations.
type Service interface {
	FetchRecordings(ctx context.Context, userID string, q Query) (json.RawMessage, error)
}

// Deps contains dependencies for the recordings service.
type Deps struct {
	Credentials repository.CredentialRepository
	Zoom        Zoom
	Metrics     *metrics.Metrics
}

type service struct {
	creds   repository.CredentialRepository
	zoom    Zoom
	metrics *metrics.Metrics

	// refreshes dedupes concurrent refreshes of the same user.
	refreshes singleflight.Group
}

// NewService creates a new recordings Service.
func NewService(deps Deps) Service {
	return &service{
		creds:   deps.Credentials,
		zoom:    deps.Zoom,
		metrics: deps.Metrics,
	}
}

// FetchRecordings runs Start → FirstAttempt → {Success | AuthFailure → Refreshing →
// {RefreshOK → SecondAttempt | RefreshFailed}}. There is never more than one refresh.
func (s *service) FetchRecordings(ctx context.Context, userID string, q Query) (json.RawMessage, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("recordings"),
		logger.Op("FetchRecordings"),
	)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, common.InvalidRequest("missing_user_id", "user_id is required")
	}
	zq, err := q.normalize()
	if err != nil {
		return nil, err
	}
	log = log.With(logger.UserID(userID))

	rec, ok := s.creds.Get(userID)
	if !ok {
		s.metrics.RecordingsFetch("not_authenticated")
		return nil, common.ErrNotAuthenticated
	}

	page, err := s.zoom.ListRecordings(ctx, rec.Tokens.AccessToken, userID, zq)
	if err == nil {
		s.metrics.RecordingsFetch("ok")
		return page, nil
	}
	if !errors.Is(err, zoom.ErrUnauthorized) {
		log.Warn("recordings fetch failed", logger.Err(err))
		s.metrics.RecordingsFetch("upstream_error")
		return nil, upstreamError(err, false)
	}

	log.Info("access token rejected, refreshing", logger.Attempt(1))
	tokens, err := s.refresh(ctx, userID, rec.Tokens.AccessToken)
	if err != nil {
		log.Warn("token refresh failed", logger.Err(err))
		s.metrics.RecordingsFetch("reauth_required")
		return nil, err
	}

	page, err = s.zoom.ListRecordings(ctx, tokens.AccessToken, userID, zq)
	if err != nil {
		log.Warn("recordings fetch failed after refresh", logger.Attempt(2), logger.Err(err))
		s.metrics.RecordingsFetch("failed_after_refresh")
		return nil, upstreamError(err, true)
	}
	s.metrics.RecordingsFetch("refreshed")
	return page, nil
}

// refresh replaces the stored token pair once per user even when several
// requests hit the 401 at the same time. If the stored access token already
// differs from the rejected one, another request refreshed it and we reuse it.
// The refresh runs detached from ctx: the caller that starts it may go away
// while others are still waiting on the same outcome.
func (s *service) refresh(ctx context.Context, userID, rejected string) (types.TokenSet, error) {
	v, err, shared := s.refreshes.Do(userID, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		rec, ok := s.creds.Get(userID)
		if !ok {
			return nil, common.ErrNotAuthenticated
		}
		if rec.Tokens.AccessToken != rejected {
			s.metrics.TokenRefresh("shared")
			return rec.Tokens, nil
		}

		ts, err := s.zoom.Refresh(rctx, rec.Tokens.RefreshToken)
		if err != nil {
			s.metrics.TokenRefresh("error")
			audit.Log(ctx, audit.EventRefreshFailed, logger.UserID(userID), logger.Err(err))
			return nil, fmt.Errorf("%w: %w", common.ErrReauthenticationRequired, err)
		}
		ts = ts.WithFallbackRefresh(rec.Tokens.RefreshToken)
		if err := s.creds.UpdateTokenSet(userID, ts); err != nil {
			// logout concurrente
			if repository.IsNotFound(err) {
				return nil, common.ErrNotAuthenticated
			}
			return nil, err
		}
		s.metrics.TokenRefresh("ok")
		audit.Log(ctx, audit.EventRefresh, logger.UserID(userID))
		return ts, nil
	})
	if err != nil {
		return types.TokenSet{}, err
	}
	if shared {
		logger.From(ctx).Debug("refresh result shared", logger.UserID(userID))
	}
	return v.(types.TokenSet), nil
}

func upstreamError(err error, afterRefresh bool) error {
	ue := &common.UpstreamError{Op: "recordings", AfterRefresh: afterRefresh, Err: err}
	if he, ok := zoom.AsHTTPError(err); ok {
		ue.Status = he.Status
		ue.Body = he.Body
	}
	return ue
}

func (q Query) normalize() (zoom.RecordingsQuery, error) {
	out := zoom.RecordingsQuery{
		From:          strings.TrimSpace(q.FromDate),
		To:            strings.TrimSpace(q.ToDate),
		PageSize:      q.PageSize,
		NextPageToken: strings.TrimSpace(q.NextPageToken),
	}
	for _, f := range [...]struct{ name, v string }{{"from_date", out.From}, {"to_date", out.To}} {
		if f.v == "" {
			continue
		}
		if _, err := time.Parse(zoom.DateLayout, f.v); err != nil {
			return out, common.InvalidRequest("invalid_date", f.name+" must be YYYY-MM-DD")
		}
	}
	if out.PageSize < 0 || out.PageSize > MaxPageSize {
		return out, common.InvalidRequest("invalid_page_size", fmt.Sprintf("page_size must be between 1 and %d", MaxPageSize))
	}
	return out, nil
}
