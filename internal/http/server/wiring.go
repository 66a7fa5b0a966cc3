// Package server arma el handler HTTP completo a partir de la configuración.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/zoombroker/internal/cache"
	"github.com/dropDatabas3/zoombroker/internal/config"
	"github.com/dropDatabas3/zoombroker/internal/http/controllers"
	oauthctrl "github.com/dropDatabas3/zoombroker/internal/http/controllers/oauth"
	mw "github.com/dropDatabas3/zoombroker/internal/http/middlewares"
	"github.com/dropDatabas3/zoombroker/internal/http/router"
	"github.com/dropDatabas3/zoombroker/internal/http/services"
	"github.com/dropDatabas3/zoombroker/internal/metrics"
	"github.com/dropDatabas3/zoombroker/internal/oauth/zoom"
	"github.com/dropDatabas3/zoombroker/internal/observability/logger"
	"github.com/dropDatabas3/zoombroker/internal/rate"
	"github.com/dropDatabas3/zoombroker/internal/security/state"
	"github.com/dropDatabas3/zoombroker/internal/store"
)

// Options permite inyectar dependencias externas (tests).
type Options struct {
	// Registry de prometheus; nil crea uno propio.
	Registry *prometheus.Registry
	// HTTPClient para hablar con Zoom; nil usa uno con cfg.Zoom.HTTPTimeout.
	HTTPClient *http.Client
}

// BuildHandler instancia cache, stores, cliente de Zoom, métricas y rate limiting,
// y devuelve el handler listo para servir junto con su cleanup.
func BuildHandler(ctx context.Context, cfg *config.Config, opts Options) (http.Handler, func() error, error) {
	log := logger.From(ctx).With(logger.Component("server.wiring"))

	c, err := cache.New(ctx, cache.Config{
		Driver:   cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init cache: %w", err)
	}
	cleanup := c.Close

	states := state.New(c, cfg.State.TTL)
	creds := store.NewCredentialStore()

	zc, err := zoom.New(zoom.Config{
		ClientID:     cfg.Zoom.ClientID,
		ClientSecret: cfg.Zoom.ClientSecret,
		RedirectURI:  cfg.Zoom.RedirectURI,
		AuthURL:      cfg.Zoom.AuthURL,
		TokenURL:     cfg.Zoom.TokenURL,
		BaseURL:      cfg.Zoom.BaseURL,
		Scopes:       cfg.Zoom.Scopes,
		PageSize:     cfg.Zoom.PageSize,
		HTTPClient:   opts.HTTPClient,
		Timeout:      cfg.Zoom.HTTPTimeout,
	})
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("init zoom client: %w", err)
	}

	var (
		m  *metrics.Metrics
		mh http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := opts.Registry
		if reg == nil {
			reg = prometheus.NewRegistry()
		}
		if m, err = metrics.New(reg); err != nil {
			_ = cleanup()
			return nil, nil, fmt.Errorf("init metrics: %w", err)
		}
		if err := m.RegisterCredentialsGauge(creds.Len); err != nil {
			_ = cleanup()
			return nil, nil, fmt.Errorf("init metrics: %w", err)
		}
		mh = metrics.Handler(reg)
	}

	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		if rc, ok := c.(*cache.RedisClient); ok {
			limiter = rate.NewRedisLimiter(rc.Raw(), cfg.Cache.Redis.Prefix+":rl:", cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		} else {
			limiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		}
	}

	proxies, err := mw.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("init server: %w", err)
	}

	svcs := services.New(services.Deps{
		States:      states,
		Credentials: creds,
		Zoom:        zc,
		Metrics:     m,
		Version:     cfg.App.Version,
		CacheCheck:  c.Ping,
	})
	ctrls := controllers.New(svcs, oauthctrl.PopupConfig{
		Enabled:      cfg.Popup.Enabled,
		TargetOrigin: cfg.Popup.TargetOrigin,
	})

	h := router.New(router.Deps{
		Controllers:    ctrls,
		Metrics:        m,
		MetricsHandler: mh,
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
		TrustedProxies: proxies,
		LoginLimiter:   limiter,
	})

	log.Info("handler ready",
		logger.String("cache", cfg.Cache.Kind),
		logger.Bool("rate_limit", limiter != nil),
		logger.Bool("metrics", m != nil),
		logger.Bool("popup", cfg.Popup.Enabled),
	)
	return h, cleanup, nil
}
