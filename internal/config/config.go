package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"env" env:"APP_ENV"`
		Version string `yaml:"version" env:"APP_VERSION"`
	} `yaml:"app"`

	Server struct {
		Addr               string        `yaml:"addr" env:"SERVER_ADDR"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins" env:"SERVER_CORS_ALLOWED_ORIGINS" envSeparator:","`
		// IPs o CIDRs de proxies cuyo X-Forwarded-For se acepta. Vacío = sólo RemoteAddr.
		TrustedProxies     []string      `yaml:"trusted_proxies" env:"SERVER_TRUSTED_PROXIES" envSeparator:","`
		ReadTimeout        time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout       time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`

	// Zoom agrupa todo lo que el proceso sabe del proveedor. Se fija al arrancar.
	Zoom struct {
		ClientID     string        `yaml:"client_id" env:"ZOOM_CLIENT_ID"`
		ClientSecret string        `yaml:"client_secret" env:"ZOOM_CLIENT_SECRET"`
		RedirectURI  string        `yaml:"redirect_uri" env:"ZOOM_REDIRECT_URI"`
		BaseURL      string        `yaml:"base_url" env:"ZOOM_BASE_URL"`
		AuthURL      string        `yaml:"auth_url" env:"ZOOM_AUTH_URL"`
		TokenURL     string        `yaml:"token_url" env:"ZOOM_TOKEN_URL"`
		Scopes       []string      `yaml:"scopes" env:"ZOOM_SCOPES" envSeparator:","`
		HTTPTimeout  time.Duration `yaml:"http_timeout" env:"ZOOM_HTTP_TIMEOUT"`
		PageSize     int           `yaml:"page_size" env:"ZOOM_PAGE_SIZE"`
	} `yaml:"zoom"`

	State struct {
		TTL time.Duration `yaml:"ttl" env:"STATE_TTL"`
	} `yaml:"state"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind" env:"CACHE_KIND"`
		Redis struct {
			Addr     string `yaml:"addr" env:"REDIS_ADDR"`
			Password string `yaml:"password" env:"REDIS_PASSWORD"`
			DB       int    `yaml:"db" env:"REDIS_DB"`
			Prefix   string `yaml:"prefix" env:"REDIS_PREFIX"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Rate struct {
		Enabled bool `yaml:"enabled" env:"RATE_ENABLED"`
		Login   struct {
			Limit  int           `yaml:"limit" env:"RATE_LOGIN_LIMIT"`
			Window time.Duration `yaml:"window" env:"RATE_LOGIN_WINDOW"`
		} `yaml:"login"`
	} `yaml:"rate"`

	Popup struct {
		// Si está activo, /oauth/callback responde HTML que avisa a window.opener.
		Enabled      bool   `yaml:"enabled" env:"POPUP_ENABLED"`
		TargetOrigin string `yaml:"target_origin" env:"POPUP_TARGET_ORIGIN"`
	} `yaml:"popup"`

	Metrics struct {
		Enabled bool `yaml:"enabled" env:"METRICS_ENABLED"`
	} `yaml:"metrics"`
}

// Load lee el YAML (si existe), aplica overrides de entorno y completa defaults.
// Un path vacío o inexistente no es error: todo puede venir por env.
func Load(path string) (*Config, error) {
	var c Config
	c.Metrics.Enabled = true

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := c.applyEnvOverrides(); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

// applyEnvOverrides pisa el YAML con variables de entorno; sólo se tocan las que están seteadas.
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	c.App.Env = strings.ToLower(strings.TrimSpace(c.App.Env))
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Zoom.BaseURL == "" {
		c.Zoom.BaseURL = "https://api.zoom.us/v2"
	}
	c.Zoom.BaseURL = strings.TrimRight(c.Zoom.BaseURL, "/")
	if c.Zoom.AuthURL == "" {
		c.Zoom.AuthURL = "https://zoom.us/oauth/authorize"
	}
	if c.Zoom.TokenURL == "" {
		c.Zoom.TokenURL = "https://zoom.us/oauth/token"
	}
	if len(c.Zoom.Scopes) == 0 {
		c.Zoom.Scopes = []string{"recording:read", "user:read"}
	}
	if c.Zoom.HTTPTimeout <= 0 {
		c.Zoom.HTTPTimeout = 10 * time.Second
	}
	if c.Zoom.PageSize <= 0 {
		c.Zoom.PageSize = 30
	}

	if c.State.TTL <= 0 {
		c.State.TTL = 10 * time.Minute
	}

	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "zoombroker"
	}

	if c.Rate.Login.Limit <= 0 {
		c.Rate.Login.Limit = 20
	}
	if c.Rate.Login.Window <= 0 {
		c.Rate.Login.Window = time.Minute
	}
}

// Validate exige las credenciales del cliente OAuth y URLs absolutas.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Zoom.ClientID) == "" {
		errs = append(errs, errors.New("zoom.client_id is required"))
	}
	if strings.TrimSpace(c.Zoom.ClientSecret) == "" {
		errs = append(errs, errors.New("zoom.client_secret is required"))
	}
	for name, raw := range map[string]string{
		"zoom.redirect_uri": c.Zoom.RedirectURI,
		"zoom.base_url":     c.Zoom.BaseURL,
		"zoom.auth_url":     c.Zoom.AuthURL,
		"zoom.token_url":    c.Zoom.TokenURL,
	} {
		if err := absoluteURL(raw); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			errs = append(errs, errors.New("cache.redis.addr is required when cache.kind=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind %q not supported", c.Cache.Kind))
	}
	// la popup publica el user_id: sólo a un origen explícito
	if c.Popup.Enabled {
		if err := origin(c.Popup.TargetOrigin); err != nil {
			errs = append(errs, fmt.Errorf("popup.target_origin: %w", err))
		}
	}
	return errors.Join(errs...)
}

func origin(raw string) error {
	if strings.TrimSpace(raw) == "*" {
		return errors.New("wildcard not allowed")
	}
	if err := absoluteURL(raw); err != nil {
		return err
	}
	u, _ := url.Parse(raw)
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return errors.New("must be scheme://host[:port]")
	}
	return nil
}

func absoluteURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New("must be an absolute URL")
	}
	return nil
}
