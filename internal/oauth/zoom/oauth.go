// Package zoom talks to Zoom's OAuth 2.0 endpoints and to the parts of the
// REST API the broker proxies (current user and cloud recordings).
//
// The authorization code flow is driven by golang.org/x/oauth2 with client
// credentials sent as HTTP Basic auth, which is what Zoom's token endpoint expects.
package zoom

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/dropDatabas3/zoombroker/internal/domain/types"
)

const (
	DefaultAuthURL  = "https://zoom.us/oauth/authorize"
	DefaultTokenURL = "https://zoom.us/oauth/token"
	DefaultBaseURL  = "https://api.zoom.us/v2"

	defaultTimeout  = 10 * time.Second
	defaultPageSize = 30

	maxErrorBody = 4 << 10
	maxBody      = 4 << 20
)

// DefaultScopes is the fixed scope set requested on every authorization.
var DefaultScopes = []string{"recording:read", "user:read"}

// Config holds the static client registration. It is fixed at process start.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	BaseURL      string
	Scopes       []string
	PageSize     int

	// HTTPClient is used for every outbound call. When nil a client with Timeout is built.
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client is the Zoom OAuth client plus the recordings/users API.
// The client secret only lives inside oauth; nothing here exposes it.
type Client struct {
	oauth    *oauth2.Config
	http     *http.Client
	baseURL  string
	authURL  string
	pageSize int
	now      func() time.Time
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, errors.New("zoom: client id and secret are required")
	}
	if strings.TrimSpace(cfg.RedirectURI) == "" {
		return nil, errors.New("zoom: redirect uri is required")
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       append([]string(nil), cfg.Scopes...),
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		http:     hc,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		authURL:  cfg.AuthURL,
		pageSize: cfg.PageSize,
		now:      time.Now,
	}, nil
}

// AuthorizationURL builds the authorize URL:
// response_type=code, client_id, redirect_uri, scope and the given state.
func (c *Client) AuthorizationURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// SimpleAuthorizationURL is the degraded variant without state or scope.
// The callback for it arrives without state and is accepted with a warning.
func (c *Client) SimpleAuthorizationURL() string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.oauth.ClientID)
	q.Set("redirect_uri", c.oauth.RedirectURL)

	sep := "?"
	if strings.Contains(c.authURL, "?") {
		sep = "&"
	}
	return c.authURL + sep + q.Encode()
}

// ExchangeCode trades an authorization code for tokens. Codes are single use,
// so the caller must not retry: a non-200 comes back as *HTTPError{Kind: KindTokenExchange}.
func (c *Client) ExchangeCode(ctx context.Context, code string) (types.TokenSet, error) {
	tok, err := c.oauth.Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		return types.TokenSet{}, c.tokenError(KindTokenExchange, err)
	}
	return c.tokenSet(tok), nil
}

// Refresh trades a refresh token for a new token pair. If Zoom does not
// rotate the refresh token the one passed in is kept.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (types.TokenSet, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return types.TokenSet{}, &HTTPError{Kind: KindTokenRefresh, Status: http.StatusBadRequest, Body: "missing refresh token"}
	}
	src := c.oauth.TokenSource(c.withHTTPClient(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return types.TokenSet{}, c.tokenError(KindTokenRefresh, err)
	}
	return c.tokenSet(tok).WithFallbackRefresh(refreshToken), nil
}

func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.http)
}

func (c *Client) tokenSet(tok *oauth2.Token) types.TokenSet {
	ts := types.TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    tok.ExpiresIn,
		ObtainedAt:   c.now(),
	}
	if ts.ExpiresIn == 0 && !tok.Expiry.IsZero() {
		ts.ExpiresIn = int64(time.Until(tok.Expiry).Round(time.Second) / time.Second)
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		ts.Scope = scope
	}
	return ts
}

// tokenError maps oauth2 errors to *HTTPError. Transport failures are wrapped as-is.
func (c *Client) tokenError(kind Kind, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		return &HTTPError{Kind: kind, Status: status, Body: truncate(re.Body)}
	}
	return fmt.Errorf("zoom: %s: %w", kind, err)
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return strings.TrimSpace(string(b))
}
