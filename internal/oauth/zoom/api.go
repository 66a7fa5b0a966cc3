package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dropDatabas3/zoombroker/internal/domain/types"
)

// DateLayout is the format Zoom accepts for the from/to recording filters.
const DateLayout = "2006-01-02"

// RecordingsQuery are the optional filters for the recordings list.
type RecordingsQuery struct {
	From          string // YYYY-MM-DD
	To            string // YYYY-MM-DD
	PageSize      int    // 0 uses the client default
	NextPageToken string
}

type userInfo struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
}

// FetchIdentity loads GET /users/me. A 401 matches ErrUnauthorized; any other
// non-200 is an *HTTPError{Kind: KindUpstream}.
func (c *Client) FetchIdentity(ctx context.Context, accessToken string) (types.Identity, error) {
	body, err := c.get(ctx, accessToken, c.baseURL+"/users/me", nil)
	if err != nil {
		return types.Identity{}, err
	}

	var ui userInfo
	if err := json.Unmarshal(body, &ui); err != nil {
		return types.Identity{}, fmt.Errorf("zoom: decode user: %w", err)
	}
	if strings.TrimSpace(ui.ID) == "" {
		return types.Identity{}, errors.New("zoom: user response has no id")
	}
	return types.Identity{
		ID:          ui.ID,
		Email:       ui.Email,
		FirstName:   ui.FirstName,
		LastName:    ui.LastName,
		DisplayName: ui.DisplayName,
		Raw:         json.RawMessage(body),
	}, nil
}

// ListRecordings loads GET /users/{userID}/recordings and returns the JSON body untouched.
func (c *Client) ListRecordings(ctx context.Context, accessToken, userID string, q RecordingsQuery) (json.RawMessage, error) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = c.pageSize
	}
	params := url.Values{}
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("next_page_token", q.NextPageToken)
	if q.From != "" {
		params.Set("from", q.From)
	}
	if q.To != "" {
		params.Set("to", q.To)
	}

	endpoint := c.baseURL + "/users/" + url.PathEscape(userID) + "/recordings"
	body, err := c.get(ctx, accessToken, endpoint, params)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, errors.New("zoom: recordings response is not valid JSON")
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, accessToken, endpoint string, params url.Values) ([]byte, error) {
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("zoom: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zoom: request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("zoom: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Kind: KindUpstream, Status: resp.StatusCode, Body: truncate(body)}
	}
	return bytes.TrimSpace(body), nil
}
