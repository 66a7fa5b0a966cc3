package oauth

import "encoding/json"

// LoginResponse is the response of GET /oauth/login and /oauth/login-simple.
type LoginResponse struct {
	AuthURL string `json:"auth_url"`
	Message string `json:"message"`
}

// CallbackRequest contains the query parameters Zoom sends to /oauth/callback.
type CallbackRequest struct {
	Code             string `json:"code"`
	State            string `json:"state"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// CallbackResult is returned after a successful code exchange.
// Tokens never leave the broker.
type CallbackResult struct {
	Message     string `json:"message"`
	UserID      string `json:"user_id"`
	UserEmail   string `json:"user_email,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// UserResponse is the response of GET /user/{user_id}.
type UserResponse struct {
	UserInfo      json.RawMessage `json:"user_info"`
	Authenticated bool            `json:"authenticated"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}

// StatusResponse lists the users with a stored credential.
type StatusResponse struct {
	AuthenticatedUsers []string `json:"authenticated_users"`
	TotalUsers         int      `json:"total_users"`
}
