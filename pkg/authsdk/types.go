package authsdk

import "time"

// TokenResponse is returned by the register, login and renew endpoints. The
// session token travels separately as a cookie and never appears here.
type TokenResponse struct {
	// AccessToken is the JWT access token used to authenticate API requests.
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token.
	ExpiresIn int `json:"expires_in"`
}

// ErrorResponse is the JSON shape of every error response.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g. "invalid_credentials").
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error.
	ErrorDescription string `json:"error_description"`
}

// UserInfoResponse is returned by GET /v1/userinfo for the authenticated
// principal.
type UserInfoResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	PreferredName string    `json:"preferred_name,omitempty"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserSummary is one entry of the admin user listing.
type UserSummary struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	PreferredName string `json:"preferred_name,omitempty"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
