package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

// Error codes shared between server and clients.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidSession     = "invalid_session"
	ErrorCodeUsernameTaken      = "username_taken"
	ErrorCodeServerError        = "server_error"
)

// APIError represents a doorman error response. It implements the error
// interface and can be used both by the server (to write HTTP responses)
// and by clients (to represent decoded errors).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// Predefined errors returned by the service.
var (
	// ErrInvalidRequest is returned when the request body is malformed or
	// missing required fields.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials is returned when the username/password pair does
	// not match. Deliberately does not say which half was wrong.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid credentials",
	}

	// ErrInvalidSession is returned for any session token failure on renew:
	// missing cookie, bad signature, expiry, or detected reuse. The caller
	// should log in again; the distinction only matters to the server logs.
	ErrInvalidSession = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidSession,
		Description: "please log in again",
	}

	// ErrUsernameTaken is returned when registering an identity that exists.
	ErrUsernameTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeUsernameTaken,
		Description: "username is already taken",
	}

	// ErrServerError is returned for unexpected internal failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
