package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ChampneyBull/dubai-app/internal/model"
	"github.com/ChampneyBull/dubai-app/internal/services/session"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidPIN        = "INVALID_PIN"
	CodePlayerNotFound    = "PLAYER_NOT_FOUND"
	CodePlayerUnclaimed   = "PLAYER_UNCLAIMED"
	CodeProfileClaimed    = "PROFILE_CLAIMED"
	CodeRequestNotFound   = "REQUEST_NOT_FOUND"
	CodeInvalidAmount     = "INVALID_AMOUNT"
	CodeNoWinnerSelected  = "NO_WINNER_SELECTED"
	CodeStaleState        = "STALE_STATE"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrRequestNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRequestNotFound, "Winnings request not found"}}
	case errors.Is(err, model.ErrPlayerUnclaimed):
		return &httpError{http.StatusConflict, APIError{CodePlayerUnclaimed, "Player has no login credentials"}}
	case errors.Is(err, model.ErrProfileClaimed):
		return &httpError{http.StatusConflict, APIError{CodeProfileClaimed, "Profile is already claimed"}}
	case errors.Is(err, model.ErrInvalidPIN):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidPIN, "Invalid PIN"}}
	case errors.Is(err, model.ErrInvalidAmount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAmount, "Amount must be positive"}}
	case errors.Is(err, model.ErrNoWinnerSelected):
		return &httpError{http.StatusBadRequest, APIError{CodeNoWinnerSelected, "Select a winner first"}}
	case errors.Is(err, model.ErrStaleState):
		return &httpError{http.StatusConflict, APIError{CodeStaleState, "Request state has already changed"}}
	case errors.Is(err, model.ErrNotAdmin):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "Administrator access required"}}

	// Map session errors
	case errors.Is(err, session.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
