package errors

import (
	"net/http"
	"strings"

	"github.com/lib/pq"
)

// APIError represents a structured error for API responses.
// Includes a code, message, and HTTP status for consistent error handling.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError with the given code, message, and status.
func NewAPIError(code, message string, status int) *APIError {
	return &APIError{Code: code, Message: message, Status: status}
}

// Predefined API errors for common scenarios.
var (
	ErrInvalidBody            = NewAPIError("invalid_body_format", "unable to parse the request body", http.StatusUnprocessableEntity)
	ErrInvalidToken           = NewAPIError("invalid_token", "Invalid token", http.StatusUnauthorized)
	ErrExpiredToken           = NewAPIError("expired_token", "Expired token", http.StatusUnauthorized)
	ErrUserNotFound           = NewAPIError("user_not_exist", "user not found or created", http.StatusBadRequest)
	ErrRadarNotFound          = NewAPIError("radar_not_exist", "the radar you are trying to operate not exist", http.StatusBadRequest)
	ErrRepoNotFound           = NewAPIError("repo_not_exist", "the repository is not tracked", http.StatusBadRequest)
	ErrRadarRepoNotFound      = NewAPIError("radar_repo_not_exist", "the radar doesnt contain the repository", http.StatusBadRequest)
	ErrPickerSessionNotFound  = NewAPIError("picker_session_not_exist", "the editing session expired or doesnt exist", http.StatusNotFound)
	ErrDuplicateRadar         = NewAPIError("duplicate_radar", "Radar already exists", http.StatusConflict)
	ErrDuplicateRadarRepo     = NewAPIError("duplicate_radar_repo", "The repository is already added to the radar", http.StatusBadRequest)
	ErrRadarLimitExceeded     = NewAPIError("radar_limit_exceeded", "you reached the maximum number of radars", http.StatusConflict)
	ErrRadarRepoLimitExceeded = NewAPIError("radar_repo_limit_exceeded", "the radar reached its maximum number of repositories", http.StatusConflict)
	ErrSaveInFlight           = NewAPIError("save_in_flight", "a save is already running for this editing session", http.StatusConflict)
	ErrGithubTokenMissing     = NewAPIError("github_token_missing", "no GitHub token stored for the user, sign in again", http.StatusUnauthorized)
	ErrGithubUpstream         = NewAPIError("github_upstream_error", "GitHub did not answer the request", http.StatusBadGateway)
	ErrRadarNameNotAllowed    = NewAPIError("radar_name_not_allowed", "radar name must be 1-100 characters", http.StatusUnprocessableEntity)
	ErrNotFound               = NewAPIError("not_found", "Resource not found", http.StatusNotFound)
	ErrInternalServer         = NewAPIError("internal_error", "Internal server error", http.StatusInternalServerError)
)

// IsUniqueViolation checks for unique constraint violation (Postgres).
// Used to detect duplicate resource errors from the database.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	// Try to cast to pq.Error and check the code
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505" // unique_violation
	}

	// Fallback to message-based detection (optional)
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "unique constraint")
}

// IsForeignKeyViolation checks for foreign key violation (Postgres).
// Used to detect references to rows that no longer exist.
func IsForeignKeyViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}
	return pqErr.Code == "23503" // foreign_key_violation
}
