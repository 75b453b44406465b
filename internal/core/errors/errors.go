package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidJsonError     = "invalid_json"
	HttpUnknownLevelError    = "unknown_level"
	HttpSessionNotFoundError = "session_not_found"
	HttpFetchInProgressError = "fetch_in_progress"
	HttpStaleResultError     = "stale_result"
	HttpProviderFailureError = "provider_failure"
)

// ErrorResponse is the error response body for API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
