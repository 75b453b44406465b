package v1

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	httperr "github.com/aevon-lab/dimboard/internal/core/errors"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgBodyTooLarge   = "Request body exceeds maximum allowed size"
)

// Error carries the structured HTTP error shape from a helper back to the handler.
type Error struct {
	Status  int
	Type    string
	Message string
	Details interface{}
}

func (e *Error) Error() string {
	return e.Message
}

// Write serializes the error as the JSON HTTP response.
func (e *Error) Write(c *gin.Context) {
	c.JSON(e.Status, httperr.ErrorResponse{
		ErrorType: e.Type,
		Message:   e.Message,
		Details:   e.Details,
	})
}

// BindJSON reads at most maxBytes of the request body and decodes it into dst.
// An empty body leaves dst untouched when allowEmpty is set.
func BindJSON(c *gin.Context, maxBytes int64, allowEmpty bool, dst interface{}) *Error {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1))
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return &Error{Status: http.StatusInternalServerError, Type: httperr.HttpInternalError, Message: msgReadBodyFailed}
	}
	if int64(len(body)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(body), "max", maxBytes)
		return &Error{
			Status:  http.StatusRequestEntityTooLarge,
			Type:    httperr.HttpInvalidJsonError,
			Message: msgBodyTooLarge,
			Details: map[string]interface{}{"max_size_kb": maxBytes / 1024},
		}
	}
	if len(bytes.TrimSpace(body)) == 0 && allowEmpty {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(body))
		return &Error{Status: http.StatusBadRequest, Type: httperr.HttpInvalidJsonError, Message: msgInvalidJSON, Details: err.Error()}
	}
	return nil
}
