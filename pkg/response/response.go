package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the single envelope every endpoint answers with. The client
// never has to guess between user/data/result keys.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes the envelope to the client and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes a failure envelope. err carries field-level details when the
// failure came from the validation boundary.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.JSON(status, resp)
	return resp
}
