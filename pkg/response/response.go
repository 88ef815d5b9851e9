package response

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Timestamp  time.Time   `json:"timestamp"`
	StatusCode int         `json:"status_code"`
	Status     string      `json:"status"`
	RequestID  string      `json:"request_id"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       T           `json:"data,omitempty"`
	Meta       interface{} `json:"meta,omitempty"`
	Error      interface{} `json:"error,omitempty"`
}

// StatusName turns a status code into its constant-style name, e.g. 201 -> "CREATED".
func StatusName(code int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	res := APIResponse[T]{
		Timestamp:  time.Now().UTC(),
		StatusCode: status,
		Status:     StatusName(status),
		RequestID:  ctx.GetString("request_id"),
		Success:    true,
		Message:    message,
		Data:       data,
		Meta:       meta,
	}
	ctx.JSON(status, res)
	return res
}

func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	res := APIResponse[T]{
		Timestamp:  time.Now().UTC(),
		StatusCode: status,
		Status:     StatusName(status),
		RequestID:  ctx.GetString("request_id"),
		Success:    false,
		Message:    message,
		Error:      err,
	}
	ctx.AbortWithStatusJSON(status, res)
	return res
}
