package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse is the envelope every endpoint responds with. Data carries the
// endpoint-specific payload and is omitted when empty.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success sends a successful response in the shared envelope. A zero status
// defaults to 200.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error sends an error response in the shared envelope. A zero status
// defaults to 500.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, APIResponse{
		Status:  "error",
		Message: message,
	})
}
