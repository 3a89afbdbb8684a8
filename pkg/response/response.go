// Package response provides the JSON envelope shared by all API responses.
package response

import (
	"skincheck_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// Response is the standard API response structure.
type Response struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorInfo `json:"error,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// OK returns a successful response.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Response{
		Success:   true,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error returns an error response.
func Error(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(Response{
		Success:   false,
		Error:     &ErrorInfo{Code: code, Message: message},
		RequestID: requestID(c),
	})
}

// FromAppError renders e with its own status.
func FromAppError(c *fiber.Ctx, e *apperr.AppError) error {
	return c.Status(e.Status).JSON(Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    e.Code,
			Message: e.Message,
			Details: e.Details,
		},
		RequestID: requestID(c),
	})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("request_id").(string)
	return id
}
