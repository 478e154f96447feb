package middleware

import (
	"net/http"

	"engagePulse/pkg/logger"
	"engagePulse/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler converts anything that escapes a handler into the uniform
// response envelope. Nothing is allowed to crash the serving process.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", "path", c.Path(), "error", err)
	}

	if writeErr := c.JSON(status, response.Error(message)); writeErr != nil {
		logger.Error("Failed to write error response", writeErr)
	}
}
