package rest

import (
	"errors"
	"net/http"

	"engagePulse/domain"
	"engagePulse/pkg/logger"
	"engagePulse/pkg/response"

	"github.com/labstack/echo/v4"
)

// identityContextKey is where the identity middleware stores the opaque
// caller identity.
const identityContextKey = "identity"

func callerIdentity(c echo.Context) string {
	if v, ok := c.Get(identityContextKey).(string); ok {
		return v
	}
	return ""
}

// writeServiceError maps the service error taxonomy onto HTTP statuses:
// invalid arguments surface as 400 with their message, everything else
// (storage failures included) as 500 with a generic message.
func writeServiceError(c echo.Context, err error, fallback string) error {
	if errors.Is(err, domain.ErrInvalidArgument) {
		return c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	}

	logger.Error(fallback, err)
	return c.JSON(http.StatusInternalServerError, response.Error(fallback))
}
