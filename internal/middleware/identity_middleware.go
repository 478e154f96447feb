package middleware

import (
	"net/http"
	"time"

	"engagePulse/pkg/config"
	"engagePulse/pkg/logger"
	"engagePulse/pkg/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// IdentityMiddleware guarantees every request carries an opaque caller
// identity. A valid signed cookie is reused; anything else gets a freshly
// minted identity and a new cookie. The identity is never authenticated,
// it only keys the caller's reaction record.
func IdentityMiddleware(cfg config.IdentityConfig) echo.MiddlewareFunc {
	ttl := time.Duration(cfg.CookieTTLHours) * time.Hour

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(cfg.CookieName); err == nil {
				if id, parseErr := utils.ParseIdentity(cookie.Value, cfg.SecretKey); parseErr == nil {
					c.Set("identity", id)
					return next(c)
				}
			}

			id := uuid.NewString()
			signed, err := utils.SignIdentity(id, cfg.SecretKey, ttl)
			if err != nil {
				logger.Error("Failed to sign identity cookie", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "identity unavailable")
			}

			c.SetCookie(&http.Cookie{
				Name:     cfg.CookieName,
				Value:    signed,
				Path:     "/",
				Expires:  time.Now().Add(ttl),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set("identity", id)

			return next(c)
		}
	}
}
