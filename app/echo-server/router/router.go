package router

import (
	"engagePulse/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupReactionRoutes(api *echo.Group, handler *rest.ReactionsHandler, identity echo.MiddlewareFunc) {
	reactions := api.Group("/reactions", identity)

	reactions.GET("", handler.GetReactions)
	reactions.POST("", handler.UpdateReaction)
}

func SetupAdAnalyticsRoutes(api *echo.Group, handler *rest.AdAnalyticsHandler, identity echo.MiddlewareFunc) {
	ads := api.Group("/ad-analytics", identity)

	ads.GET("", handler.GetMetrics)
	ads.POST("", handler.RecordEvent)
}
