package rest

import (
	"context"
	"net/http"
	"time"

	"engagePulse/domain"
	"engagePulse/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type AdAnalyticsService interface {
	RecordEvent(ctx context.Context, slotID string, kind domain.AdEventKind, trackingID string, metadata datatypes.JSONMap) (*domain.AdMetricsSnapshot, error)
	GetMetrics(ctx context.Context, slotID string) (*domain.AdMetricsSnapshot, error)
}

type AdAnalyticsHandler struct {
	adService AdAnalyticsService
	validator *validator.Validate
	timeout   time.Duration
}

func NewAdAnalyticsHandler(adService AdAnalyticsService) *AdAnalyticsHandler {
	return &AdAnalyticsHandler{
		adService: adService,
		validator: validator.New(),
		timeout:   10 * time.Second,
	}
}

type RecordAdEventRequest struct {
	AdID       string         `json:"adId" validate:"required"`
	TrackingID string         `json:"trackingId"`
	Event      string         `json:"event" validate:"required,oneof=impression click view close"`
	Metadata   map[string]any `json:"metadata"`
}

// GET /api/v1/ad-analytics?adId=sidebar-top
func (h *AdAnalyticsHandler) GetMetrics(c echo.Context) error {
	adID := c.QueryParam("adId")
	if adID == "" {
		return c.JSON(http.StatusBadRequest, response.Error("adId is required"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	snap, err := h.adService.GetMetrics(ctx, adID)
	if err != nil {
		return writeServiceError(c, err, "Failed to get ad metrics")
	}

	return c.JSON(http.StatusOK, response.OK(snap))
}

// POST /api/v1/ad-analytics {"adId":"sidebar-top","trackingId":"t-1","event":"click","metadata":{...}}
func (h *AdAnalyticsHandler) RecordEvent(c echo.Context) error {
	var req RecordAdEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	snap, err := h.adService.RecordEvent(ctx, req.AdID, domain.AdEventKind(req.Event), req.TrackingID, datatypes.JSONMap(req.Metadata))
	if err != nil {
		return writeServiceError(c, err, "Failed to record ad event")
	}

	return c.JSON(http.StatusOK, response.OK(snap))
}
