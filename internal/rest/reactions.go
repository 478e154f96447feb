package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"engagePulse/domain"
	"engagePulse/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ReactionsService interface {
	GetReactions(ctx context.Context, itemID int64, identity string) (*domain.ReactionSnapshot, error)
	UpdateReaction(ctx context.Context, itemID int64, identity string, kind domain.ReactionKind) (*domain.ReactionSnapshot, error)
}

type ReactionsHandler struct {
	reactionsService ReactionsService
	validator        *validator.Validate
	timeout          time.Duration
}

func NewReactionsHandler(reactionsService ReactionsService) *ReactionsHandler {
	return &ReactionsHandler{
		reactionsService: reactionsService,
		validator:        validator.New(),
		timeout:          10 * time.Second,
	}
}

type UpdateReactionRequest struct {
	PostID   int64  `json:"postId" validate:"required,gt=0"`
	Reaction string `json:"reaction" validate:"required,oneof=like love insightful helpful celebrate"`
}

// GET /api/v1/reactions?postId=42
func (h *ReactionsHandler) GetReactions(c echo.Context) error {
	postID, err := strconv.ParseInt(c.QueryParam("postId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("postId must be an integer"))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	snap, err := h.reactionsService.GetReactions(ctx, postID, callerIdentity(c))
	if err != nil {
		return writeServiceError(c, err, "Failed to get reactions")
	}

	return c.JSON(http.StatusOK, response.OK(snap))
}

// POST /api/v1/reactions {"postId":42,"reaction":"like"}
func (h *ReactionsHandler) UpdateReaction(c echo.Context) error {
	var req UpdateReactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	snap, err := h.reactionsService.UpdateReaction(ctx, req.PostID, callerIdentity(c), domain.ReactionKind(req.Reaction))
	if err != nil {
		return writeServiceError(c, err, "Failed to update reaction")
	}

	return c.JSON(http.StatusOK, response.OK(snap))
}
