package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/campspot_console/models"
	"github.com/HSouheill/campspot_console/services"
)

// QueueAPI loads the combined admin moderation screen.
type QueueAPI interface {
	LoadModerationQueue(ctx context.Context) (*services.ModerationQueue, error)
}

// ModerationController handles the admin spot request queue
type ModerationController struct {
	spots SpotAPI
	queue QueueAPI
}

func NewModerationController(spots SpotAPI, queue QueueAPI) *ModerationController {
	return &ModerationController{spots: spots, queue: queue}
}

// ListRequests returns the pending spot requests
func (c *ModerationController) ListRequests(ctx echo.Context) error {
	pending, err := c.spots.RefreshPending(ctx.Request().Context())
	if err != nil {
		return fail(ctx, err, "load spot requests")
	}
	return respond(ctx, http.StatusOK, "Spot requests retrieved successfully", pending)
}

func (c *ModerationController) Approve(ctx echo.Context) error {
	if err := c.spots.Approve(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return fail(ctx, err, "approve the request")
	}
	return respond(ctx, http.StatusOK, "Request approved", nil)
}

// Reject declines a request; the body must carry a reason
func (c *ModerationController) Reject(ctx echo.Context) error {
	var req models.RejectRequest
	if err := ctx.Bind(&req); err != nil {
		return respond(ctx, http.StatusBadRequest, "Invalid request body", nil)
	}
	if err := c.spots.Reject(ctx.Request().Context(), ctx.Param("id"), req.Reason); err != nil {
		return fail(ctx, err, "reject the request")
	}
	return respond(ctx, http.StatusOK, "Request rejected", nil)
}

// Queue loads pending users and spot requests together. A half that failed
// is reported in its error field.
func (c *ModerationController) Queue(ctx echo.Context) error {
	q, err := c.queue.LoadModerationQueue(ctx.Request().Context())
	if err != nil {
		return fail(ctx, err, "load the moderation queue")
	}
	return respond(ctx, http.StatusOK, "Moderation queue retrieved successfully", q)
}
