package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/campspot_console/lifecycle"
	"github.com/HSouheill/campspot_console/models"
)

// SpotAPI is the spot lifecycle workflow.
type SpotAPI interface {
	ListSpots(ctx context.Context) ([]models.Spot, error)
	RefreshVendorListings(ctx context.Context) ([]models.Listing, error)
	RefreshPending(ctx context.Context) ([]models.SpotRequest, error)
	Submit(ctx context.Context, id string, details models.SpotDetails) (lifecycle.Operation, error)
	Delete(ctx context.Context, id string) (lifecycle.Operation, error)
	Approve(ctx context.Context, requestID string) error
	Reject(ctx context.Context, requestID, reason string) error
}

// SpotController serves the catalogue, the vendor's listings and the admin
// spot management screen.
type SpotController struct {
	spots SpotAPI
}

func NewSpotController(spots SpotAPI) *SpotController {
	return &SpotController{spots: spots}
}

// OperationResult tells the UI which backend call a submit or delete made.
type OperationResult struct {
	Operation  string `json:"operation"`
	TargetID   string `json:"targetId,omitempty"`
	UpdateType string `json:"updateType,omitempty"`
	Moderated  bool   `json:"moderated"`
}

func operationResult(op lifecycle.Operation) OperationResult {
	return OperationResult{
		Operation:  op.Kind.String(),
		TargetID:   op.TargetID,
		UpdateType: string(op.UpdateType),
		Moderated:  op.Moderated(),
	}
}

func submitMessage(op lifecycle.Operation) string {
	if op.Moderated() {
		return "Spot request submitted for review"
	}
	return "Spot updated successfully"
}

func deleteMessage(op lifecycle.Operation) string {
	switch op.Kind {
	case lifecycle.OpDeletePendingRequest:
		return "Spot request withdrawn"
	case lifecycle.OpCreateDeleteRequest:
		return "Deletion request submitted for review"
	}
	return "Spot deleted successfully"
}

// ListSpots returns the public catalogue
func (c *SpotController) ListSpots(ctx echo.Context) error {
	spots, err := c.spots.ListSpots(ctx.Request().Context())
	if err != nil {
		return fail(ctx, err, "load camping spots")
	}
	return respond(ctx, http.StatusOK, "Camping spots retrieved successfully", spots)
}

// ListListings returns the vendor's approved spots merged with their requests
func (c *SpotController) ListListings(ctx echo.Context) error {
	listings, err := c.spots.RefreshVendorListings(ctx.Request().Context())
	if err != nil {
		return fail(ctx, err, "load your listings")
	}
	return respond(ctx, http.StatusOK, "Listings retrieved successfully", listings)
}

// CreateListing submits the form for a brand-new listing
func (c *SpotController) CreateListing(ctx echo.Context) error {
	return c.submit(ctx, "")
}

// UpdateListing submits the form for the listing whose requestId is given
func (c *SpotController) UpdateListing(ctx echo.Context) error {
	return c.submit(ctx, ctx.Param("requestId"))
}

func (c *SpotController) DeleteListing(ctx echo.Context) error {
	return c.remove(ctx, ctx.Param("requestId"))
}

// UpdateSpot edits a live spot directly (admin)
func (c *SpotController) UpdateSpot(ctx echo.Context) error {
	return c.submit(ctx, ctx.Param("id"))
}

// DeleteSpot deletes a live spot directly (admin)
func (c *SpotController) DeleteSpot(ctx echo.Context) error {
	return c.remove(ctx, ctx.Param("id"))
}

func (c *SpotController) submit(ctx echo.Context, id string) error {
	var details models.SpotDetails
	if err := ctx.Bind(&details); err != nil {
		return respond(ctx, http.StatusBadRequest, "Invalid request body", nil)
	}

	op, err := c.spots.Submit(ctx.Request().Context(), id, details)
	if err != nil {
		return fail(ctx, err, "submit the spot")
	}

	status := http.StatusOK
	if op.Kind == lifecycle.OpCreateRequest || op.Kind == lifecycle.OpCreateUpdateRequest {
		status = http.StatusCreated
	}
	return respond(ctx, status, submitMessage(op), operationResult(op))
}

func (c *SpotController) remove(ctx echo.Context, id string) error {
	op, err := c.spots.Delete(ctx.Request().Context(), id)
	if err != nil {
		return fail(ctx, err, "delete the spot")
	}
	return respond(ctx, http.StatusOK, deleteMessage(op), operationResult(op))
}
