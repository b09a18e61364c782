package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/HSouheill/campspot_console/lifecycle"
	"github.com/HSouheill/campspot_console/models"
	"github.com/HSouheill/campspot_console/services"
	"github.com/HSouheill/campspot_console/utils"
)

const sessionExpiredMessage = "Session expired. Please log in again."

func respond(ctx echo.Context, status int, message string, data interface{}) error {
	return ctx.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// bind decodes and validates the request body into v.
func bind(ctx echo.Context, v interface{}) error {
	if err := ctx.Bind(v); err != nil {
		return &services.ValidationError{Message: "Invalid request body"}
	}
	if err := ctx.Validate(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &services.ValidationError{Message: utils.ValidationMessage(verrs)}
		}
		return &services.ValidationError{Message: err.Error()}
	}
	return nil
}

// fail maps a service error to an HTTP answer. action completes the
// fallback message, e.g. "load listings".
func fail(ctx echo.Context, err error, action string) error {
	status, message := classify(err, action)
	if status >= http.StatusInternalServerError {
		ctx.Logger().Errorf("Failed to %s: %v", action, err)
	}
	return respond(ctx, status, message, nil)
}

func classify(err error, action string) (int, string) {
	var (
		verr *services.ValidationError
		aerr *services.APIError
	)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, sessionExpiredMessage
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, lifecycle.ErrActorNotPermitted):
		return http.StatusForbidden, "You are not allowed to do that"
	case errors.Is(err, services.ErrInvalidID),
		errors.Is(err, lifecycle.ErrNoSpotContext),
		errors.Is(err, lifecycle.ErrNothingToDelete),
		errors.Is(err, lifecycle.ErrNotPending),
		errors.Is(err, lifecycle.ErrRejectionReasonRequired):
		return http.StatusBadRequest, errors.Cause(err).Error()
	case errors.Is(err, services.ErrUnknownListing),
		errors.Is(err, services.ErrUnknownRequest),
		errors.Is(err, services.ErrUnknownSpot):
		return http.StatusNotFound, errors.Cause(err).Error()
	case errors.Is(err, services.ErrTooManyAttempts):
		return http.StatusTooManyRequests, services.ErrTooManyAttempts.Error()
	case errors.Is(err, services.ErrSuperseded):
		return http.StatusConflict, "A newer submission replaced this one"
	case errors.As(err, &aerr):
		switch {
		case aerr.Validation():
			return http.StatusBadRequest, firstNonEmpty(aerr.Message, "Failed to "+action)
		case aerr.Status == http.StatusForbidden || aerr.Status == http.StatusNotFound:
			return aerr.Status, firstNonEmpty(aerr.Message, "Failed to "+action)
		}
	}
	return http.StatusBadGateway, "Failed to " + action
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
