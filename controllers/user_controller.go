package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/campspot_console/models"
)

// UserAPI is admin user management.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListPendingUsers(ctx context.Context) ([]models.User, error)
	ApproveUser(ctx context.Context, id string) error
	RejectUser(ctx context.Context, id string) error
}

type UserController struct {
	users UserAPI
}

func NewUserController(users UserAPI) *UserController {
	return &UserController{users: users}
}

// ListUsers returns every registered user
func (c *UserController) ListUsers(ctx echo.Context) error {
	users, err := c.users.ListUsers(ctx.Request().Context())
	if err != nil {
		return fail(ctx, err, "load users")
	}
	return respond(ctx, http.StatusOK, "Users retrieved successfully", users)
}

func (c *UserController) DeleteUser(ctx echo.Context) error {
	if err := c.users.DeleteUser(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return fail(ctx, err, "delete the user")
	}
	return respond(ctx, http.StatusOK, "User deleted successfully", nil)
}

// ListPendingUsers returns vendor accounts waiting for approval
func (c *UserController) ListPendingUsers(ctx echo.Context) error {
	users, err := c.users.ListPendingUsers(ctx.Request().Context())
	if err != nil {
		return fail(ctx, err, "load pending users")
	}
	return respond(ctx, http.StatusOK, "Pending users retrieved successfully", users)
}

func (c *UserController) ApproveUser(ctx echo.Context) error {
	if err := c.users.ApproveUser(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return fail(ctx, err, "approve the user")
	}
	return respond(ctx, http.StatusOK, "User approved", nil)
}

func (c *UserController) RejectUser(ctx echo.Context) error {
	if err := c.users.RejectUser(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return fail(ctx, err, "reject the user")
	}
	return respond(ctx, http.StatusOK, "User rejected", nil)
}
