package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/HSouheill/campspot_console/config"
	"github.com/HSouheill/campspot_console/controllers"
	"github.com/HSouheill/campspot_console/middleware"
	"github.com/HSouheill/campspot_console/models"
	"github.com/HSouheill/campspot_console/routes"
	"github.com/HSouheill/campspot_console/utils"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "campspot-console",
		Short:         "Vendor and admin console for the campspot marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newListingsCmd())
	cmd.AddCommand(newRequestsCmd())
	return cmd
}

// withApp loads configuration, wires the console and restores any persisted
// session before running fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if restored, err := a.auth.Restore(ctx); err != nil {
		logger.WithError(err).Warn("Failed to restore session")
	} else if restored {
		logger.WithField("user_type", a.session.UserType()).Info("Session restored")
	}
	return fn(ctx, a)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the console API and notification socket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, serve)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.hub.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = utils.NewCustomValidator()

	rateLimiter := middleware.NewRateLimiter(a.cfg.RateLimit.RPS, a.cfg.RateLimit.Burst)
	defer rateLimiter.Stop()

	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestLogger(a.logger))
	e.Use(middleware.CORSWithConfig(middleware.NewCORSConfig(a.cfg.CORSOrigins)))
	e.Use(middleware.SecurityHeaders(middleware.SecurityConfig{ConnectSources: []string{a.cfg.APIURL}}))
	e.Use(rateLimiter.RateLimit())

	routes.SetupRoutes(e, a.session, routes.Controllers{
		Auth:       controllers.NewAuthController(a.auth),
		Spots:      controllers.NewSpotController(a.spots),
		Moderation: controllers.NewModerationController(a.spots, a.users),
		Users:      controllers.NewUserController(a.users),
		Bookings:   controllers.NewBookingController(a.bookings),
	}, a.hub, a.cfg.CORSOrigins)

	errc := make(chan error, 1)
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Console listening")
		if err := e.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newLoginCmd() *cobra.Command {
	var req models.LoginRequest
	cmd := &cobra.Command{
		Use:   "login --email <email>",
		Short: "Log in and persist the session for later commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("CAMPSPOT_PASSWORD")
			}
			if err := utils.NewCustomValidator().Validate(req); err != nil {
				return errors.New(utils.ValidationMessage(err))
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				result, err := a.auth.Login(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", result.User.Email, result.UserType)
				if result.AwaitingApproval {
					fmt.Fprintln(cmd.OutOrStdout(), "Your vendor account is awaiting approval")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password (defaults to $CAMPSPOT_PASSWORD)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the persisted session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if !a.auth.Logout(ctx) {
					fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				}
				return nil
			})
		},
	}
}

func newListingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listings",
		Short: "Print the vendor's merged listings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				listings, err := a.spots.RefreshVendorListings(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, listings)
			})
		},
	}
}

func newRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List pending spot requests (admin)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				pending, err := a.spots.RefreshPending(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd, pending)
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "approve <request-id>",
		Short: "Approve a pending spot request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return a.spots.Approve(ctx, args[0])
			})
		},
	})

	var reason string
	reject := &cobra.Command{
		Use:   "reject <request-id> --reason <text>",
		Short: "Reject a pending spot request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(reason) == "" {
				return errors.New("--reason is required")
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return a.spots.Reject(ctx, args[0], reason)
			})
		},
	}
	reject.Flags().StringVar(&reason, "reason", "", "reason shown to the vendor")
	cmd.AddCommand(reject)

	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
