package main

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/HSouheill/campspot_console/config"
	"github.com/HSouheill/campspot_console/repositories"
	"github.com/HSouheill/campspot_console/services"
	"github.com/HSouheill/campspot_console/session"
	"github.com/HSouheill/campspot_console/store"
	"github.com/HSouheill/campspot_console/utils"
	"github.com/HSouheill/campspot_console/websocket"
)

// app is the wired console: one session, one store and the services that
// share them.
type app struct {
	cfg     *config.Config
	logger  *logrus.Logger
	redis   *redis.Client
	session *session.Session
	store   *store.Store
	hub     *websocket.Hub

	auth     *services.AuthService
	spots    *services.SpotService
	users    *services.UserService
	bookings *services.BookingService
}

func newApp(cfg *config.Config, logger *logrus.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, store: store.New(), hub: websocket.NewHub(logger)}

	var credentials session.Store = session.NewMemoryStore()
	a.redis = config.ConnectRedis(cfg.Redis, logger)
	if a.redis != nil {
		cipher, err := utils.NewCredentialsCipher(cfg.SessionEncryptionKey)
		if err != nil {
			_ = a.redis.Close()
			return nil, errors.Wrap(err, "session cipher")
		}
		credentials = repositories.NewSessionRepository(a.redis, cipher, cfg.SessionName, cfg.SessionTTL)
	}

	a.session = session.New(credentials, logger)
	a.session.OnClear(func(reason session.Reason) {
		a.store.Reset()
		if reason == session.ReasonExpired {
			a.hub.Publish(websocket.NotificationTypeSessionExpired, nil)
		}
	})

	client := services.NewMarketplaceClient(services.ClientConfig{
		BaseURL: cfg.APIURL,
		Timeout: cfg.APITimeout,
		Debug:   cfg.DebugHTTP,
	}, a.session, logger)

	a.auth = services.NewAuthService(client, a.session, logger)
	if a.redis != nil {
		a.auth.LimitAttempts(repositories.NewAttemptRepository(a.redis, cfg.MaxCodeAttempts, time.Hour))
	}
	a.spots = services.NewSpotService(client, a.session, a.store, a.hub, logger)
	a.users = services.NewUserService(client, a.spots, a.store, logger)
	a.bookings = services.NewBookingService(client, a.store, logger)
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close Redis")
		}
	}
}
