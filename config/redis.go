package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ConnectRedis connects to the credential cache. It returns nil when Redis is
// not configured or unreachable; sessions then live in memory only.
func ConnectRedis(opts RedisOptions, logger *logrus.Logger) *redis.Client {
	if opts.Addr == "" {
		logger.Info("REDIS_ADDR not set, sessions will not survive a restart")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis connection failed, sessions will not survive a restart")
		_ = client.Close()
		return nil
	}

	logger.WithField("addr", opts.Addr).Info("Connected to Redis")
	return client
}
