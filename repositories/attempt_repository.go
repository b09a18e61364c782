package repositories

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// AttemptRepository counts verification attempts per key in Redis within a
// fixed window.
type AttemptRepository struct {
	client *redis.Client
	max    int64
	window time.Duration
}

func NewAttemptRepository(client *redis.Client, max int64, window time.Duration) *AttemptRepository {
	return &AttemptRepository{client: client, max: max, window: window}
}

func (r *AttemptRepository) key(name string) string {
	return "campspot:attempts:" + name
}

// Allow records one attempt for name and reports whether it is still within
// the limit.
func (r *AttemptRepository) Allow(ctx context.Context, name string) (bool, error) {
	key := r.key(name)
	attempts, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, errors.Wrap(err, "count attempt")
	}

	// Set expiry if first attempt
	if attempts == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return false, errors.Wrap(err, "expire attempts")
		}
	}

	return attempts <= r.max, nil
}

// Reset forgets the attempts for name, e.g. after a successful verification.
func (r *AttemptRepository) Reset(ctx context.Context, name string) error {
	return errors.Wrap(r.client.Del(ctx, r.key(name)).Err(), "reset attempts")
}
