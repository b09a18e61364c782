package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/HSouheill/campspot_console/session"
	"github.com/HSouheill/campspot_console/utils"
)

const sessionKeyPrefix = "campspot:session:"

// SessionRepository keeps the console's credentials in Redis, encrypted, so a
// restart does not force a new login.
type SessionRepository struct {
	client *redis.Client
	cipher *utils.CredentialsCipher
	key    string
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, cipher *utils.CredentialsCipher, name string, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		client: client,
		cipher: cipher,
		key:    sessionKeyPrefix + name,
		ttl:    ttl,
	}
}

func (r *SessionRepository) Save(ctx context.Context, creds session.Credentials) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := json.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, "marshal credentials")
	}
	sealed, err := r.cipher.Seal(data)
	if err != nil {
		return err
	}

	ttl := r.ttl
	if !creds.ExpiresAt.IsZero() {
		if untilExpiry := time.Until(creds.ExpiresAt); untilExpiry > 0 && (ttl == 0 || untilExpiry < ttl) {
			ttl = untilExpiry
		}
	}

	if err := r.client.Set(ctx, r.key, sealed, ttl).Err(); err != nil {
		return errors.Wrap(err, "store credentials in redis")
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context) (*session.Credentials, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sealed, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read credentials from redis")
	}

	data, err := r.cipher.Open(sealed)
	if err != nil {
		// unreadable data, most likely an encryption key rotation
		r.client.Del(ctx, r.key)
		return nil, nil
	}

	var creds session.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, errors.Wrap(err, "unmarshal credentials")
	}
	return &creds, nil
}

func (r *SessionRepository) Delete(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return errors.Wrap(err, "remove credentials from redis")
	}
	return nil
}
