package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the redis client used for the mail queue and password-reset
// tokens.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

const resetPrefix = "pwreset:"

// SaveResetToken stores a password-reset token against an email for ttl.
func (r *Redis) SaveResetToken(ctx context.Context, token, email string, ttl time.Duration) error {
	return r.Client.Set(ctx, resetPrefix+token, email, ttl).Err()
}

// ConsumeResetToken returns the email bound to a reset token and burns it.
// An expired or unknown token yields redis.Nil.
func (r *Redis) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	email, err := r.Client.GetDel(ctx, resetPrefix+token).Result()
	if err != nil {
		return "", err
	}
	return email, nil
}
