// Package preference provides a Redis-backed store for the chart selection.
package preference

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"cryptovision/internal/feature/chart/usecase"
)

// PreferenceRedis implements usecase.PreferenceStore using Redis.
// Values never expire.
type PreferenceRedis struct {
	client *redis.Client
	prefix string
}

var _ usecase.PreferenceStore = (*PreferenceRedis)(nil)

// NewPreferenceRedis creates a new PreferenceRedis instance.
// If prefix is empty, it uses "pref".
func NewPreferenceRedis(client *redis.Client, prefix string) *PreferenceRedis {
	if prefix == "" {
		prefix = "pref"
	}
	return &PreferenceRedis{
		client: client,
		prefix: prefix,
	}
}

// key returns the Redis key for a preference.
func (r *PreferenceRedis) key(name string) string {
	return fmt.Sprintf("%s:%s", r.prefix, name)
}

// Get retrieves a preference by key.
func (r *PreferenceRedis) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", usecase.ErrPreferenceNotFound
		}
		return "", err
	}
	return v, nil
}

// Set stores a preference without expiry.
func (r *PreferenceRedis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}
