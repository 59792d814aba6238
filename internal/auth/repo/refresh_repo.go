package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable wraps any Redis failure other than a missing key.
var ErrStoreUnavailable = errors.New("refresh token store unavailable")

const keyPrefix = "refresh_token:"

// RefreshRepo keeps the single current refresh token per user in Redis.
// Entries expire by TTL; there is no other cleanup.
type RefreshRepo struct {
	rdb redis.UniversalClient
}

func NewRefreshRepo(rdb redis.UniversalClient) *RefreshRepo {
	return &RefreshRepo{rdb: rdb}
}

func key(userID string) string { return keyPrefix + userID }

// Put overwrites whatever token the user had. Last writer wins.
func (r *RefreshRepo) Put(ctx context.Context, userID, token string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, key(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Get returns the current token, or "" when none is stored or it expired.
func (r *RefreshRepo) Get(ctx context.Context, userID string) (string, error) {
	v, err := r.rdb.Get(ctx, key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return v, nil
}

// Delete removes the entry. Missing entries are not an error.
func (r *RefreshRepo) Delete(ctx context.Context, userID string) error {
	if err := r.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}
