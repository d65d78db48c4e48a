// internal/cache/backing.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss reports that the backing store holds nothing for the key.
var ErrMiss = errors.New("snapshot miss")

// Backing mirrors list snapshots to Redis. It is strictly best effort: a
// nil client turns every operation into a no-op so the cache works the
// same with Redis unconfigured.
type Backing struct {
	rc     *redis.Client
	prefix string
	expire time.Duration
}

func NewBacking(rc *redis.Client, prefix string, expire time.Duration) *Backing {
	return &Backing{rc: rc, prefix: prefix, expire: expire}
}

// GetArray reads a mirrored snapshot into dest.
func (b *Backing) GetArray(ctx context.Context, key string, dest any) error {
	if b.rc == nil {
		return ErrMiss
	}

	result, err := b.rc.Get(ctx, b.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("failed to get snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(result), dest); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return nil
}

// SetArray mirrors a snapshot.
func (b *Backing) SetArray(ctx context.Context, key string, data any) error {
	if b.rc == nil {
		return nil
	}

	bytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := b.rc.Set(ctx, b.prefix+key, bytes, b.expire).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}
	return nil
}

// Delete drops a mirrored snapshot.
func (b *Backing) Delete(ctx context.Context, key string) error {
	if b.rc == nil {
		return nil
	}
	if err := b.rc.Del(ctx, b.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
