package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint for SCAN sweeps.
const scanBatch = 200

// Redis is a cache backed by a Redis server. All backend errors degrade
// to a miss (Get) or a failure flag (Set/Delete/DeleteMatching); they are
// logged but never returned to callers.
type Redis struct {
	rdb *redis.Client
}

// NewRedis creates a Redis-backed cache. The connection is lazy; use Ping
// to verify reachability at startup.
func NewRedis(addr, password string, db int) *Redis {
	return &Redis{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping verifies connectivity to the Redis server.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// Close releases the client's connection pool.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

// Get retrieves a value. Any backend error is treated as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.LogAttrs(ctx, slog.LevelWarn, "cache get failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}
	return val, true
}

// Set stores a value with per-entry TTL.
func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := r.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "cache set failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// Delete removes a value. Deleting a missing key succeeds.
func (r *Redis) Delete(ctx context.Context, key string) bool {
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "cache delete failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// DeleteMatching removes every key matching the glob pattern using SCAN,
// avoiding the blocking KEYS command.
func (r *Redis) DeleteMatching(ctx context.Context, pattern string) bool {
	iter := r.rdb.Scan(ctx, 0, pattern, scanBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= scanBatch {
			if !r.deleteBatch(ctx, keys) {
				return false
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "cache scan failed",
			slog.String("pattern", pattern),
			slog.String("error", err.Error()),
		)
		return false
	}
	if len(keys) > 0 {
		return r.deleteBatch(ctx, keys)
	}
	return true
}

func (r *Redis) deleteBatch(ctx context.Context, keys []string) bool {
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "cache bulk delete failed",
			slog.Int("keys", len(keys)),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

// Purge removes all values. marketd owns its Redis logical database, so a
// full sweep of it is safe.
func (r *Redis) Purge(ctx context.Context) {
	r.DeleteMatching(ctx, "*")
}
