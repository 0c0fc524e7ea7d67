package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// payloadVersion prefixes every stored payload. Bumping it orphans old
// entries, which decode as misses and get refetched.
const payloadVersion = 1

var errPayloadVersion = errors.New("cache: unknown payload version")

// encodePayload serializes v as a versioned msgpack blob.
func encodePayload(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	buf := make([]byte, 1, len(data)+1)
	buf[0] = payloadVersion
	return append(buf, data...), nil
}

// decodePayload deserializes a versioned msgpack blob into T.
func decodePayload[T any](data []byte) (T, error) {
	var v T
	if len(data) == 0 || data[0] != payloadVersion {
		return v, errPayloadVersion
	}
	if err := msgpack.Unmarshal(data[1:], &v); err != nil {
		return v, fmt.Errorf("decode payload: %w", err)
	}
	return v, nil
}

// ReadThrough returns the value cached under key, or calls fetch, caches
// the result for ttl, and returns it. The bool result reports whether the
// value was served from cache. A fetch error propagates untouched and
// nothing is cached. Undecodable entries (payload version skew, corrupt
// data) are dropped and refetched.
func ReadThrough[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, bool, error) {
	if raw, ok := c.Get(ctx, key); ok {
		v, err := decodePayload[T](raw)
		if err == nil {
			return v, true, nil
		}
		c.Delete(ctx, key)
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	if raw, err := encodePayload(v); err == nil {
		c.Set(ctx, key, raw, ttl)
	} else {
		// Unencodable values are served uncached.
		slog.LogAttrs(ctx, slog.LevelWarn, "cache encode failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return v, false, nil
}

// InvalidateAfter executes write and, only when it succeeds, removes every
// cache entry matching any of the patterns. A write failure propagates
// untouched and no invalidation occurs. Invalidation runs strictly after
// the write commits: a reader observing the write never sees stale cached
// data, but one racing ahead of the commit may still see the old value.
func InvalidateAfter(ctx context.Context, c Cache, patterns []string, write func(context.Context) error) error {
	if err := write(ctx); err != nil {
		return err
	}
	for _, p := range patterns {
		c.DeleteMatching(ctx, p)
	}
	return nil
}

// InvalidateAfterValue is InvalidateAfter for writes that return the
// written record.
func InvalidateAfterValue[T any](ctx context.Context, c Cache, patterns []string, write func(context.Context) (T, error)) (T, error) {
	v, err := write(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	for _, p := range patterns {
		c.DeleteMatching(ctx, p)
	}
	return v, nil
}
