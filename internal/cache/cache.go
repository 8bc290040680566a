// Package cache provides the TTL caches handed to the content fetchers.
// Values are stored JSON-encoded so the in-memory and Redis backends are
// interchangeable.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
)

// Cache stores encoded values for a fixed TTL chosen at construction.
type Cache interface {
	// Get returns the value stored under key. ok is false on a miss or
	// an expired entry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// GetJSON decodes the value under key into a T. Backend and decode
// errors count as misses.
func GetJSON[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var v T
	if c == nil {
		return v, false
	}
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false
	}
	return v, true
}

// SetJSON encodes v and stores it under key. A nil cache is a no-op.
func SetJSON(ctx context.Context, c Cache, key string, v any) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: encoding %q: %w", key, err)
	}
	return c.Set(ctx, key, raw)
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }

var (
	_ Cache = Nop{}
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
)
