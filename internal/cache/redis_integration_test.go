//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Notes:
// - requires a reachable Redis; set REDIS_URL (e.g. redis://localhost:6379/15)
// - keys are written under a per-test prefix and expire after one minute

func TestRedis_Integration(t *testing.T) {
	rawURL := os.Getenv("REDIS_URL")
	if rawURL == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	r, err := DialRedis(ctx, rawURL, time.Minute)
	if err != nil {
		t.Fatalf("DialRedis() error = %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	r.prefix = DefaultRedisPrefix + t.Name() + ":"

	if _, ok, err := r.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Get(missing) = (_, %v, %v), want clean miss", ok, err)
	}

	if err := SetJSON(ctx, r, "langs", []string{"en", "fr"}); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}
	got, ok := GetJSON[[]string](ctx, r, "langs")
	if !ok || len(got) != 2 || got[1] != "fr" {
		t.Errorf("GetJSON() = (%v, %v)", got, ok)
	}
}

func TestDialRedis_BadURL(t *testing.T) {
	if _, err := DialRedis(context.Background(), "not-a-url", time.Minute); err == nil {
		t.Error("expected error for malformed URL")
	}
}
