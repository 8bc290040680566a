package cache

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// ---------------------------------------------------------------------------
// TestMemory - TTL expiry and isolation
// ---------------------------------------------------------------------------

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(10*time.Minute, WithClock(clock.Now))

	if _, ok, _ := m.Get(ctx, "courses"); ok {
		t.Fatal("empty cache reported a hit")
	}

	value := []byte(`["btc101"]`)
	if err := m.Set(ctx, "courses", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value[0] = 'X'

	got, ok, err := m.Get(ctx, "courses")
	if err != nil || !ok {
		t.Fatalf("Get() = (_, %v, %v), want hit", ok, err)
	}
	if string(got) != `["btc101"]` {
		t.Errorf("Get() = %q, stored value should not alias the caller's slice", got)
	}

	clock.Advance(9 * time.Minute)
	if _, ok, _ := m.Get(ctx, "courses"); !ok {
		t.Error("entry expired before its TTL")
	}

	clock.Advance(time.Minute)
	if _, ok, _ := m.Get(ctx, "courses"); ok {
		t.Error("entry still served at its TTL")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, expired entry should be dropped on read", m.Len())
	}
}

func TestMemory_ZeroTTLStoresNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(0)
	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Error("zero TTL cache reported a hit")
	}
}

func TestMemory_ConcurrentUse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%5))
			_ = m.Set(ctx, key, []byte{byte(i)})
			_, _, _ = m.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	if m.Len() != 5 {
		t.Errorf("Len() = %d, want 5", m.Len())
	}
}

// ---------------------------------------------------------------------------
// TestJSONHelpers - Typed access over encoded values
// ---------------------------------------------------------------------------

type courseList struct {
	Codes []string `json:"codes"`
}

func TestJSONHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(time.Minute)

	want := courseList{Codes: []string{"btc101", "eco102"}}
	if err := SetJSON(ctx, m, "list", want); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	got, ok := GetJSON[courseList](ctx, m, "list")
	if !ok {
		t.Fatal("GetJSON() miss after SetJSON")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetJSON() = %+v, want %+v", got, want)
	}

	if _, ok := GetJSON[courseList](ctx, m, "absent"); ok {
		t.Error("GetJSON() hit on absent key")
	}
}

func TestJSONHelpers_CorruptValueIsMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory(time.Minute)
	_ = m.Set(ctx, "bad", []byte("{not json"))

	if _, ok := GetJSON[courseList](ctx, m, "bad"); ok {
		t.Error("corrupt value should be a miss")
	}
}

func TestJSONHelpers_NilCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if err := SetJSON(ctx, nil, "k", 1); err != nil {
		t.Errorf("SetJSON(nil) error = %v", err)
	}
	if _, ok := GetJSON[int](ctx, nil, "k"); ok {
		t.Error("GetJSON(nil) reported a hit")
	}
}

func TestJSONHelpers_EncodeError(t *testing.T) {
	t.Parallel()

	err := SetJSON(context.Background(), NewMemory(time.Minute), "k", make(chan int))
	if err == nil {
		t.Fatal("expected encoding error for a channel")
	}
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("backend down")
}
func (failingCache) Set(context.Context, string, []byte) error { return errors.New("backend down") }

func TestJSONHelpers_BackendErrorIsMiss(t *testing.T) {
	t.Parallel()

	if _, ok := GetJSON[int](context.Background(), failingCache{}, "k"); ok {
		t.Error("backend error should be a miss")
	}
}

func TestNop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var c Cache = Nop{}
	_ = c.Set(ctx, "k", []byte("v"))
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Nop.Get() = (_, %v, %v)", ok, err)
	}
}
