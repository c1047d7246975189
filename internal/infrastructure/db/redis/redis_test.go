package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestSessionRecordStore_RoundTrip(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewSessionRecordStore(client)
	ctx := context.Background()

	if err := store.Save(ctx, "inst-1", "token-abc", time.Hour); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	token, err := store.Load(ctx, "inst-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if token != "token-abc" {
		t.Fatalf("expected persisted token, got %q", token)
	}

	if ttl := mr.TTL("session:inst-1"); ttl != time.Hour {
		t.Fatalf("expected one hour ttl, got %v", ttl)
	}
}

func TestSessionRecordStore_LoadMissingReturnsEmpty(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewSessionRecordStore(client)

	token, err := store.Load(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token for missing record, got %q", token)
	}
}

func TestSessionRecordStore_Clear(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewSessionRecordStore(client)
	ctx := context.Background()

	if err := store.Save(ctx, "inst-1", "token-abc", time.Hour); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Clear(ctx, "inst-1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if token, _ := store.Load(ctx, "inst-1"); token != "" {
		t.Fatalf("expected cleared record, got %q", token)
	}

	// Clearing twice is a no-op, not an error.
	if err := store.Clear(ctx, "inst-1"); err != nil {
		t.Fatalf("double clear failed: %v", err)
	}
}

func TestAttemptLimiter_BudgetAndReset(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewAttemptLimiter(client, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "jane@x.com")
		if err != nil {
			t.Fatalf("attempt %d failed: %v", i, err)
		}
		if !ok {
			t.Fatalf("attempt %d: expected allowed", i)
		}
	}

	ok, err := limiter.Allow(ctx, "jane@x.com")
	if err != nil {
		t.Fatalf("attempt failed: %v", err)
	}
	if ok {
		t.Fatalf("expected budget exhausted")
	}

	if err := limiter.Reset(ctx, "jane@x.com"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if ok, _ := limiter.Allow(ctx, "jane@x.com"); !ok {
		t.Fatalf("expected allowed after reset")
	}
}

func TestAttemptLimiter_WindowExpires(t *testing.T) {
	client, mr := newTestClient(t)
	limiter := NewAttemptLimiter(client, 1)
	ctx := context.Background()

	if ok, _ := limiter.Allow(ctx, "jane@x.com"); !ok {
		t.Fatalf("expected first attempt allowed")
	}
	if ok, _ := limiter.Allow(ctx, "jane@x.com"); ok {
		t.Fatalf("expected second attempt rejected")
	}

	mr.FastForward(16 * time.Minute)

	if ok, _ := limiter.Allow(ctx, "jane@x.com"); !ok {
		t.Fatalf("expected fresh window after expiry")
	}
}

func TestAttemptLimiter_KeysAreCaseInsensitive(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewAttemptLimiter(client, 1)
	ctx := context.Background()

	if ok, _ := limiter.Allow(ctx, "Jane@X.com"); !ok {
		t.Fatalf("expected first attempt allowed")
	}
	if ok, _ := limiter.Allow(ctx, "jane@x.com"); ok {
		t.Fatalf("expected same counter regardless of case")
	}
}

func TestPreferenceStore_DefaultsToLight(t *testing.T) {
	client, _ := newTestClient(t)
	prefs := NewPreferenceStore(client)

	theme, err := prefs.Theme(context.Background(), "inst-1")
	if err != nil {
		t.Fatalf("theme failed: %v", err)
	}
	if theme != "light" {
		t.Fatalf("expected light default, got %q", theme)
	}
}

func TestPreferenceStore_SetAndGet(t *testing.T) {
	client, _ := newTestClient(t)
	prefs := NewPreferenceStore(client)
	ctx := context.Background()

	if err := prefs.SetTheme(ctx, "inst-1", "dark"); err != nil {
		t.Fatalf("set theme failed: %v", err)
	}
	theme, err := prefs.Theme(ctx, "inst-1")
	if err != nil {
		t.Fatalf("theme failed: %v", err)
	}
	if theme != "dark" {
		t.Fatalf("expected dark, got %q", theme)
	}
}
