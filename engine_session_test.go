package goOTP

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goOTP/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func newRegistryEngine(t *testing.T, clock Clock, rdb redis.UniversalClient) *Engine {
	t.Helper()
	engine, err := New().WithClock(clock).WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func TestIssueSessionWithoutRegistry(t *testing.T) {
	clock := newFakeClock()
	engine := newTestEngine(t, clock, "")
	ctx := context.Background()

	s, err := engine.IssueSession(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}
	if s.ID == "" || s.Identifier != "a@x.com" || !s.StartTime.Equal(clock.Now()) {
		t.Fatalf("unexpected session %+v", s)
	}

	if _, err := engine.LookupSession(ctx, s.ID); !errors.Is(err, ErrSessionRegistryDisabled) {
		t.Fatalf("expected ErrSessionRegistryDisabled, got %v", err)
	}

	clock.Advance(83 * time.Second)
	if got := session.FormatElapsed(engine.SessionElapsed(s)); got != "01:23" {
		t.Fatalf("expected 01:23, got %s", got)
	}
	d, err := engine.EndSession(ctx, s)
	if err != nil || d != 83*time.Second {
		t.Fatalf("expected 83s, got %v %v", d, err)
	}
}

func TestIssueSessionRejectsEmptyIdentifier(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "")
	if _, err := engine.IssueSession(context.Background(), ""); !errors.Is(err, ErrIdentifierRequired) {
		t.Fatalf("expected ErrIdentifierRequired, got %v", err)
	}
}

func TestSessionLeavesOTPStateAlone(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "121212")
	ctx := context.Background()

	if _, err := engine.Generate(ctx, "a@x.com"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := engine.IssueSession(ctx, "a@x.com"); err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}
	if _, ok := engine.Inspect("a@x.com"); !ok {
		t.Fatal("issuing a session must not consume the pending code")
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	_, rdb := newTestRedis(t)
	clock := newFakeClock()
	engine := newRegistryEngine(t, clock, rdb)
	ctx := context.Background()

	s, err := engine.IssueSession(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	got, err := engine.LookupSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("LookupSession failed: %v", err)
	}
	if got.ID != s.ID || got.Identifier != "a@x.com" || !got.StartTime.Equal(s.StartTime) {
		t.Fatalf("unexpected session %+v, want %+v", got, s)
	}

	clock.Advance(5 * time.Second)
	if _, err := engine.EndSession(ctx, s); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}
	if _, err := engine.LookupSession(ctx, s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after logout, got %v", err)
	}
	if _, err := engine.EndSession(ctx, s); err != nil {
		t.Fatalf("second EndSession must be idempotent, got %v", err)
	}
}

func TestLookupSessionEmptyID(t *testing.T) {
	_, rdb := newTestRedis(t)
	engine := newRegistryEngine(t, newFakeClock(), rdb)
	if _, err := engine.LookupSession(context.Background(), ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRegistryUnavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	engine := newRegistryEngine(t, newFakeClock(), rdb)
	ctx := context.Background()

	s, err := engine.IssueSession(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}
	mr.Close()

	if _, err := engine.IssueSession(ctx, "b@x.com"); !errors.Is(err, ErrSessionUnavailable) {
		t.Fatalf("expected ErrSessionUnavailable on issue, got %v", err)
	}
	if _, err := engine.LookupSession(ctx, s.ID); !errors.Is(err, ErrSessionUnavailable) {
		t.Fatalf("expected ErrSessionUnavailable on lookup, got %v", err)
	}
	if _, err := engine.EndSession(ctx, s); !errors.Is(err, ErrSessionUnavailable) {
		t.Fatalf("expected ErrSessionUnavailable on end, got %v", err)
	}
}

func TestEndSessionClampsFutureStart(t *testing.T) {
	clock := newFakeClock()
	engine := newTestEngine(t, clock, "")

	s := session.Session{ID: "sid", Identifier: "a@x.com", StartTime: clock.Now().Add(time.Minute)}
	d, err := engine.EndSession(context.Background(), s)
	if err != nil || d != 0 {
		t.Fatalf("expected 0 duration, got %v %v", d, err)
	}
}
