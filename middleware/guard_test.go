package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrEthical07/goOTP"
	"github.com/MrEthical07/goOTP/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newGuardEngine(t *testing.T) (*goOTP.Engine, *miniredis.Miniredis) {
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

	engine, err := goOTP.New().WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, mr
}

func identifierHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFromContext(r.Context())
		if !ok {
			t.Fatal("expected session in context")
		}
		_, _ = w.Write([]byte(s.Identifier))
	})
}

func TestRequireSessionAdmitsRegisteredSession(t *testing.T) {
	engine, _ := newGuardEngine(t)
	s, err := engine.IssueSession(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(SessionHeader, s.ID)
	rec := httptest.NewRecorder()
	RequireSession(engine)(identifierHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "a@x.com" {
		t.Fatalf("expected 200 a@x.com, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequireSessionRejectsMissingAndUnknown(t *testing.T) {
	engine, _ := newGuardEngine(t)
	h := RequireSession(engine)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	for _, id := range []string{"", "not-a-session"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if id != "" {
			req.Header.Set(SessionHeader, id)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("id %q: expected 401, got %d", id, rec.Code)
		}
	}
}

func TestRequireSessionRejectsEndedSession(t *testing.T) {
	engine, _ := newGuardEngine(t)
	ctx := context.Background()
	s, err := engine.IssueSession(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}
	if _, err := engine.EndSession(ctx, s); err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(SessionHeader, s.ID)
	rec := httptest.NewRecorder()
	RequireSession(engine)(identifierHandler(t)).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestRequireBearerSession(t *testing.T) {
	engine, _ := newGuardEngine(t)
	s, err := engine.IssueSession(context.Background(), "b@x.com")
	if err != nil {
		t.Fatalf("IssueSession failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+s.ID)
	rec := httptest.NewRecorder()
	RequireBearerSession(engine)(identifierHandler(t)).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "b@x.com" {
		t.Fatalf("expected 200 b@x.com, got %d %q", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec = httptest.NewRecorder()
	RequireBearerSession(engine)(identifierHandler(t)).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-bearer auth, got %d", rec.Code)
	}
}

func TestGuardReportsBackendFailure(t *testing.T) {
	engine, mr := newGuardEngine(t)
	mr.Close()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(SessionHeader, "sid")
	rec := httptest.NewRecorder()
	RequireSession(engine)(identifierHandler(t)).ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

type staticLookup struct {
	s session.Session
}

func (l staticLookup) LookupSession(context.Context, string) (session.Session, error) {
	return l.s, nil
}

func TestGuardCustomExtractor(t *testing.T) {
	lookup := staticLookup{s: session.Session{ID: "sid", Identifier: "c@x.com"}}
	h := Guard(lookup, func(r *http.Request) (string, bool) {
		c, err := r.Cookie("sid")
		if err != nil {
			return "", false
		}
		return c.Value, true
	})(identifierHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "sid"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "c@x.com" {
		t.Fatalf("expected 200 c@x.com, got %d %q", rec.Code, rec.Body.String())
	}
}
