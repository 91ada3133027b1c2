package goOTP

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/goOTP/internal"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestEngine(t *testing.T, clock Clock, code string) *Engine {
	t.Helper()
	b := New().WithClock(clock)
	if code != "" {
		b = b.withCodeSource(internal.FixedSource(code))
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func TestGenerateShape(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "")
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		code, err := engine.Generate(ctx, "a@x.com")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		if code[0] == '0' {
			t.Fatalf("code below 100000: %q", code)
		}
		if !internal.IsNumericCode(code) {
			t.Fatalf("non-numeric code %q", code)
		}
	}
}

func TestGenerateRejectsEmptyIdentifier(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "")
	if _, err := engine.Generate(context.Background(), ""); !errors.Is(err, ErrIdentifierRequired) {
		t.Fatalf("expected ErrIdentifierRequired, got %v", err)
	}
	if engine.PendingCount() != 0 {
		t.Fatal("empty identifier must not create a record")
	}
}

func TestGenerateWithResultExpiry(t *testing.T) {
	clock := newFakeClock()
	engine := newTestEngine(t, clock, "123456")

	res, err := engine.GenerateWithResult(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("GenerateWithResult failed: %v", err)
	}
	if res.Code != "123456" || !res.ExpiresAt.Equal(clock.Now().Add(60*time.Second)) {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestValidateSingleUse(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "")
	ctx := context.Background()

	code, err := engine.Generate(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	res, err := engine.Validate(ctx, "a@x.com", code)
	if err != nil || !res.OK || res.Kind != KindNone {
		t.Fatalf("expected success, got %+v %v", res, err)
	}

	res, err = engine.Validate(ctx, "a@x.com", code)
	if !errors.Is(err, ErrOTPNotFound) || res.Kind != KindNotFound || res.OK {
		t.Fatalf("expected not found on replay, got %+v %v", res, err)
	}
}

func TestValidateExpiryBoundary(t *testing.T) {
	clock := newFakeClock()
	engine := newTestEngine(t, clock, "654321")
	ctx := context.Background()

	res, err := engine.GenerateWithResult(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	clock.Set(res.ExpiresAt.Add(time.Millisecond))
	vr, err := engine.Validate(ctx, "a@x.com", "654321")
	if !errors.Is(err, ErrOTPExpired) || vr.Kind != KindExpired {
		t.Fatalf("expected expired 1ms after expiry, got %+v %v", vr, err)
	}

	info, ok := engine.Inspect("a@x.com")
	if !ok || !info.Expired || info.Attempts != 0 {
		t.Fatalf("expired record must stay inspectable with no attempt spent, got %+v %v", info, ok)
	}

	if _, err := engine.Generate(ctx, "a@x.com"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	clock.Set(clock.Now().Add(60*time.Second - time.Millisecond))
	vr, err = engine.Validate(ctx, "a@x.com", "654321")
	if err != nil || !vr.OK {
		t.Fatalf("expected success 1ms before expiry, got %+v %v", vr, err)
	}
}

func TestValidateAtExactExpiryStillValid(t *testing.T) {
	clock := newFakeClock()
	engine := newTestEngine(t, clock, "111111")
	ctx := context.Background()

	res, err := engine.GenerateWithResult(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	clock.Set(res.ExpiresAt)
	if vr, err := engine.Validate(ctx, "a@x.com", "111111"); err != nil || !vr.OK {
		t.Fatalf("expected success at expiresAt, got %+v %v", vr, err)
	}
}

func TestValidateAttemptBudget(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "482913")
	ctx := context.Background()

	if _, err := engine.Generate(ctx, "a@x.com"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, want := range []int{2, 1, 0} {
		res, err := engine.Validate(ctx, "a@x.com", "000000")
		var mm *MismatchError
		if !errors.As(err, &mm) || mm.Remaining != want {
			t.Fatalf("expected mismatch remaining=%d, got %v", want, err)
		}
		if !errors.Is(err, ErrOTPMismatch) {
			t.Fatalf("MismatchError must unwrap to ErrOTPMismatch")
		}
		if res.Kind != KindMismatch || res.AttemptsRemaining != want {
			t.Fatalf("unexpected result %+v", res)
		}
	}

	res, err := engine.Validate(ctx, "a@x.com", "482913")
	if !errors.Is(err, ErrOTPAttemptsExceeded) || res.Kind != KindAttemptsExceeded {
		t.Fatalf("expected attempts exceeded even for the right code, got %+v %v", res, err)
	}

	info, ok := engine.Inspect("a@x.com")
	if !ok || !info.Exhausted || info.Attempts != 3 {
		t.Fatalf("exhausted record must be kept, got %+v %v", info, ok)
	}
}

func TestValidateMalformedCandidateIsMismatch(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "482913")
	ctx := context.Background()

	if _, err := engine.Generate(ctx, "a@x.com"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for _, cand := range []string{"", "12345", "abcdef", "4829130"} {
		res, err := engine.Validate(ctx, "a@x.com", cand)
		if res.Kind != KindMismatch && res.Kind != KindAttemptsExceeded {
			t.Fatalf("candidate %q: unexpected result %+v %v", cand, res, err)
		}
	}
}

func TestRegenerateResetsAttempts(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "222222")
	ctx := context.Background()

	if _, err := engine.Generate(ctx, "a@x.com"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		_, _ = engine.Validate(ctx, "a@x.com", "000000")
	}

	if _, err := engine.Generate(ctx, "a@x.com"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	info, ok := engine.Inspect("a@x.com")
	if !ok || info.Attempts != 0 || info.Exhausted {
		t.Fatalf("expected fresh record, got %+v", info)
	}

	res, err := engine.Validate(ctx, "a@x.com", "000000")
	if res.AttemptsRemaining != 2 {
		t.Fatalf("expected remaining=2 after re-issue, got %+v %v", res, err)
	}
}

func TestRegenerateInvalidatesOldCode(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "")
	ctx := context.Background()

	first, err := engine.Generate(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	var second string
	for second == "" || second == first {
		if second, err = engine.Generate(ctx, "a@x.com"); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
	}

	if res, _ := engine.Validate(ctx, "a@x.com", first); res.Kind != KindMismatch {
		t.Fatalf("old code must not validate, got %+v", res)
	}
	if res, err := engine.Validate(ctx, "a@x.com", second); !res.OK {
		t.Fatalf("new code must validate, got %+v %v", res, err)
	}
}

func TestClearIdempotent(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "333333")
	ctx := context.Background()

	engine.Clear(ctx, "nobody")

	if _, err := engine.Generate(ctx, "a@x.com"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	engine.Clear(ctx, "a@x.com")
	engine.Clear(ctx, "a@x.com")

	if _, err := engine.Validate(ctx, "a@x.com", "333333"); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("expected not found after clear, got %v", err)
	}
}

func TestIdentifiersAreIndependent(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "444444")
	ctx := context.Background()

	for _, id := range []string{"a@x.com", "b@x.com"} {
		if _, err := engine.Generate(ctx, id); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
	}
	for i := 0; i < 3; i++ {
		_, _ = engine.Validate(ctx, "a@x.com", "000000")
	}
	if res, err := engine.Validate(ctx, "b@x.com", "444444"); !res.OK {
		t.Fatalf("b@x.com must be unaffected, got %+v %v", res, err)
	}
}

func TestScenarioMismatchThenSuccessThenReplay(t *testing.T) {
	clock := newFakeClock()
	engine := newTestEngine(t, clock, "482913")
	ctx := context.Background()

	code, err := engine.Generate(ctx, "a@x.com")
	if err != nil || code != "482913" {
		t.Fatalf("Generate: %q %v", code, err)
	}

	clock.Advance(10 * time.Second)
	res, err := engine.Validate(ctx, "a@x.com", "000000")
	if res.Kind != KindMismatch || res.AttemptsRemaining != 2 {
		t.Fatalf("expected mismatch remaining=2, got %+v %v", res, err)
	}
	if err.Error() != "invalid otp (2 attempts remaining)" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	clock.Advance(5 * time.Second)
	res, err = engine.Validate(ctx, "a@x.com", "482913")
	if err != nil || !res.OK {
		t.Fatalf("expected success, got %+v %v", res, err)
	}

	res, err = engine.Validate(ctx, "a@x.com", "482913")
	if res.Kind != KindNotFound || !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("expected not found, got %+v %v", res, err)
	}
}

func TestSecondsLeft(t *testing.T) {
	clock := newFakeClock()
	engine := newTestEngine(t, clock, "555555")
	ctx := context.Background()

	if got := engine.SecondsLeft("a@x.com"); got != 0 {
		t.Fatalf("expected 0 with nothing pending, got %d", got)
	}
	if _, err := engine.Generate(ctx, "a@x.com"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got := engine.SecondsLeft("a@x.com"); got != 60 {
		t.Fatalf("expected 60, got %d", got)
	}
	clock.Advance(59*time.Second + 500*time.Millisecond)
	if got := engine.SecondsLeft("a@x.com"); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	clock.Advance(time.Second)
	if got := engine.SecondsLeft("a@x.com"); got != 0 {
		t.Fatalf("expected 0 after expiry, got %d", got)
	}
}

func TestConcurrentValidateNeverExceedsBudget(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "777777")
	ctx := context.Background()

	if _, err := engine.Generate(ctx, "a@x.com"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var (
		wg         sync.WaitGroup
		mismatches atomic.Int64
		exceeded   atomic.Int64
		start      = make(chan struct{})
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, _ := engine.Validate(ctx, "a@x.com", "000000")
			switch res.Kind {
			case KindMismatch:
				mismatches.Add(1)
			case KindAttemptsExceeded:
				exceeded.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if mismatches.Load() != 3 || exceeded.Load() != 61 {
		t.Fatalf("expected 3 mismatches and 61 exceeded, got %d and %d", mismatches.Load(), exceeded.Load())
	}
}

func TestConcurrentCorrectCodeConsumedOnce(t *testing.T) {
	engine := newTestEngine(t, newFakeClock(), "888888")
	ctx := context.Background()

	if _, err := engine.Generate(ctx, "a@x.com"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var (
		wg      sync.WaitGroup
		success atomic.Int64
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res, _ := engine.Validate(ctx, "a@x.com", "888888"); res.OK {
				success.Add(1)
			}
		}()
	}
	wg.Wait()

	if success.Load() != 1 {
		t.Fatalf("expected exactly one success, got %d", success.Load())
	}
}

func TestZeroEngineNotReady(t *testing.T) {
	var engine *Engine
	ctx := context.Background()

	if _, err := engine.Generate(ctx, "a"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if _, err := engine.Validate(ctx, "a", "123456"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	engine.Clear(ctx, "a")
	if _, ok := engine.Inspect("a"); ok {
		t.Fatal("nil engine has nothing pending")
	}

	if _, err := (&Engine{}).Generate(ctx, "a"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady for zero engine, got %v", err)
	}
}

func TestErrorKindString(t *testing.T) {
	cases := map[ErrorKind]string{
		KindNone:             "none",
		KindNotFound:         "not_found",
		KindExpired:          "expired",
		KindAttemptsExceeded: "attempts_exceeded",
		KindMismatch:         "mismatch",
		ErrorKind(42):        "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("%d: expected %q, got %q", k, want, got)
		}
	}
}

func TestMapOTPStoreErrorPassesUnknownErrorsThrough(t *testing.T) {
	cause := errors.New("shard corrupted")

	err := mapOTPStoreError(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected unknown store error to pass through, got %v", err)
	}
	if errors.Is(err, ErrEngineNotReady) {
		t.Fatal("unknown store error must not be classified as ErrEngineNotReady")
	}
	if got := auditErrorCode(err); got != auditErrInternal {
		t.Fatalf("expected internal_error audit code, got %q", got)
	}
}
