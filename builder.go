package goOTP

import (
	"errors"
	"time"

	"github.com/MrEthical07/goOTP/internal"
	"github.com/MrEthical07/goOTP/internal/audit"
	"github.com/MrEthical07/goOTP/internal/flows"
	"github.com/MrEthical07/goOTP/internal/stores"
	"github.com/MrEthical07/goOTP/session"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goOTP APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	clock     Clock
	auditSink AuditSink

	// codeSource overrides the configured RandomSource. Tests only.
	codeSource internal.CodeSource

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithClock injects the time source used for issuance, expiry checks, and
// session start times.
func (b *Builder) WithClock(clock Clock) *Builder {
	b.clock = clock
	return b
}

// WithRedis enables the session registry on client. Without it sessions are
// still issued but LookupSession reports ErrSessionRegistryDisabled.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// A non-nil sink enables the audit dispatcher at Build time, whatever the
// order of WithConfig in the chain. A nil sink leaves the configured
// Audit.Enabled value untouched.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

func (b *Builder) withCodeSource(src internal.CodeSource) *Builder {
	b.codeSource = src
	return b
}

// Build validates the configuration and wires the engine. A Builder can be
// used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if b.auditSink != nil {
		cfg.Audit.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := b.clock
	if clock == nil {
		clock = systemClock{}
	}

	src := b.codeSource
	if src == nil {
		switch cfg.OTP.RandomSource {
		case RandomPseudo:
			src = internal.PseudoSource{}
		default:
			src = internal.SecureSource{}
		}
	}

	engine := &Engine{
		config:     cfg,
		clock:      clock,
		codeSource: src,
		otpStore:   stores.NewOTPStore(cfg.OTP.StoreShards),
		issuer:     session.NewIssuer(clock.Now),
		audit: audit.NewDispatcher(audit.Config{
			Enabled:      cfg.Audit.Enabled,
			BufferSize:   cfg.Audit.BufferSize,
			DropIfFull:   cfg.Audit.DropIfFull,
			BlockTimeout: cfg.Audit.BlockTimeout,
		}, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
	}

	// -------- SESSION REGISTRY --------
	if b.redis != nil {
		engine.registry = session.NewStore(b.redis, cfg.Session.RedisPrefix)
	}

	engine.flows = flows.New(engine.buildFlowDeps())

	b.built = true

	return engine, nil
}

func (e *Engine) buildFlowDeps() flows.Deps {
	deps := flows.Deps{
		OTP: flows.OTPDeps{
			TTL:         e.config.OTP.TTL,
			MaxAttempts: e.config.OTP.MaxAttempts,
			Now:         e.now,
			NewCode:     e.codeSource.NewCode,
			HashCode:    internal.HashCode,
			SaveRecord: func(identifier string, codeHash [32]byte, issuedAt, expiresAt time.Time) {
				e.otpStore.Save(stores.OTPRecord{
					Identifier: identifier,
					CodeHash:   codeHash,
					IssuedAt:   issuedAt,
					ExpiresAt:  expiresAt,
				})
			},
			ConsumeRecord: e.otpStore.Consume,
			DeleteRecord:  e.otpStore.Delete,
			MapStoreError: mapOTPStoreError,
			MetricInc:     func(id int) { e.metricInc(MetricID(id)) },
			ObserveLatency: func(d time.Duration) {
				e.observeLatency(MetricValidateLatency, d)
			},
			EmitAudit: e.emitAudit,
			Metrics: flows.OTPMetrics{
				OTPGenerated:         int(MetricOTPGenerated),
				OTPValidationSuccess: int(MetricOTPValidationSuccess),
				OTPNotFound:          int(MetricOTPNotFound),
				OTPExpired:           int(MetricOTPExpired),
				OTPAttemptsExceeded:  int(MetricOTPAttemptsExceeded),
				OTPMismatch:          int(MetricOTPMismatch),
				OTPCleared:           int(MetricOTPCleared),
			},
			Events: flows.OTPEvents{
				OTPGenerated:         auditEventOTPGenerated,
				OTPValidationSuccess: auditEventOTPValidationSuccess,
				OTPValidationFailure: auditEventOTPValidationFailure,
				OTPCleared:           auditEventOTPCleared,
			},
			Errors: flows.OTPErrors{
				EngineNotReady:       ErrEngineNotReady,
				IdentifierRequired:   ErrIdentifierRequired,
				CodeGenerationFailed: ErrCodeGenerationFailed,
				NotFound:             ErrOTPNotFound,
				Expired:              ErrOTPExpired,
				AttemptsExceeded:     ErrOTPAttemptsExceeded,
				Mismatch:             ErrOTPMismatch,
			},
		},
		Session: flows.SessionDeps{
			Now:       e.now,
			Issue:     e.issuer.Issue,
			MetricInc: func(id int) { e.metricInc(MetricID(id)) },
			EmitAudit: e.emitAudit,
			Metrics: flows.SessionMetrics{
				SessionIssued: int(MetricSessionIssued),
				SessionEnded:  int(MetricSessionEnded),
			},
			Events: flows.SessionEvents{
				SessionIssued: auditEventSessionIssued,
				Logout:        auditEventLogout,
			},
			Errors: flows.SessionErrors{
				EngineNotReady:     ErrEngineNotReady,
				IdentifierRequired: ErrIdentifierRequired,
				SessionUnavailable: ErrSessionUnavailable,
			},
		},
	}

	if e.registry != nil {
		deps.Session.SaveSession = e.registry.Save
		deps.Session.DeleteSession = e.registry.Delete
	}

	return deps
}

func mapOTPStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, stores.ErrOTPNotFound):
		return ErrOTPNotFound
	case errors.Is(err, stores.ErrOTPExpired):
		return ErrOTPExpired
	case errors.Is(err, stores.ErrOTPAttemptsExceeded):
		return ErrOTPAttemptsExceeded
	case errors.Is(err, stores.ErrOTPSecretMismatch):
		return ErrOTPMismatch
	default:
		return err
	}
}
