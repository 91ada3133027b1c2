package goOTP

import (
	"errors"
	"time"
)

// Config defines a public type used by goOTP APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	OTP     OTPConfig
	Session SessionConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
OTP CONFIG
====================================
*/

// RandomSource selects how codes are drawn.
type RandomSource string

const (
	// RandomSecure draws codes from crypto/rand.
	RandomSecure RandomSource = "secure"
	// RandomPseudo draws codes from math/rand/v2. Demo use only.
	RandomPseudo RandomSource = "pseudo"
)

// OTPConfig controls code issuance and verification.
type OTPConfig struct {
	TTL          time.Duration
	MaxAttempts  int
	RandomSource RandomSource
	StoreShards  int
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig controls the optional Redis session registry.
type SessionConfig struct {
	RedisPrefix string
}

// AuditConfig controls the async event dispatcher.
type AuditConfig struct {
	Enabled      bool
	BufferSize   int
	DropIfFull   bool
	// BlockTimeout caps the wait on a full buffer when DropIfFull is false.
	// Events that time out are dropped and counted in AuditDropped.
	BlockTimeout time.Duration
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration every Builder starts from: a
// 60-second TTL, three attempts and crypto/rand codes.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		OTP: OTPConfig{
			TTL:          60 * time.Second,
			MaxAttempts:  3,
			RandomSource: RandomSecure,
			StoreShards:  32,
		},
		Session: SessionConfig{
			RedisPrefix: "os",
		},
		Audit: AuditConfig{
			Enabled:      false,
			BufferSize:   1024,
			DropIfFull:   true,
			BlockTimeout: 100 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate returns the first configuration problem found, or nil.
func (c *Config) Validate() error {
	// OTP
	if c.OTP.TTL <= 0 {
		return errors.New("OTP TTL must be > 0")
	}
	if c.OTP.MaxAttempts <= 0 {
		return errors.New("OTP MaxAttempts must be > 0")
	}
	switch c.OTP.RandomSource {
	case RandomSecure, RandomPseudo:
		// valid
	default:
		return errors.New("OTP RandomSource must be 'secure' or 'pseudo'")
	}
	if c.OTP.StoreShards < 0 {
		return errors.New("OTP StoreShards must be >= 0")
	}

	// Session
	if c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when enabled")
	}
	if c.Audit.BlockTimeout < 0 {
		return errors.New("Audit BlockTimeout must be >= 0")
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}
