package goOTP

import (
	"time"

	"github.com/MrEthical07/goOTP/internal/security"
)

// SecurityReport is a read-only summary of the engine's security posture.
// Warnings lists settings that weaken it; an empty slice means none.
type SecurityReport struct {
	TTL                    time.Duration
	MaxAttempts            int
	RandomSource           RandomSource
	CryptoRandom           bool
	CodesHashedAtRest      bool
	GuessProbability       float64
	SessionRegistryEnabled bool
	AuditEnabled           bool
	AuditDropIfFull        bool
	MetricsEnabled         bool
	Warnings               []string
}

func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	r := security.BuildReport(security.ReportInput{
		TTL:                    e.config.OTP.TTL,
		MaxAttempts:            e.config.OTP.MaxAttempts,
		RandomSource:           string(e.config.OTP.RandomSource),
		SessionRegistryEnabled: e.registry != nil,
		AuditEnabled:           e.audit != nil,
		AuditDropIfFull:        e.config.Audit.DropIfFull,
		MetricsEnabled:         e.config.Metrics.Enabled,
	})

	return SecurityReport{
		TTL:                    r.TTL,
		MaxAttempts:            r.MaxAttempts,
		RandomSource:           RandomSource(r.RandomSource),
		CryptoRandom:           r.CryptoRandom,
		CodesHashedAtRest:      r.CodesHashedAtRest,
		GuessProbability:       r.GuessProbability,
		SessionRegistryEnabled: r.SessionRegistryEnabled,
		AuditEnabled:           r.AuditEnabled,
		AuditDropIfFull:        r.AuditDropIfFull,
		MetricsEnabled:         r.MetricsEnabled,
		Warnings:               r.Warnings,
	}
}
