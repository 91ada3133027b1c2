package security

import "time"

const codeSpace = 900000

// Thresholds above which a posture warning is raised.
const (
	maxRecommendedTTL      = 10 * time.Minute
	maxRecommendedAttempts = 5
)

type Report struct {
	TTL                    time.Duration
	MaxAttempts            int
	RandomSource           string
	CryptoRandom           bool
	CodesHashedAtRest      bool
	GuessProbability       float64
	SessionRegistryEnabled bool
	AuditEnabled           bool
	AuditDropIfFull        bool
	MetricsEnabled         bool
	Warnings               []string
}

type ReportInput struct {
	TTL                    time.Duration
	MaxAttempts            int
	RandomSource           string
	SessionRegistryEnabled bool
	AuditEnabled           bool
	AuditDropIfFull        bool
	MetricsEnabled         bool
}

// BuildReport summarizes the posture implied by input. GuessProbability is
// the chance that a blind attacker hits the code within one attempt budget.
func BuildReport(input ReportInput) Report {
	crypto := input.RandomSource == "secure"

	var warnings []string
	if !crypto {
		warnings = append(warnings, "codes are drawn from a non-cryptographic source")
	}
	if input.TTL > maxRecommendedTTL {
		warnings = append(warnings, "code TTL exceeds 10 minutes")
	}
	if input.MaxAttempts > maxRecommendedAttempts {
		warnings = append(warnings, "attempt budget exceeds 5")
	}
	if !input.AuditEnabled {
		warnings = append(warnings, "audit events are disabled")
	}

	guess := float64(input.MaxAttempts) / codeSpace
	if guess > 1 {
		guess = 1
	}

	return Report{
		TTL:                    input.TTL,
		MaxAttempts:            input.MaxAttempts,
		RandomSource:           input.RandomSource,
		CryptoRandom:           crypto,
		CodesHashedAtRest:      true,
		GuessProbability:       guess,
		SessionRegistryEnabled: input.SessionRegistryEnabled,
		AuditEnabled:           input.AuditEnabled,
		AuditDropIfFull:        input.AuditEnabled && input.AuditDropIfFull,
		MetricsEnabled:         input.MetricsEnabled,
		Warnings:               warnings,
	}
}
