package internaldefs

import (
	"github.com/MrEthical07/goOTP"
)

// CounterDef binds a MetricID to its exported name.
type CounterDef struct {
	ID   goOTP.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram MetricID to its exported name.
type HistogramDef struct {
	ID   goOTP.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in MetricID order.
var CounterDefs = []CounterDef{
	{ID: goOTP.MetricOTPGenerated, Name: "gootp_otp_generated_total", Help: "Issued one-time codes."},
	{ID: goOTP.MetricOTPValidationSuccess, Name: "gootp_otp_validation_success_total", Help: "Successful code verifications."},
	{ID: goOTP.MetricOTPNotFound, Name: "gootp_otp_not_found_total", Help: "Verifications with no pending code."},
	{ID: goOTP.MetricOTPExpired, Name: "gootp_otp_expired_total", Help: "Verifications after the validity window."},
	{ID: goOTP.MetricOTPAttemptsExceeded, Name: "gootp_otp_attempts_exceeded_total", Help: "Verifications against an exhausted attempt budget."},
	{ID: goOTP.MetricOTPMismatch, Name: "gootp_otp_mismatch_total", Help: "Verifications with a wrong code."},
	{ID: goOTP.MetricOTPCleared, Name: "gootp_otp_cleared_total", Help: "Explicit code cancellations."},
	{ID: goOTP.MetricSessionIssued, Name: "gootp_session_issued_total", Help: "Sessions issued after verification."},
	{ID: goOTP.MetricSessionEnded, Name: "gootp_session_ended_total", Help: "Sessions ended by logout."},
}

// HistogramDefs lists the exported latency histograms.
var HistogramDefs = []HistogramDef{
	{ID: goOTP.MetricValidateLatency, Name: "gootp_validate_latency_seconds", Help: "Validate latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the
// in-process microsecond buckets.
var HistogramBounds = []string{
	"0.000001",
	"0.000005",
	"0.00001",
	"0.00005",
	"0.0001",
	"0.0005",
	"0.001",
	"+Inf",
}

// HistogramBoundSuffix names each bucket for exporters that cannot carry a
// bound label.
var HistogramBoundSuffix = []string{
	"1us",
	"5us",
	"10us",
	"50us",
	"100us",
	"500us",
	"1ms",
	"inf",
}

// NormalizeBuckets copies raw into a fixed eight-bucket array, padding with
// zeros.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
