// Package prometheus renders goOTP metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts a [goOTP.Engine] and exposes an [http.Handler].
// Counter names are prefixed gootp_*_total; the single histogram is
// gootp_validate_latency_seconds and gootp_otp_pending is a gauge of
// identifiers holding a code.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate engine state.
package prometheus
