// Package otel provides OpenTelemetry metric exporter bindings for goOTP
// counters and the Validate latency histogram.
//
// [NewOTelExporter] registers an Int64ObservableCounter for each goOTP counter
// and an Int64ObservableGauge per histogram bucket. A single callback reads
// [goOTP.Engine.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate engine state.
package otel
