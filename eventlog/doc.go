// Package eventlog persists goOTP audit events in a Redis list so they can be
// listed and cleared later.
//
// [RedisLog] is an AuditSink: pass it to Builder.WithAuditSink and every
// lifecycle event is appended asynchronously by the engine's dispatcher.
// Write failures are logged and never reach the caller of the engine method.
package eventlog
