// Package audit implements async event dispatching for OTP lifecycle outcomes.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: structured record with timestamp, type, identifier, session and metadata.
//   - [SafeEmit]: sink call guarded against panics.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit. That responsibility belongs to the Engine and flow functions.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import goOTP or any sibling internal package.
//   - Let a sink failure reach the caller of Emit.
package audit
