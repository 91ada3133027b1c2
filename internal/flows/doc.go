// Package flows holds the ordered orchestration behind every goOTP Engine
// operation: code issuance, verification, cancellation, and session issue/end.
//
// # Design
//
// Each flow is a plain function taking a Deps struct of callbacks, sentinel
// errors, metric IDs and event names. The root Engine wires those once at
// build time, so flows stay testable without the public API.
//
// # What this package must NOT do
//
//   - Import goOTP.
//   - Hold state between calls.
//   - Let audit or metric callbacks change a flow's result.
package flows
