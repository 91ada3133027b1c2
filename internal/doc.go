// Package internal contains helper utilities that are intentionally private to goOTP,
// chiefly the OTP code sources and code hashing.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - flows: ordered OTP and session flow orchestrators for every Engine operation
//   - stores: sharded in-memory pending-OTP store
//
// # What this package must NOT do
//
//   - Export types that appear in the public goOTP API.
//   - Be imported by any package outside the goOTP module.
package internal
