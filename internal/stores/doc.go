// Package stores provides the in-memory record store for pending one-time
// passcodes.
//
// # Design
//
// Records live in a sharded map keyed by identifier; the shard is picked by
// xxhash and guarded by its own mutex. Consume performs the whole
// check-increment-compare sequence under that lock. Records are single-use:
// deleted on a successful match. Expired or exhausted records stay until they
// are overwritten or deleted; nothing sweeps them. Code comparison is
// constant-time over SHA-256 digests.
//
// # Architecture boundaries
//
// This package owns state and concurrency control for pending OTPs. It does
// NOT generate codes, emit events, or decide user-facing messaging. Those
// responsibilities belong to the flow functions in internal/flows.
//
// # What this package must NOT do
//
//   - Import goOTP or any sibling internal package.
//   - Keep plaintext codes.
//   - Use non-constant-time comparisons for code matching.
//   - Start background goroutines or timers.
package stores
