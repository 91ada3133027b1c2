// Package security derives a read-only posture report from engine
// configuration.
//
// # What this package must NOT do
//
//   - Import the root package or mutate configuration.
package security
