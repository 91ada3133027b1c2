// Package middleware exposes HTTP guards that admit requests carrying a
// registered goOTP session.
//
// # Guards
//
//   - [RequireSession] reads the X-Session-ID header.
//   - [RequireBearerSession] reads "Authorization: Bearer <id>".
//   - [Guard] takes any extractor.
//
// Each guard resolves the ID through Engine.LookupSession and injects the
// session into the request context, where [SessionFromContext] finds it.
//
// # What this package must NOT do
//
//   - Sign or verify tokens. Session IDs are opaque.
//   - Access Redis directly (Engine handles I/O).
package middleware
