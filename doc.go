// Package guard implements a per-request session authentication guard:
// it validates credentials, establishes and tears down an authenticated
// session, and extends sessions across requests through a long-lived
// remember token.
//
// The guard is the only place that decides "is this request
// authenticated, and as whom". It sits between a request/response
// boundary and a user-lookup provider:
//
//   - UserProvider resolves users by uid, primary key, or remember
//     token, verifies passwords, and persists remember tokens.
//     RepositoryProvider is the bun-backed implementation; any store can
//     plug in by implementing the interface.
//   - SessionStore and ClientTokenStore abstract the persisted request
//     state (server session values and client-held cookies). Cookie
//     adapters for go-router live in http.go; in-memory versions in
//     session.go.
//
// Remember-me is armed per login via Guard.Remember and consumed exactly
// once by the next Login call, so a stale duration never leaks into a
// later session.
package guard
