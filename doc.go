// Package warble is the backend for a small twitter-style feed: accounts,
// tweets, and a directed follow graph behind a Google-login auth core.
//
// Authentication flow:
//   - SessionIssuer exchanges a Google ID token for a signed session token.
//     Verification goes through an IdentityVerifier (the google package ships
//     both a tokeninfo-endpoint verifier and an offline JWKS verifier), the
//     account is resolved or created by email, and TokenService mints the
//     session JWT.
//   - middleware/authware decodes the session token on every request and
//     attaches a Viewer to the request context. A missing or invalid token
//     degrades the request to anonymous; it never fails the request by itself.
//   - Guards (RequireViewer, RequireOwner) are invoked by each protected
//     operation. Authorization is always enforced per operation, never by the
//     middleware alone.
//
// Persistence is Bun over a relational store. Account creation is an atomic
// find-or-create keyed on the unique email column; concurrent first logins
// converge on a single row through the constraint, not through locks.
package warble
