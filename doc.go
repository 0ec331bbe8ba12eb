// Package auth implements the console's token-based authentication and
// authorization core: JWT issuance/validation/refresh, the per-request
// authentication filter, and the role gate consulted by protected handlers.
//
// Tokens are stateless. The server keeps no session records, so there is no
// logout and no revocation list; the only way to invalidate outstanding
// tokens is a password reset, which stamps the user record and causes every
// token issued before the stamp to fail validation.
//
// Request flow:
//   - TokenService.Issue authenticates credentials against the UserDirectory
//     and signs a claim set (issuer, audience, subject, roles, iat, exp, and
//     the user's last password reset).
//   - RequestAuthenticationFilter extracts the bearer token, validates it,
//     resolves the subject's current identity from the directory, and binds a
//     RequestIdentity to the request. Failures leave the request
//     unauthenticated; they never abort the chain.
//   - Gate.Require enforces the per-route allowed-role list: 401 via the
//     EntryPoint when no identity is bound, 403 when the identity lacks every
//     allowed role.
package auth
