// Package auth provides OAuth2 token management for the Microsoft identity
// platform.
//
// The central abstraction is TokenProvider, which resolves an account name
// to a bearer token. The default implementation, FileTokenProvider, reads
// per-account refresh tokens from the user cache directory and refreshes
// access tokens through the Microsoft identity platform token endpoint.
// Alternative implementations (e.g. an in-memory store for tests) can be
// injected wherever a TokenProvider is accepted.
//
// Running an interactive authorization flow is outside the scope of this
// package; SaveToken only performs the code-for-token exchange once an
// authorization code has been obtained elsewhere.
package auth
