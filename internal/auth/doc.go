// Package auth provides API authentication for Media Stack Core.
//
// The trust model is deliberately small: a single account whose
// credentials live in config.yaml (or environment overrides), verified
// with Argon2id when stored hashed, and short-lived HS256 JWT access
// tokens validated by signature alone. There is no user database, no
// roles, and no refresh token rotation.
//
// The API layer calls Service.Login to exchange credentials for a token
// and Service.Verify inside its middleware to gate protected routes.
package auth
