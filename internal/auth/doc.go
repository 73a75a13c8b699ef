// Package auth persists API tokens and gates access to protected views.
//
// [TokenStore] is a small file-backed key-value store holding the access and
// refresh tokens under fixed names, surviving restarts the way the original
// web tool's browser storage survives reloads. It is passed explicitly to
// everything that needs it so tests can substitute a store in a temp dir.
//
// [Guard] performs the pre-flight authentication check: it decodes the stored
// access token's expiry claim without verifying the signature. This is a UX
// shortcut to avoid requests that are doomed to 401, not a security boundary;
// the API verifies the signature on every call.
package auth
