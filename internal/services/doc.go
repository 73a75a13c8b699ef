// Package services implements the HTTP client for the remote troop content API.
//
// The API is external and owns all data; this package only forwards CRUD
// operations and the credential exchange. [ContentService] is the interface
// the CLI and TUI consume, [ContentAPI] the HTTP implementation.
//
// All failures from the remote API are folded into one discriminated
// [*APIError] so callers branch on its Kind instead of sniffing response
// shapes: field-level validation maps render inline next to inputs, general
// messages render as a banner, auth failures trigger the login flow.
package services
