// Package repositories implements SQLite persistence for the local content cache.
//
// The cache holds verbatim copies of remote records alongside a few extracted
// columns used for offline filtering. Rows are keyed by a generated local ID
// and deduplicated per resource by the remote primary key, so re-syncing the
// same collection updates rows in place.
//
// Key Implementations:
//   - [ContentRepository] : cached item CRUD with resource and filter scoped queries
package repositories
