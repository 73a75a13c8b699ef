// Package tasks orchestrates bulk content operations with real-time progress reporting.
//
// # Core Operations
//
//  1. [SyncEngine.Sync] : Pull remote collections into the local cache
//     - Fetches each resource's full listing from the content API
//     - Upserts every item into the SQLite cache, keeping local IDs stable
//     - Optionally clears stale rows so the cache mirrors the server
//
//  2. [SyncEngine.Export] : Write content listings to disk
//     - Fetches listings from the API (or the local cache for offline use)
//     - Renders each resource concurrently via a bounded worker pool
//     - Writes a manifest summarizing the produced files
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, and messages for
// display. Updates use select with default so a slow consumer never stalls a
// sync.
//
// # Rate Limiting
//
// Remote fetches go through a golang.org/x/time/rate limiter so bulk
// operations stay polite to the backend.
//
// # Implementation
//
// [ContentEngine] implements [SyncEngine] with dependencies on:
//   - [services.ContentService] : the content API client
//   - [ContentCache] : the local persistence layer (repositories.ContentRepository)
package tasks
