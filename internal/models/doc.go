// Package models defines domain entities for the troop media library client.
//
// The package contains three categories of types:
//
// 1. Remote records, owned by the troop content API and cached client-side:
//   - [MusicItem] : A song, chant, or clap with lyrics and media references
//   - [ScoutItem] : A scouting technique entry (knots, lashings, pioneering)
//
// 2. Query types:
//   - [Filters] : Search and filter parameters translated to query strings
//
// 3. Cache entities:
//   - [CachedItem] : A locally persisted copy of a remote record
//
// Remote record identifiers are assigned by the server and never generated
// locally. Enumeration fields (type, category) are closed sets matching the
// options the forms render; Validate rejects anything outside them.
package models
