// Package models defines domain entities for the VaultMusic sync backend.
//
// The package contains two categories of types:
//
// 1. Wire types: lightweight structs mirroring the web client's JSON
//   - [Profile] : the identity payload sent with every session sync
//   - [Track] : track metadata as the client ships it (stored verbatim)
//   - [Snapshot] / [Stats] : the bounded view returned by a sync
//   - [HistoryEntry] : tagged variant discriminating search vs playback appends
//
// 2. Persistent entities: database-backed records owned by exactly one user
//   - [User] : identity and profile attributes, last-seen tracking
//   - [SearchEntry] : append-only search query log rows
//   - [PlayEntry] : append-only playback log rows
//   - [Like] : (user, track) preference rows; presence means "liked"
//   - [Playlist] / [PlaylistTrack] : named, ordered track collections
//
// Persistent entities implement the [Model] interface providing identity,
// creation timestamps, and validation.
package models
