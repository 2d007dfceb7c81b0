// Package services orchestrates the sync and state-reconciliation protocol
// over the repositories.
//
// [SyncService] is the single entry point the HTTP layer talks to. It owns
// the operations with cross-table scope:
//
//   - Sync: identity upsert plus the bounded snapshot read-back, wrapped in
//     one transaction so no concurrent writer observes a half-applied upsert
//   - AddHistory: dispatch on the tagged search/playback variant
//   - ToggleLike: delegates to the per-pair serialized toggle
//   - ClearHistory: transactional bulk delete of both history tables
//   - CreatePlaylist / ListPlaylists: ordered playlist management
//
// Errors surface as the shared sentinel taxonomy ([shared.ErrValidation],
// [shared.ErrNotFound], [shared.ErrConflict], [shared.ErrStoreUnavailable])
// for the HTTP layer to map onto status codes.
package services
