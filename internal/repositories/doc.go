// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository operates over a [DBTX], satisfied by both *sql.DB and
// *sql.Tx, so a logical operation spanning entities (the session sync's
// upsert plus read-back, history clear, playlist create) can run inside one
// transaction via WithTx.
//
// Key implementations:
//   - [UserRepository] : identity upsert-on-sync, nickname updates
//   - [HistoryRepository] : append-only search/playback logs with bounded, newest-first reads
//   - [LikeRepository] : the (user, track) toggle state machine under a per-pair serializing lock
//   - [PlaylistRepository] : ordered track collections
//
// Sequence numbers provide stable insertion ordering independent of creation
// timestamps, breaking ties when two rows land in the same instant. The
// [NextSequence] function atomically increments per-table sequence counters
// in dedicated sequence tables.
package repositories
