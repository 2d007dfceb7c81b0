// Package tasks orchestrates offline maintenance jobs over the sync store
// with real-time progress reporting.
//
// The single job today is bulk export: dumping every user's durable state
// (profile, histories, likes, playlists) to files for backup or migration.
//
// # Progress Reporting
//
// Operations emit [ProgressUpdate] values on a caller-supplied channel so the
// CLI can display status without blocking the work. Updates use select with
// default to prevent blocking.
//
// [ExportEngine] implements the work over the [Exporter] interface, which the
// sync service satisfies.
package tasks
