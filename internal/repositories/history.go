package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mdnxzzzz/vaultmusic/internal/models"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

// HistoryRepository persists the append-only search and playback logs.
//
// Writes are unconditional inserts with unbounded growth; bounding happens
// only at read time.
type HistoryRepository struct {
	db DBTX
}

// NewHistoryRepository creates a new [HistoryRepository] with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *HistoryRepository) WithTx(tx *sql.Tx) *HistoryRepository {
	return &HistoryRepository{db: tx}
}

// AddSearch appends a search history row with generated ID and sequence.
func (r *HistoryRepository) AddSearch(entry *models.SearchEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(r.db, "search_history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	entry.SetID(shared.GenerateID())
	entry.SetSequence(sequence)

	query := `
		INSERT INTO search_history (id, sequence, user_id, query, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, entry.ID(), entry.Sequence(), entry.UserID(), entry.Query(), entry.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert search entry: %w", err)
	}

	return nil
}

// AddPlay appends a playback history row with generated ID and sequence.
// Repeat plays of the same track are recorded as separate rows.
func (r *HistoryRepository) AddPlay(entry *models.PlayEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(r.db, "play_history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	entry.SetID(shared.GenerateID())
	entry.SetSequence(sequence)

	query := `
		INSERT INTO play_history (id, sequence, user_id, track_id, track_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, entry.ID(), entry.Sequence(), entry.UserID(), entry.TrackID(), string(entry.TrackData()), entry.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert playback entry: %w", err)
	}

	return nil
}

// RecentSearches returns the user's most recent search queries, newest
// first, bounded by limit. Ties on timestamp fall back to insertion order.
// A negative limit returns everything.
func (r *HistoryRepository) RecentSearches(userID string, limit int) ([]string, error) {
	query := `
		SELECT query
		FROM search_history
		WHERE user_id = ?
		ORDER BY created_at DESC, sequence DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	queries := make([]string, 0, max(limit, 0))
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("failed to scan search entry: %w", err)
		}
		queries = append(queries, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return queries, nil
}

// RecentPlays returns the user's most recent playback entries, newest first,
// bounded by limit. Each element is the stored track payload, byte for byte.
// A negative limit returns everything.
func (r *HistoryRepository) RecentPlays(userID string, limit int) ([]json.RawMessage, error) {
	query := `
		SELECT track_data
		FROM play_history
		WHERE user_id = ?
		ORDER BY created_at DESC, sequence DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query playback history: %w", err)
	}
	defer rows.Close()

	plays := make([]json.RawMessage, 0, max(limit, 0))
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan playback entry: %w", err)
		}
		plays = append(plays, json.RawMessage(data))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return plays, nil
}

// CountPlays returns the total number of playback rows for the user.
func (r *HistoryRepository) CountPlays(userID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM play_history WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count playback history: %w", err)
	}
	return count, nil
}

// Clear deletes all search and playback rows for the user. Clearing an
// already-empty history is a successful no-op. Likes are a different table
// and are never touched here.
func (r *HistoryRepository) Clear(userID string) error {
	if userID == "" {
		return shared.ErrMissingUserID
	}

	if _, err := r.db.Exec("DELETE FROM search_history WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}

	if _, err := r.db.Exec("DELETE FROM play_history WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear playback history: %w", err)
	}

	return nil
}
