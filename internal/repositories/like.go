package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mdnxzzzz/vaultmusic/internal/models"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

// LikeRepository persists the preference set and owns its toggle state machine.
//
// Toggle is a check-then-act sequence, so each (user, track) pair runs under
// its own serializing lock. Pairs never block each other; the lock map is
// shared across WithTx copies so transactional reads and toggles observe the
// same serialization.
type LikeRepository struct {
	db    DBTX
	locks *keyedMutex
}

// NewLikeRepository creates a new [LikeRepository] with the given database connection
func NewLikeRepository(db *sql.DB) *LikeRepository {
	return &LikeRepository{db: db, locks: newKeyedMutex()}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *LikeRepository) WithTx(tx *sql.Tx) *LikeRepository {
	return &LikeRepository{db: tx, locks: r.locks}
}

// Toggle flips the liked state for the pair and reports the resulting state:
// an absent row is inserted (capturing the track metadata as sent) and the
// call returns true; a present row is deleted and the call returns false.
// Applying Toggle twice restores the original state.
//
// A UNIQUE violation on insert means a writer outside this process won the
// pair between check and act; it surfaces as [shared.ErrConflict] rather
// than a raw constraint error.
func (r *LikeRepository) Toggle(like *models.Like) (bool, error) {
	if err := like.Validate(); err != nil {
		return false, err
	}

	unlock := r.locks.Lock(pairKey(like.UserID(), like.TrackID()))
	defer unlock()

	liked, err := r.IsLiked(like.UserID(), like.TrackID())
	if err != nil {
		return false, err
	}

	if liked {
		if _, err := r.db.Exec("DELETE FROM likes WHERE user_id = ? AND track_id = ?", like.UserID(), like.TrackID()); err != nil {
			return false, fmt.Errorf("failed to delete like: %w", err)
		}
		return false, nil
	}

	sequence, err := NextSequence(r.db, "likes")
	if err != nil {
		return false, fmt.Errorf("failed to generate sequence: %w", err)
	}
	like.SetSequence(sequence)

	query := `
		INSERT INTO likes (user_id, track_id, sequence, track_data, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, like.UserID(), like.TrackID(), like.Sequence(), string(like.TrackData()), like.CreatedAt())
	if isUniqueViolation(err) {
		return false, fmt.Errorf("%w: like %s", shared.ErrConflict, like.ID())
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}

	return true, nil
}

// pairKey builds the toggle lock key. The NUL separator keeps pairs
// distinct even when an identifier itself contains a printable separator:
// ("a", "b/c") and ("a/b", "c") must never share a lock.
func pairKey(userID, trackID string) string {
	return userID + "\x00" + trackID
}

// IsLiked reports whether the (user, track) row is present.
func (r *LikeRepository) IsLiked(userID, trackID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = ? AND track_id = ?)", userID, trackID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}

// ListByUser returns all of the user's liked tracks, newest first.
// Each element is the track payload captured at like time, byte for byte.
func (r *LikeRepository) ListByUser(userID string) ([]json.RawMessage, error) {
	query := `
		SELECT track_data
		FROM likes
		WHERE user_id = ?
		ORDER BY created_at DESC, sequence DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	likes := make([]json.RawMessage, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		likes = append(likes, json.RawMessage(data))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return likes, nil
}

// Count returns the number of liked tracks for the user.
func (r *LikeRepository) Count(userID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM likes WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}
