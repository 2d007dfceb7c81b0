package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mdnxzzzz/vaultmusic/internal/models"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

// PlaylistRepository persists named, ordered track collections.
//
// Create spans the playlists and playlist_tracks tables; callers that need
// the pair to land atomically run it through WithTx.
type PlaylistRepository struct {
	db DBTX
}

// NewPlaylistRepository creates a new [PlaylistRepository] with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PlaylistRepository) WithTx(tx *sql.Tx) *PlaylistRepository {
	return &PlaylistRepository{db: tx}
}

// Create inserts a playlist and its track rows with generated ID and sequence.
// Track positions are written exactly as held by the playlist.
func (r *PlaylistRepository) Create(playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return err
	}

	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	playlist.SetID(shared.GenerateID())
	playlist.SetSequence(sequence)

	query := `
		INSERT INTO playlists (id, sequence, user_id, name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, playlist.ID(), playlist.Sequence(), playlist.UserID(), playlist.Name(), playlist.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	for _, track := range playlist.Tracks() {
		_, err = r.db.Exec(
			"INSERT INTO playlist_tracks (playlist_id, position, track_id, track_data) VALUES (?, ?, ?, ?)",
			playlist.ID(), track.Position, track.TrackID, string(track.TrackData),
		)
		if err != nil {
			return fmt.Errorf("failed to insert playlist track: %w", err)
		}
	}

	return nil
}

// Get retrieves a playlist by ID with its tracks in stored position order.
func (r *PlaylistRepository) Get(id string) (*models.Playlist, error) {
	query := `
		SELECT id, sequence, user_id, name, created_at
		FROM playlists
		WHERE id = ?
	`

	playlist, err := r.scanOne(r.db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}

	tracks, err := r.tracksOf(playlist.ID())
	if err != nil {
		return nil, err
	}
	playlist.SetTracks(tracks)

	return playlist, nil
}

// ListByUser returns the user's playlists in creation order, tracks included.
func (r *PlaylistRepository) ListByUser(userID string) ([]*models.Playlist, error) {
	query := `
		SELECT id, sequence, user_id, name, created_at
		FROM playlists
		WHERE user_id = ?
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]*models.Playlist, 0)
	for rows.Next() {
		playlist, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, playlist := range playlists {
		tracks, err := r.tracksOf(playlist.ID())
		if err != nil {
			return nil, err
		}
		playlist.SetTracks(tracks)
	}

	return playlists, nil
}

// CountByUser returns the number of playlists owned by the user.
func (r *PlaylistRepository) CountByUser(userID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM playlists WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count playlists: %w", err)
	}
	return count, nil
}

func (r *PlaylistRepository) tracksOf(playlistID string) ([]models.PlaylistTrack, error) {
	query := `
		SELECT position, track_id, track_data
		FROM playlist_tracks
		WHERE playlist_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist tracks: %w", err)
	}
	defer rows.Close()

	tracks := make([]models.PlaylistTrack, 0)
	for rows.Next() {
		var (
			position int
			trackID  string
			data     string
		)
		if err := rows.Scan(&position, &trackID, &data); err != nil {
			return nil, fmt.Errorf("failed to scan playlist track: %w", err)
		}
		tracks = append(tracks, models.PlaylistTrack{
			Position:  position,
			TrackID:   trackID,
			TrackData: json.RawMessage(data),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PlaylistRepository) scanOne(row *sql.Row) (*models.Playlist, error) {
	playlist, err := r.scanRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: playlist", shared.ErrNotFound)
	}
	return playlist, err
}

func (r *PlaylistRepository) scanRow(row rowScanner) (*models.Playlist, error) {
	var (
		id        string
		sequence  int
		userID    string
		name      string
		createdAt time.Time
	)

	if err := row.Scan(&id, &sequence, &userID, &name, &createdAt); err != nil {
		return nil, err
	}

	playlist := models.NewPlaylist(userID, name, nil)
	playlist.SetID(id)
	playlist.SetSequence(sequence)
	playlist.SetCreatedAt(createdAt)

	return playlist, nil
}
