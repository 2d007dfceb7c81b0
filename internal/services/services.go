package services

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mdnxzzzz/vaultmusic/internal/models"
	"github.com/mdnxzzzz/vaultmusic/internal/repositories"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

// SyncService reconciles client and server state for one user at a time.
type SyncService struct {
	db        *sql.DB
	users     *repositories.UserRepository
	history   *repositories.HistoryRepository
	likes     *repositories.LikeRepository
	playlists *repositories.PlaylistRepository

	searchLimit   int
	playbackLimit int

	logger *log.Logger
}

// NewSyncService wires the repositories over an explicitly injected database
// handle. Snapshot bounds come from configuration.
func NewSyncService(db *sql.DB, config *shared.Config, logger *log.Logger) *SyncService {
	return &SyncService{
		db:            db,
		users:         repositories.NewUserRepository(db),
		history:       repositories.NewHistoryRepository(db),
		likes:         repositories.NewLikeRepository(db),
		playlists:     repositories.NewPlaylistRepository(db),
		searchLimit:   config.Sync.SearchLimit,
		playbackLimit: config.Sync.PlaybackLimit,
		logger:        shared.WithLogger(logger, "component", "sync"),
	}
}

// Sync upserts the identity record and returns the bounded, newest-first
// snapshot of the user's state. Upsert and read-back run in one transaction.
func (s *SyncService) Sync(profile models.Profile) (*models.Snapshot, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	users := s.users.WithTx(tx)
	history := s.history.WithTx(tx)
	likes := s.likes.WithTx(tx)
	playlists := s.playlists.WithTx(tx)

	if err := users.Upsert(profile); err != nil {
		return nil, err
	}

	user, err := users.Get(profile.UserID)
	if err != nil {
		return nil, err
	}

	searches, err := history.RecentSearches(profile.UserID, s.searchLimit)
	if err != nil {
		return nil, err
	}

	plays, err := history.RecentPlays(profile.UserID, s.playbackLimit)
	if err != nil {
		return nil, err
	}

	liked, err := likes.ListByUser(profile.UserID)
	if err != nil {
		return nil, err
	}

	played, err := history.CountPlays(profile.UserID)
	if err != nil {
		return nil, err
	}

	playlistCount, err := playlists.CountByUser(profile.UserID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	s.logger.Debug("session synced", "user_id", profile.UserID, "played", played, "likes", len(liked))

	return &models.Snapshot{
		Nickname:        user.Nickname(),
		SearchHistory:   searches,
		PlaybackHistory: plays,
		Likes:           liked,
		Stats: models.Stats{
			Played:    played,
			Likes:     len(liked),
			Playlists: playlistCount,
		},
	}, nil
}

// AddHistory appends the entry matching the tagged variant's kind.
func (s *SyncService) AddHistory(entry models.HistoryEntry) error {
	switch entry.Kind {
	case models.HistorySearch:
		return s.history.AddSearch(models.NewSearchEntry(entry.UserID, entry.Query))
	case models.HistoryPlayback:
		return s.history.AddPlay(models.NewPlayEntry(entry.UserID, entry.TrackID, entry.TrackData))
	default:
		return shared.ErrMissingPayload
	}
}

// ToggleLike flips the liked state for the user and track and reports the
// resulting state.
func (s *SyncService) ToggleLike(userID string, track json.RawMessage) (bool, error) {
	if userID == "" {
		return false, shared.ErrMissingUserID
	}

	trackID, err := models.TrackIDOf(track)
	if err != nil {
		return false, err
	}

	liked, err := s.likes.Toggle(models.NewLike(userID, trackID, track))
	if err != nil {
		return false, err
	}

	s.logger.Debug("like toggled", "user_id", userID, "track_id", trackID, "liked", liked)
	return liked, nil
}

// UpdateNickname sets the user's nickname unconditionally to the supplied value.
func (s *SyncService) UpdateNickname(userID, nickname string) error {
	return s.users.UpdateNickname(userID, nickname)
}

// ClearHistory deletes the user's search and playback history in one
// transaction. Likes and playlists are untouched.
func (s *SyncService) ClearHistory(userID string) error {
	if userID == "" {
		return shared.ErrMissingUserID
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	if err := s.history.WithTx(tx).Clear(userID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	s.logger.Debug("history cleared", "user_id", userID)
	return nil
}

// CreatePlaylist creates an ordered playlist from the client's track objects.
// The playlist row and its track rows land atomically.
func (s *SyncService) CreatePlaylist(userID, name string, tracks []json.RawMessage) (*models.Playlist, error) {
	playlistTracks := make([]models.PlaylistTrack, 0, len(tracks))
	for _, track := range tracks {
		trackID, err := models.TrackIDOf(track)
		if err != nil {
			return nil, err
		}
		playlistTracks = append(playlistTracks, models.PlaylistTrack{TrackID: trackID, TrackData: track})
	}

	playlist := models.NewPlaylist(userID, name, playlistTracks)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	if err := s.playlists.WithTx(tx).Create(playlist); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}

	return playlist, nil
}

// ListPlaylists returns the user's playlists in creation order.
func (s *SyncService) ListPlaylists(userID string) ([]*models.Playlist, error) {
	if userID == "" {
		return nil, shared.ErrMissingUserID
	}
	return s.playlists.ListByUser(userID)
}
