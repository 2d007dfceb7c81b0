package services

import (
	"github.com/mdnxzzzz/vaultmusic/internal/models"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

// ListUserIDs returns every known user identifier, for the bulk export tooling.
func (s *SyncService) ListUserIDs() ([]string, error) {
	return s.users.ListIDs()
}

// Export assembles the complete, unbounded dump of one user's state. Unlike
// Sync, nothing here is truncated; the result feeds the backup formatters.
func (s *SyncService) Export(userID string) (*models.UserExport, error) {
	if userID == "" {
		return nil, shared.ErrMissingUserID
	}

	user, err := s.users.Get(userID)
	if err != nil {
		return nil, err
	}

	playlists, err := s.playlists.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	likes, err := s.likes.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	// SQLite reads a negative LIMIT as "no limit".
	searches, err := s.history.RecentSearches(userID, -1)
	if err != nil {
		return nil, err
	}

	plays, err := s.history.RecentPlays(userID, -1)
	if err != nil {
		return nil, err
	}

	return &models.UserExport{
		User:          user,
		Playlists:     playlists,
		Likes:         likes,
		SearchHistory: searches,
		Playback:      plays,
	}, nil
}
