package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/mdnxzzzz/vaultmusic/internal/models"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
	tu "github.com/mdnxzzzz/vaultmusic/internal/testing"
)

func setupService(t *testing.T) *SyncService {
	t.Helper()
	return newTestService(t, tu.NewTestDB(t))
}

func newTestService(t *testing.T, db *sql.DB) *SyncService {
	t.Helper()

	config := shared.DefaultConfig()
	logger := shared.NewLogger(nil)
	return NewSyncService(db, config, logger)
}

func profile(userID string) models.Profile {
	return models.Profile{UserID: userID, Username: "ana", FirstName: "Ana"}
}

func track(id, title string) json.RawMessage {
	return json.RawMessage(`{"id":"` + id + `","title":"` + title + `"}`)
}

func TestSyncService(t *testing.T) {
	t.Run("First Sync Returns Empty Snapshot", func(t *testing.T) {
		svc := setupService(t)

		snapshot, err := svc.Sync(profile("42"))
		if err != nil {
			t.Fatalf("failed to sync: %v", err)
		}

		if len(snapshot.SearchHistory) != 0 || len(snapshot.PlaybackHistory) != 0 || len(snapshot.Likes) != 0 {
			t.Error("fresh user should sync to empty history and likes")
		}
		if snapshot.SearchHistory == nil || snapshot.PlaybackHistory == nil || snapshot.Likes == nil {
			t.Error("snapshot slices must be non-nil so they encode as [] not null")
		}
		want := models.Stats{Played: 0, Likes: 0, Playlists: 0}
		if snapshot.Stats != want {
			t.Errorf("expected zero stats, got %+v", snapshot.Stats)
		}
	})

	t.Run("Sync Twice Is Stable", func(t *testing.T) {
		svc := setupService(t)

		if err := svc.AddHistory(mustEntry(t, "42", "daft punk", nil)); err != nil {
			t.Fatalf("failed to add history: %v", err)
		}
		if err := svc.AddHistory(mustEntry(t, "42", "", track("t1", "X"))); err != nil {
			t.Fatalf("failed to add history: %v", err)
		}

		first, err := svc.Sync(profile("42"))
		if err != nil {
			t.Fatalf("failed to sync: %v", err)
		}
		second, err := svc.Sync(profile("42"))
		if err != nil {
			t.Fatalf("failed to sync again: %v", err)
		}

		if !reflect.DeepEqual(first, second) {
			t.Error("two syncs with no intervening writes should return identical snapshots")
		}
	})

	t.Run("Playback Reflected In Snapshot", func(t *testing.T) {
		svc := setupService(t)

		if err := svc.AddHistory(mustEntry(t, "42", "", track("t1", "X"))); err != nil {
			t.Fatalf("failed to add playback: %v", err)
		}

		snapshot, err := svc.Sync(profile("42"))
		if err != nil {
			t.Fatalf("failed to sync: %v", err)
		}

		if len(snapshot.PlaybackHistory) != 1 {
			t.Fatalf("expected 1 playback entry, got %d", len(snapshot.PlaybackHistory))
		}
		if string(snapshot.PlaybackHistory[0]) != string(track("t1", "X")) {
			t.Errorf("expected track returned verbatim, got %s", snapshot.PlaybackHistory[0])
		}
		if snapshot.Stats.Played != 1 {
			t.Errorf("expected stats.played = 1, got %d", snapshot.Stats.Played)
		}
	})

	t.Run("Likes Survive Clear", func(t *testing.T) {
		svc := setupService(t)

		if _, err := svc.Sync(profile("42")); err != nil {
			t.Fatalf("failed to sync: %v", err)
		}
		if _, err := svc.ToggleLike("42", track("t1", "X")); err != nil {
			t.Fatalf("failed to toggle like: %v", err)
		}
		if err := svc.AddHistory(mustEntry(t, "42", "", track("t1", "X"))); err != nil {
			t.Fatalf("failed to add playback: %v", err)
		}

		if err := svc.ClearHistory("42"); err != nil {
			t.Fatalf("failed to clear history: %v", err)
		}

		snapshot, err := svc.Sync(profile("42"))
		if err != nil {
			t.Fatalf("failed to sync: %v", err)
		}

		if len(snapshot.PlaybackHistory) != 0 {
			t.Error("playback history should be empty after clear")
		}
		if len(snapshot.Likes) != 1 {
			t.Errorf("likes must survive a history clear, got %d", len(snapshot.Likes))
		}
	})

	t.Run("Toggle Reports Resulting State", func(t *testing.T) {
		svc := setupService(t)

		liked, err := svc.ToggleLike("42", track("t1", "X"))
		if err != nil {
			t.Fatalf("failed to toggle like: %v", err)
		}
		if !liked {
			t.Error("first toggle should report liked=true")
		}

		liked, err = svc.ToggleLike("42", track("t1", "X"))
		if err != nil {
			t.Fatalf("failed to toggle like: %v", err)
		}
		if liked {
			t.Error("second toggle should report liked=false")
		}
	})

	t.Run("Nickname Round Trip", func(t *testing.T) {
		svc := setupService(t)

		if _, err := svc.Sync(profile("42")); err != nil {
			t.Fatalf("failed to sync: %v", err)
		}
		if err := svc.UpdateNickname("42", "DJ Ana"); err != nil {
			t.Fatalf("failed to update nickname: %v", err)
		}

		snapshot, err := svc.Sync(profile("42"))
		if err != nil {
			t.Fatalf("failed to sync: %v", err)
		}
		if snapshot.Nickname != "DJ Ana" {
			t.Errorf("expected nickname DJ Ana, got %q", snapshot.Nickname)
		}
	})

	t.Run("Nickname For Unknown User", func(t *testing.T) {
		svc := setupService(t)

		if err := svc.UpdateNickname("ghost", "nick"); !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected not found error, got %v", err)
		}
	})

	t.Run("Playlists Counted In Stats", func(t *testing.T) {
		svc := setupService(t)

		if _, err := svc.Sync(profile("42")); err != nil {
			t.Fatalf("failed to sync: %v", err)
		}

		tracks := []json.RawMessage{track("t2", "Two"), track("t1", "One")}
		playlist, err := svc.CreatePlaylist("42", "Road Trip", tracks)
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		if playlist.ID() == "" {
			t.Error("playlist ID should be assigned")
		}

		snapshot, err := svc.Sync(profile("42"))
		if err != nil {
			t.Fatalf("failed to sync: %v", err)
		}
		if snapshot.Stats.Playlists != 1 {
			t.Errorf("expected stats.playlists = 1, got %d", snapshot.Stats.Playlists)
		}

		playlists, err := svc.ListPlaylists("42")
		if err != nil {
			t.Fatalf("failed to list playlists: %v", err)
		}
		if len(playlists) != 1 || playlists[0].Tracks()[0].TrackID != "t2" {
			t.Error("playlist order should be preserved")
		}
	})

	t.Run("Sync Rejects Missing UserID", func(t *testing.T) {
		svc := setupService(t)

		if _, err := svc.Sync(models.Profile{Username: "ana"}); !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("AddHistory Rejects Empty Entry", func(t *testing.T) {
		svc := setupService(t)

		if err := svc.AddHistory(models.HistoryEntry{Kind: models.HistoryUnknown, UserID: "42"}); !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func mustEntry(t *testing.T, userID, query string, trackData json.RawMessage) models.HistoryEntry {
	t.Helper()

	entry, err := models.ParseHistoryEntry(userID, query, trackData)
	if err != nil {
		t.Fatalf("failed to build history entry: %v", err)
	}
	return entry
}
