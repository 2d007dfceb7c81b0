package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

func TestParseHistoryEntry(t *testing.T) {
	t.Run("Query Becomes Search", func(t *testing.T) {
		entry, err := ParseHistoryEntry("42", "daft punk", nil)
		if err != nil {
			t.Fatalf("failed to parse search entry: %v", err)
		}
		if entry.Kind != HistorySearch {
			t.Errorf("expected HistorySearch, got %v", entry.Kind)
		}
		if entry.Query != "daft punk" {
			t.Errorf("expected query to carry through, got %q", entry.Query)
		}
	})

	t.Run("Track Becomes Playback", func(t *testing.T) {
		track := json.RawMessage(`{"id":"t1","title":"X","artist":"Y"}`)
		entry, err := ParseHistoryEntry("42", "", track)
		if err != nil {
			t.Fatalf("failed to parse playback entry: %v", err)
		}
		if entry.Kind != HistoryPlayback {
			t.Errorf("expected HistoryPlayback, got %v", entry.Kind)
		}
		if entry.TrackID != "t1" {
			t.Errorf("expected track id t1, got %q", entry.TrackID)
		}
		if string(entry.TrackData) != string(track) {
			t.Error("track payload should be carried verbatim")
		}
	})

	t.Run("Query Wins Over Track", func(t *testing.T) {
		entry, err := ParseHistoryEntry("42", "query", json.RawMessage(`{"id":"t1"}`))
		if err != nil {
			t.Fatalf("failed to parse entry: %v", err)
		}
		if entry.Kind != HistorySearch {
			t.Errorf("expected search to take precedence, got %v", entry.Kind)
		}
	})

	t.Run("Neither Fails Validation", func(t *testing.T) {
		_, err := ParseHistoryEntry("42", "", nil)
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Missing UserID Fails Validation", func(t *testing.T) {
		_, err := ParseHistoryEntry("", "query", nil)
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Track Without ID Fails Validation", func(t *testing.T) {
		_, err := ParseHistoryEntry("42", "", json.RawMessage(`{"title":"X"}`))
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}
