package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
	tu "github.com/mdnxzzzz/vaultmusic/internal/testing"
)

func setupServer(t *testing.T) http.Handler {
	t.Helper()

	db := tu.NewTestDB(t)

	config := shared.DefaultConfig()
	logger := shared.NewLogger(nil)
	shared.SetLogLevel(logger, log.ErrorLevel)

	return New(config, db, logger).Handler
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestAPI(t *testing.T) {
	t.Run("Sync Without UserID Fails", func(t *testing.T) {
		handler := setupServer(t)

		rec := postJSON(t, handler, "/api/sync", `{"username":"ana"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}

		body := decodeBody(t, rec)
		if body["error"] != "validation_error" {
			t.Errorf("expected error code validation_error, got %v", body["error"])
		}
	})

	t.Run("First Sync Returns Empty Snapshot", func(t *testing.T) {
		handler := setupServer(t)

		rec := postJSON(t, handler, "/api/sync", `{"user_id":"42","username":"ana","first_name":"Ana"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeBody(t, rec)
		if body["status"] != "success" {
			t.Errorf("expected status success, got %v", body["status"])
		}

		data, ok := body["data"].(map[string]any)
		if !ok {
			t.Fatalf("expected data object, got %v", body["data"])
		}
		for _, key := range []string{"search_history", "playback_history", "likes"} {
			entries, ok := data[key].([]any)
			if !ok {
				t.Fatalf("expected %s to encode as an array, got %v", key, data[key])
			}
			if len(entries) != 0 {
				t.Errorf("expected %s to be empty, got %v", key, entries)
			}
		}
		stats, ok := data["stats"].(map[string]any)
		if !ok || stats["played"] != float64(0) {
			t.Errorf("expected zeroed stats, got %v", data["stats"])
		}
	})

	t.Run("History Add Reflected In Sync", func(t *testing.T) {
		handler := setupServer(t)

		rec := postJSON(t, handler, "/api/history/add", `{"user_id":"42","track":{"id":"t1","title":"X"}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = postJSON(t, handler, "/api/sync", `{"user_id":"42","username":"ana"}`)
		data := decodeBody(t, rec)["data"].(map[string]any)

		playback, ok := data["playback_history"].([]any)
		if !ok || len(playback) != 1 {
			t.Fatalf("expected 1 playback entry, got %v", data["playback_history"])
		}
		track, ok := playback[0].(map[string]any)
		if !ok || track["id"] != "t1" || track["title"] != "X" {
			t.Errorf("expected track returned as a JSON object, got %v", playback[0])
		}
		stats := data["stats"].(map[string]any)
		if stats["played"] != float64(1) {
			t.Errorf("expected stats.played = 1, got %v", stats["played"])
		}
	})

	t.Run("History Add Without Payload Fails", func(t *testing.T) {
		handler := setupServer(t)

		rec := postJSON(t, handler, "/api/history/add", `{"user_id":"42"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("Toggle Flips Liked State", func(t *testing.T) {
		handler := setupServer(t)

		rec := postJSON(t, handler, "/api/like/toggle", `{"user_id":"42","track":{"id":"t1"}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if liked := decodeBody(t, rec)["liked"]; liked != true {
			t.Errorf("expected liked=true on first toggle, got %v", liked)
		}

		rec = postJSON(t, handler, "/api/like/toggle", `{"user_id":"42","track":{"id":"t1"}}`)
		if liked := decodeBody(t, rec)["liked"]; liked != false {
			t.Errorf("expected liked=false on second toggle, got %v", liked)
		}
	})

	t.Run("Nickname Update For Unknown User", func(t *testing.T) {
		handler := setupServer(t)

		rec := postJSON(t, handler, "/api/profile/update", `{"user_id":"ghost","nickname":"nick"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		if code := decodeBody(t, rec)["error"]; code != "not_found" {
			t.Errorf("expected error code not_found, got %v", code)
		}
	})

	t.Run("Clear History Keeps Likes", func(t *testing.T) {
		handler := setupServer(t)

		postJSON(t, handler, "/api/sync", `{"user_id":"42"}`)
		postJSON(t, handler, "/api/like/toggle", `{"user_id":"42","track":{"id":"t1"}}`)
		postJSON(t, handler, "/api/history/add", `{"user_id":"42","query":"daft punk"}`)

		rec := postJSON(t, handler, "/api/history/clear", `{"user_id":"42"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		rec = postJSON(t, handler, "/api/sync", `{"user_id":"42"}`)
		data := decodeBody(t, rec)["data"].(map[string]any)
		if search := data["search_history"].([]any); len(search) != 0 {
			t.Errorf("expected empty search history after clear, got %v", search)
		}
		if likes := data["likes"].([]any); len(likes) != 1 {
			t.Errorf("expected likes to survive clear, got %v", likes)
		}
	})

	t.Run("Playlist Round Trip", func(t *testing.T) {
		handler := setupServer(t)

		postJSON(t, handler, "/api/sync", `{"user_id":"42"}`)

		rec := postJSON(t, handler, "/api/playlist/create",
			`{"user_id":"42","name":"Road Trip","tracks":[{"id":"t2"},{"id":"t1"}]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if id := decodeBody(t, rec)["playlist_id"]; id == "" || id == nil {
			t.Error("expected playlist_id in response")
		}

		rec = postJSON(t, handler, "/api/playlist/list", `{"user_id":"42"}`)
		playlists, ok := decodeBody(t, rec)["playlists"].([]any)
		if !ok || len(playlists) != 1 {
			t.Fatalf("expected 1 playlist, got %v", playlists)
		}
		playlist := playlists[0].(map[string]any)
		tracks := playlist["tracks"].([]any)
		if len(tracks) != 2 || tracks[0].(map[string]any)["track_id"] != "t2" {
			t.Errorf("expected track order preserved, got %v", tracks)
		}
	})

	t.Run("Malformed Body Fails", func(t *testing.T) {
		handler := setupServer(t)

		rec := postJSON(t, handler, "/api/sync", `{"user_id":`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("Preflight Allowed", func(t *testing.T) {
		handler := setupServer(t)

		req := httptest.NewRequest(http.MethodOptions, "/api/sync", nil)
		req.Header.Set("Origin", "https://client.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("expected permissive CORS headers on preflight")
		}
	})
}
