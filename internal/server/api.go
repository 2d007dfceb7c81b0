package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mdnxzzzz/vaultmusic/internal/models"
	"github.com/mdnxzzzz/vaultmusic/internal/services"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

// API handles the JSON endpoints of the sync backend.
// Implements the Handler interface for registration with a Router.
type API struct {
	sync   *services.SyncService
	logger *log.Logger
}

// NewAPI creates the API handler over the sync service.
func NewAPI(sync *services.SyncService, logger *log.Logger) *API {
	return &API{
		sync:   sync,
		logger: shared.WithLogger(logger, "component", "api"),
	}
}

// Routes returns the HTTP routes this handler serves.
func (a *API) Routes() []string {
	return []string{
		"POST /api/sync",
		"POST /api/profile/update",
		"POST /api/history/add",
		"POST /api/history/clear",
		"POST /api/like/toggle",
		"POST /api/playlist/create",
		"POST /api/playlist/list",
	}
}

// ServeHTTP dispatches to the endpoint handler matching the request path.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/sync":
		a.handleSync(w, r)
	case "/api/profile/update":
		a.handleProfileUpdate(w, r)
	case "/api/history/add":
		a.handleHistoryAdd(w, r)
	case "/api/history/clear":
		a.handleHistoryClear(w, r)
	case "/api/like/toggle":
		a.handleLikeToggle(w, r)
	case "/api/playlist/create":
		a.handlePlaylistCreate(w, r)
	case "/api/playlist/list":
		a.handlePlaylistList(w, r)
	default:
		a.respondError(w, http.StatusNotFound, "not_found", "unknown endpoint")
	}
}

// syncRequest is the body of POST /api/sync.
type syncRequest struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	PhotoURL  string `json:"photo_url"`
}

func (a *API) handleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if !a.decode(w, r, &req) {
		return
	}

	snapshot, err := a.sync.Sync(models.Profile{
		UserID:    req.UserID,
		Username:  req.Username,
		FirstName: req.FirstName,
		PhotoURL:  req.PhotoURL,
	})
	if err != nil {
		a.fail(w, err)
		return
	}

	a.respond(w, map[string]any{"status": "success", "data": snapshot})
}

// profileUpdateRequest is the body of POST /api/profile/update.
type profileUpdateRequest struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
}

func (a *API) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.sync.UpdateNickname(req.UserID, req.Nickname); err != nil {
		a.fail(w, err)
		return
	}

	a.respond(w, map[string]any{"status": "success"})
}

// historyAddRequest is the body of POST /api/history/add. Exactly one of
// query or track discriminates the entry kind; query wins when both are set.
type historyAddRequest struct {
	UserID string          `json:"user_id"`
	Query  string          `json:"query"`
	Track  json.RawMessage `json:"track"`
}

func (a *API) handleHistoryAdd(w http.ResponseWriter, r *http.Request) {
	var req historyAddRequest
	if !a.decode(w, r, &req) {
		return
	}

	entry, err := models.ParseHistoryEntry(req.UserID, req.Query, req.Track)
	if err != nil {
		a.fail(w, err)
		return
	}

	if err := a.sync.AddHistory(entry); err != nil {
		a.fail(w, err)
		return
	}

	a.respond(w, map[string]any{"status": "success"})
}

// userRequest is the body of endpoints keyed by user alone.
type userRequest struct {
	UserID string `json:"user_id"`
}

func (a *API) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !a.decode(w, r, &req) {
		return
	}

	if err := a.sync.ClearHistory(req.UserID); err != nil {
		a.fail(w, err)
		return
	}

	a.respond(w, map[string]any{"status": "success"})
}

// likeToggleRequest is the body of POST /api/like/toggle.
type likeToggleRequest struct {
	UserID string          `json:"user_id"`
	Track  json.RawMessage `json:"track"`
}

func (a *API) handleLikeToggle(w http.ResponseWriter, r *http.Request) {
	var req likeToggleRequest
	if !a.decode(w, r, &req) {
		return
	}

	liked, err := a.sync.ToggleLike(req.UserID, req.Track)
	if err != nil {
		a.fail(w, err)
		return
	}

	a.respond(w, map[string]any{"status": "success", "liked": liked})
}

// playlistCreateRequest is the body of POST /api/playlist/create.
type playlistCreateRequest struct {
	UserID string            `json:"user_id"`
	Name   string            `json:"name"`
	Tracks []json.RawMessage `json:"tracks"`
}

func (a *API) handlePlaylistCreate(w http.ResponseWriter, r *http.Request) {
	var req playlistCreateRequest
	if !a.decode(w, r, &req) {
		return
	}

	playlist, err := a.sync.CreatePlaylist(req.UserID, req.Name, req.Tracks)
	if err != nil {
		a.fail(w, err)
		return
	}

	a.respond(w, map[string]any{"status": "success", "playlist_id": playlist.ID()})
}

// playlistView is the wire shape of one playlist in POST /api/playlist/list.
type playlistView struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	Tracks []models.PlaylistTrack `json:"tracks"`
}

func (a *API) handlePlaylistList(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !a.decode(w, r, &req) {
		return
	}

	playlists, err := a.sync.ListPlaylists(req.UserID)
	if err != nil {
		a.fail(w, err)
		return
	}

	views := make([]playlistView, 0, len(playlists))
	for _, playlist := range playlists {
		views = append(views, playlistView{
			ID:     playlist.ID(),
			Name:   playlist.Name(),
			Tracks: playlist.Tracks(),
		})
	}

	a.respond(w, map[string]any{"status": "success", "playlists": views})
}

// decode reads the JSON body into dst. A malformed body is a validation
// failure, reported and logged; the caller should return immediately.
func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.respondError(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return false
	}
	return true
}

// fail maps a service error to the standardized error response.
func (a *API) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		a.respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		a.respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, shared.ErrConflict):
		a.respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, shared.ErrStoreUnavailable):
		a.logger.Error("store unavailable", "error", err)
		a.respondError(w, http.StatusServiceUnavailable, "store_unavailable", "storage backend unavailable")
	default:
		a.logger.Error("unhandled error", "error", err)
		a.respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (a *API) respond(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Error("failed to encode response", "error", err)
	}
}

func (a *API) respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message}); err != nil {
		a.logger.Error("failed to encode error response", "error", err)
	}
}
