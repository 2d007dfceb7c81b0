package models

import (
	"encoding/json"
	"fmt"

	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

// HistoryKind discriminates the two payload shapes the history/add endpoint accepts.
type HistoryKind int

const (
	HistoryUnknown HistoryKind = iota
	HistorySearch
	HistoryPlayback
)

// HistoryEntry is the tagged variant decoded at the API boundary: a request
// carrying a query is a search append, one carrying a track object is a
// playback append. The discriminant is explicit so downstream code switches
// on Kind instead of sniffing field presence.
type HistoryEntry struct {
	Kind      HistoryKind
	UserID    string
	Query     string
	TrackID   string
	TrackData json.RawMessage
}

// ParseHistoryEntry builds the tagged variant from the raw request fields.
// A non-empty query wins when both are present, matching how the client
// only ever sends one of the two. Neither present fails validation.
func ParseHistoryEntry(userID, query string, track json.RawMessage) (HistoryEntry, error) {
	if userID == "" {
		return HistoryEntry{}, shared.ErrMissingUserID
	}

	if query != "" {
		return HistoryEntry{
			Kind:   HistorySearch,
			UserID: userID,
			Query:  query,
		}, nil
	}

	if len(track) > 0 && string(track) != "null" {
		trackID, err := TrackIDOf(track)
		if err != nil {
			return HistoryEntry{}, err
		}
		return HistoryEntry{
			Kind:      HistoryPlayback,
			UserID:    userID,
			TrackID:   trackID,
			TrackData: track,
		}, nil
	}

	return HistoryEntry{}, shared.ErrMissingPayload
}

// TrackIDOf extracts the id field from a client track object without
// disturbing the rest of the payload.
func TrackIDOf(track json.RawMessage) (string, error) {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(track, &probe); err != nil {
		return "", fmt.Errorf("%w: malformed track object: %v", shared.ErrValidation, err)
	}
	if probe.ID == "" {
		return "", fmt.Errorf("%w: track missing id", shared.ErrValidation)
	}
	return probe.ID, nil
}
