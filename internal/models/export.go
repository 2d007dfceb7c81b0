package models

import "encoding/json"

// UserExport is the full offline dump of one user's state, assembled for the
// backup and export tooling.
type UserExport struct {
	User          *User
	Playlists     []*Playlist
	Likes         []json.RawMessage
	SearchHistory []string
	Playback      []json.RawMessage
}

// DecodeTrack parses stored track bytes into the Track DTO. Unknown fields
// are dropped; the stored bytes stay authoritative.
func DecodeTrack(data json.RawMessage) (Track, error) {
	var track Track
	if err := json.Unmarshal(data, &track); err != nil {
		return Track{}, err
	}
	return track, nil
}
