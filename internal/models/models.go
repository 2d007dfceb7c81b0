package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

// Model defines the base interface for all persistent entities.
type Model interface {
	ID() string           // ID returns the unique identifier for this entity
	CreatedAt() time.Time // CreatedAt returns when this entity was created
	Validate() error      // Validate checks if the entity's data is valid and returns an error if not
}

// Track is the client's track object. The backend treats it as opaque
// beyond the id: whatever the client sends is stored and returned verbatim.
type Track struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Cover  string `json:"cover,omitempty"`
	URL    string `json:"url,omitempty"`
	Type   string `json:"type,omitempty"`
}

// Profile is the identity payload the client sends on session sync.
// UserID is the opaque external identity; everything else is display data.
type Profile struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	PhotoURL  string `json:"photo_url"`
}

// Validate checks the profile carries a usable identity.
func (p Profile) Validate() error {
	if p.UserID == "" {
		return shared.ErrMissingUserID
	}
	return nil
}

// Stats carries the usage counters returned with every snapshot.
type Stats struct {
	Played    int `json:"played"`
	Likes     int `json:"likes"`
	Playlists int `json:"playlists"`
}

// Snapshot is the bounded, recency-ordered view of a user's state returned
// by a session sync. Playback and like payloads are the stored track bytes,
// embedded untouched.
type Snapshot struct {
	Nickname        string            `json:"nickname"`
	SearchHistory   []string          `json:"search_history"`
	PlaybackHistory []json.RawMessage `json:"playback_history"`
	Likes           []json.RawMessage `json:"likes"`
	Stats           Stats             `json:"stats"`
}

// User is the persistent identity record. The id is the external user_id
// and is immutable once created; nothing in this backend deletes a user.
type User struct {
	id        string
	username  string
	firstName string
	nickname  string
	photoURL  string
	createdAt time.Time
	lastSeen  time.Time
}

// NewUser creates a user record from a sync profile with both timestamps set to now.
func NewUser(profile Profile) *User {
	now := time.Now().UTC()
	return &User{
		id:        profile.UserID,
		username:  profile.Username,
		firstName: profile.FirstName,
		photoURL:  profile.PhotoURL,
		createdAt: now,
		lastSeen:  now,
	}
}

func (u *User) ID() string           { return u.id }
func (u *User) Username() string     { return u.username }
func (u *User) FirstName() string    { return u.firstName }
func (u *User) PhotoURL() string     { return u.photoURL }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) LastSeen() time.Time  { return u.lastSeen }

// Nickname returns the user-settable display name; empty means never set.
func (u *User) Nickname() string { return u.nickname }

func (u *User) SetNickname(nickname string)    { u.nickname = nickname }
func (u *User) SetCreatedAt(t time.Time)       { u.createdAt = t }
func (u *User) SetLastSeen(t time.Time)        { u.lastSeen = t }
func (u *User) SetUsername(username string)    { u.username = username }
func (u *User) SetFirstName(firstName string)  { u.firstName = firstName }
func (u *User) SetPhotoURL(photoURL string)    { u.photoURL = photoURL }

// Validate checks if the user's data is valid.
func (u *User) Validate() error {
	if u.id == "" {
		return shared.ErrMissingUserID
	}
	return nil
}

// SearchEntry is one append-only search history row.
type SearchEntry struct {
	id        string
	sequence  int
	userID    string
	query     string
	createdAt time.Time
}

// NewSearchEntry creates a search history row stamped with the current time.
func NewSearchEntry(userID, query string) *SearchEntry {
	return &SearchEntry{
		userID:    userID,
		query:     query,
		createdAt: time.Now().UTC(),
	}
}

func (e *SearchEntry) ID() string           { return e.id }
func (e *SearchEntry) Sequence() int        { return e.sequence }
func (e *SearchEntry) UserID() string       { return e.userID }
func (e *SearchEntry) Query() string        { return e.query }
func (e *SearchEntry) CreatedAt() time.Time { return e.createdAt }

func (e *SearchEntry) SetID(id string)          { e.id = id }
func (e *SearchEntry) SetSequence(sequence int) { e.sequence = sequence }
func (e *SearchEntry) SetCreatedAt(t time.Time) { e.createdAt = t }

// Validate checks if the search entry's data is valid.
func (e *SearchEntry) Validate() error {
	if e.userID == "" {
		return shared.ErrMissingUserID
	}
	if e.query == "" {
		return fmt.Errorf("%w: empty query", shared.ErrValidation)
	}
	return nil
}

// PlayEntry is one append-only playback history row. The track bytes are
// the client's object serialized verbatim; repeat plays are separate rows.
type PlayEntry struct {
	id        string
	sequence  int
	userID    string
	trackID   string
	trackData json.RawMessage
	createdAt time.Time
}

// NewPlayEntry creates a playback history row stamped with the current time.
func NewPlayEntry(userID, trackID string, trackData json.RawMessage) *PlayEntry {
	return &PlayEntry{
		userID:    userID,
		trackID:   trackID,
		trackData: trackData,
		createdAt: time.Now().UTC(),
	}
}

func (e *PlayEntry) ID() string                 { return e.id }
func (e *PlayEntry) Sequence() int              { return e.sequence }
func (e *PlayEntry) UserID() string             { return e.userID }
func (e *PlayEntry) TrackID() string            { return e.trackID }
func (e *PlayEntry) TrackData() json.RawMessage { return e.trackData }
func (e *PlayEntry) CreatedAt() time.Time       { return e.createdAt }

func (e *PlayEntry) SetID(id string)          { e.id = id }
func (e *PlayEntry) SetSequence(sequence int) { e.sequence = sequence }
func (e *PlayEntry) SetCreatedAt(t time.Time) { e.createdAt = t }

// Validate checks if the playback entry's data is valid.
func (e *PlayEntry) Validate() error {
	if e.userID == "" {
		return shared.ErrMissingUserID
	}
	if e.trackID == "" {
		return fmt.Errorf("%w: track missing id", shared.ErrValidation)
	}
	if len(e.trackData) == 0 {
		return fmt.Errorf("%w: empty track data", shared.ErrValidation)
	}
	return nil
}

// Like is one (user, track) preference row. Row presence means "liked";
// there is never more than one row per pair.
type Like struct {
	userID    string
	trackID   string
	sequence  int
	trackData json.RawMessage
	createdAt time.Time
}

// NewLike captures the track metadata at the time of the like.
func NewLike(userID, trackID string, trackData json.RawMessage) *Like {
	return &Like{
		userID:    userID,
		trackID:   trackID,
		trackData: trackData,
		createdAt: time.Now().UTC(),
	}
}

// ID returns the composite key rendered as user/track.
func (l *Like) ID() string                 { return l.userID + "/" + l.trackID }
func (l *Like) UserID() string             { return l.userID }
func (l *Like) TrackID() string            { return l.trackID }
func (l *Like) Sequence() int              { return l.sequence }
func (l *Like) TrackData() json.RawMessage { return l.trackData }
func (l *Like) CreatedAt() time.Time       { return l.createdAt }

func (l *Like) SetSequence(sequence int) { l.sequence = sequence }
func (l *Like) SetCreatedAt(t time.Time) { l.createdAt = t }

// Validate checks if the like's data is valid.
func (l *Like) Validate() error {
	if l.userID == "" {
		return shared.ErrMissingUserID
	}
	if l.trackID == "" {
		return fmt.Errorf("%w: track missing id", shared.ErrValidation)
	}
	return nil
}

// PlaylistTrack is one track reference within a playlist. Position carries
// the user-visible order and is preserved on every read.
type PlaylistTrack struct {
	Position  int             `json:"position"`
	TrackID   string          `json:"track_id"`
	TrackData json.RawMessage `json:"track"`
}

// Playlist is a named, ordered track collection owned by exactly one user.
type Playlist struct {
	id        string
	sequence  int
	userID    string
	name      string
	tracks    []PlaylistTrack
	createdAt time.Time
}

// NewPlaylist creates a playlist with the given ordered tracks, positions assigned by slice order.
func NewPlaylist(userID, name string, tracks []PlaylistTrack) *Playlist {
	for i := range tracks {
		tracks[i].Position = i
	}
	return &Playlist{
		userID:    userID,
		name:      name,
		tracks:    tracks,
		createdAt: time.Now().UTC(),
	}
}

func (p *Playlist) ID() string              { return p.id }
func (p *Playlist) Sequence() int           { return p.sequence }
func (p *Playlist) UserID() string          { return p.userID }
func (p *Playlist) Name() string            { return p.name }
func (p *Playlist) Tracks() []PlaylistTrack { return p.tracks }
func (p *Playlist) CreatedAt() time.Time    { return p.createdAt }

func (p *Playlist) SetID(id string)                  { p.id = id }
func (p *Playlist) SetSequence(sequence int)         { p.sequence = sequence }
func (p *Playlist) SetCreatedAt(t time.Time)         { p.createdAt = t }
func (p *Playlist) SetTracks(tracks []PlaylistTrack) { p.tracks = tracks }

// Validate checks if the playlist's data is valid.
func (p *Playlist) Validate() error {
	if p.userID == "" {
		return shared.ErrMissingUserID
	}
	if p.name == "" {
		return fmt.Errorf("%w: empty playlist name", shared.ErrValidation)
	}
	return nil
}
