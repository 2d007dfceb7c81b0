// package formatter renders user state exports to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mdnxzzzz/vaultmusic/internal/models"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

// ExportToJSON converts a UserExport to indented JSON.
func ExportToJSON(export *models.UserExport) ([]byte, error) {
	view := map[string]any{
		"user": map[string]any{
			"id":         export.User.ID(),
			"username":   export.User.Username(),
			"first_name": export.User.FirstName(),
			"nickname":   export.User.Nickname(),
			"created_at": export.User.CreatedAt(),
			"last_seen":  export.User.LastSeen(),
		},
		"search_history": export.SearchHistory,
		"playback":       export.Playback,
		"likes":          export.Likes,
		"playlists":      playlistViews(export.Playlists),
	}

	data, err := shared.MarshalJSON(view, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JSON: %w", err)
	}
	return data, nil
}

func playlistViews(playlists []*models.Playlist) []map[string]any {
	views := make([]map[string]any, 0, len(playlists))
	for _, playlist := range playlists {
		views = append(views, map[string]any{
			"id":         playlist.ID(),
			"name":       playlist.Name(),
			"created_at": playlist.CreatedAt(),
			"tracks":     playlist.Tracks(),
		})
	}
	return views
}

// ExportToCSV flattens a UserExport into one CSV table with columns:
// Source, Position, ID, Title, Artist, Type, URL. Likes appear under the
// source "likes", playlist tracks under the playlist's name.
func ExportToCSV(export *models.UserExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Source", "Position", "ID", "Title", "Artist", "Type", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, data := range export.Likes {
		track, err := models.DecodeTrack(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode liked track: %w", err)
		}
		if err := writeTrackRecord(writer, "likes", i, track); err != nil {
			return nil, err
		}
	}

	for _, playlist := range export.Playlists {
		for _, entry := range playlist.Tracks() {
			track, err := models.DecodeTrack(entry.TrackData)
			if err != nil {
				return nil, fmt.Errorf("failed to decode playlist track: %w", err)
			}
			if err := writeTrackRecord(writer, playlist.Name(), entry.Position, track); err != nil {
				return nil, err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func writeTrackRecord(writer *csv.Writer, source string, position int, track models.Track) error {
	record := []string{
		source,
		strconv.Itoa(position),
		track.ID,
		track.Title,
		track.Artist,
		track.Type,
		track.URL,
	}
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("failed to write CSV record: %w", err)
	}
	return nil
}

// ExportToMarkdown converts a UserExport to a Markdown document.
func ExportToMarkdown(export *models.UserExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", displayName(export.User)))
	buf.WriteString(fmt.Sprintf("**Likes**: %d\n", len(export.Likes)))
	buf.WriteString(fmt.Sprintf("**Plays recorded**: %d\n", len(export.Playback)))
	buf.WriteString(fmt.Sprintf("**Playlists**: %d\n\n", len(export.Playlists)))

	if len(export.Likes) > 0 {
		buf.WriteString("## Liked tracks\n\n")
		for i, data := range export.Likes {
			track, err := models.DecodeTrack(data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode liked track: %w", err)
			}
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, trackLine(track)))
		}
		buf.WriteString("\n")
	}

	for _, playlist := range export.Playlists {
		buf.WriteString(fmt.Sprintf("## %s\n\n", playlist.Name()))
		for _, entry := range playlist.Tracks() {
			track, err := models.DecodeTrack(entry.TrackData)
			if err != nil {
				return nil, fmt.Errorf("failed to decode playlist track: %w", err)
			}
			buf.WriteString(fmt.Sprintf("%d. %s\n", entry.Position+1, trackLine(track)))
		}
		buf.WriteString("\n")
	}

	if len(export.SearchHistory) > 0 {
		buf.WriteString("## Recent searches\n\n")
		for _, query := range export.SearchHistory {
			buf.WriteString(fmt.Sprintf("- %s\n", query))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a UserExport to plain text format
func ExportToText(export *models.UserExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("User: %s\n", displayName(export.User)))
	buf.WriteString(fmt.Sprintf("Likes: %d\n\n", len(export.Likes)))

	for i, data := range export.Likes {
		track, err := models.DecodeTrack(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode liked track: %w", err)
		}
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, trackLine(track)))
	}

	return buf.Bytes(), nil
}

func displayName(user *models.User) string {
	if user.Nickname() != "" {
		return user.Nickname()
	}
	if user.Username() != "" {
		return user.Username()
	}
	return user.ID()
}

func trackLine(track models.Track) string {
	if track.Artist != "" {
		return fmt.Sprintf("%s - %s", track.Artist, track.Title)
	}
	if track.Title != "" {
		return track.Title
	}
	return track.ID
}

// WriteExport renders the export in the requested format and writes it under
// dir as {user_id}.{ext}. Returns the written path.
func WriteExport(export *models.UserExport, dir, format string) (string, error) {
	var (
		data []byte
		ext  string
		err  error
	)

	switch format {
	case "json", "":
		data, err = ExportToJSON(export)
		ext = "json"
	case "csv":
		data, err = ExportToCSV(export)
		ext = "csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(export)
		ext = "md"
	case "txt", "text":
		data, err = ExportToText(export)
		ext = "txt"
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrValidation, format)
	}

	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.%s", export.User.ID(), ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
