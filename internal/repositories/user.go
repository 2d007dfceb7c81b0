package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mdnxzzzz/vaultmusic/internal/models"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

// UserRepository persists the identity & profile store.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{db: tx}
}

// Upsert applies the sync contract: create the user on first sight with
// last_seen = now, otherwise overwrite the display attributes with whatever
// the client sent (last-write-wins, empty values included) and refresh
// last_seen. The nickname and created_at columns are never touched here.
func (r *UserRepository) Upsert(profile models.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO users (id, username, first_name, photo_url, created_at, last_seen)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			photo_url = excluded.photo_url,
			last_seen = excluded.last_seen
	`

	_, err := r.db.Exec(query, profile.UserID, profile.Username, profile.FirstName, profile.PhotoURL, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// Get retrieves a user by their external identifier.
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := `
		SELECT id, username, first_name, nickname, photo_url, created_at, last_seen
		FROM users
		WHERE id = ?
	`

	var (
		userID    string
		username  string
		firstName string
		nickname  sql.NullString
		photoURL  string
		createdAt time.Time
		lastSeen  time.Time
	)

	err := r.db.QueryRow(query, id).Scan(&userID, &username, &firstName, &nickname, &photoURL, &createdAt, &lastSeen)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user := models.NewUser(models.Profile{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		PhotoURL:  photoURL,
	})
	user.SetCreatedAt(createdAt)
	user.SetLastSeen(lastSeen)
	if nickname.Valid {
		user.SetNickname(nickname.String)
	}

	return user, nil
}

// ListIDs returns every known user identifier in creation order.
func (r *UserRepository) ListIDs() ([]string, error) {
	rows, err := r.db.Query("SELECT id FROM users ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query user ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// UpdateNickname sets the nickname for an existing user. A write that
// matches no row reports [shared.ErrNotFound]; no user is ever created here.
func (r *UserRepository) UpdateNickname(userID, nickname string) error {
	if userID == "" {
		return shared.ErrMissingUserID
	}

	result, err := r.db.Exec("UPDATE users SET nickname = ? WHERE id = ?", nickname, userID)
	if err != nil {
		return fmt.Errorf("failed to update nickname: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: user %s", shared.ErrNotFound, userID)
	}

	return nil
}
