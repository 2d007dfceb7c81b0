package repositories

import (
	"errors"
	"testing"

	"github.com/mdnxzzzz/vaultmusic/internal/models"
	"github.com/mdnxzzzz/vaultmusic/internal/shared"
)

func TestUserRepositoryErrors(t *testing.T) {
	t.Run("Upsert", func(t *testing.T) {
		t.Run("MissingUserID", func(t *testing.T) {
			db := setupTestDB(t)
			repo := NewUserRepository(db)

			err := repo.Upsert(models.Profile{Username: "ana"})
			if !errors.Is(err, shared.ErrValidation) {
				t.Fatalf("expected validation error for empty user_id, got %v", err)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			repo := NewUserRepository(db)

			_, err := repo.Get("nonexistent")
			if !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected not found error, got %v", err)
			}
		})
	})

	t.Run("UpdateNickname", func(t *testing.T) {
		t.Run("UnknownUser", func(t *testing.T) {
			db := setupTestDB(t)
			repo := NewUserRepository(db)

			// No implicit creation: the write matches zero rows.
			err := repo.UpdateNickname("ghost", "nick")
			if !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected not found error, got %v", err)
			}

			if _, err := repo.Get("ghost"); !errors.Is(err, shared.ErrNotFound) {
				t.Error("nickname update must not create a user")
			}
		})

		t.Run("MissingUserID", func(t *testing.T) {
			db := setupTestDB(t)
			repo := NewUserRepository(db)

			if err := repo.UpdateNickname("", "nick"); !errors.Is(err, shared.ErrValidation) {
				t.Fatal("expected validation error for empty user_id")
			}
		})
	})
}

func TestHistoryRepositoryErrors(t *testing.T) {
	t.Run("AddSearch Empty Query", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewHistoryRepository(db)

		err := repo.AddSearch(models.NewSearchEntry("42", ""))
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("AddPlay Missing TrackID", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewHistoryRepository(db)

		err := repo.AddPlay(models.NewPlayEntry("42", "", trackJSON("t1", "X")))
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("Clear Missing UserID", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewHistoryRepository(db)

		if err := repo.Clear(""); !errors.Is(err, shared.ErrValidation) {
			t.Fatal("expected validation error for empty user_id")
		}
	})
}

func TestLikeRepositoryErrors(t *testing.T) {
	t.Run("Toggle Missing TrackID", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLikeRepository(db)

		_, err := repo.Toggle(models.NewLike("42", "", nil))
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestPlaylistRepositoryErrors(t *testing.T) {
	t.Run("Create Empty Name", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPlaylistRepository(db)

		err := repo.Create(models.NewPlaylist("42", "", nil))
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("Get NotFound", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPlaylistRepository(db)

		_, err := repo.Get("nonexistent")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected not found error, got %v", err)
		}
	})
}
