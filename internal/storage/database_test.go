package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tenfold-cards/tenfold/internal/domain"
	"github.com/tenfold-cards/tenfold/internal/sm2"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "storage_test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *DB) domain.User {
	t.Helper()
	u, err := db.CreateUser(context.Background(), "user@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db)

	_, err := db.CreateUser(context.Background(), "user@example.com", "other")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestUserByEmail(t *testing.T) {
	db := openTestDB(t)
	want := seedUser(t, db)

	got, err := db.UserByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("UserByEmail: %v", err)
	}
	if got.ID != want.ID || got.PasswordHash != "hash" {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	if _, err := db.UserByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCreateFlashcardDefaults(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	ctx := context.Background()

	card, err := db.CreateFlashcard(ctx, user.ID, "What is Go?", "A programming language.", uuid.NewString())
	if err != nil {
		t.Fatalf("CreateFlashcard: %v", err)
	}
	if card.Interval != 0 || card.EaseFactor != 2.5 || card.Repetitions != 0 {
		t.Errorf("Unexpected scheduling defaults: %+v", card)
	}
	if !card.IsNew() {
		t.Error("Expected a fresh card to be new")
	}
	if card.NextReviewDate != domain.Today() {
		t.Errorf("Expected next review today, got %s", card.NextReviewDate)
	}

	got, err := db.Flashcard(ctx, user.ID, card.ID)
	if err != nil {
		t.Fatalf("Flashcard: %v", err)
	}
	if got.Front != card.Front || got.Back != card.Back || !got.IsNew() {
		t.Errorf("Round trip mismatch: %+v", got)
	}
}

func TestFlashcardScopedToOwner(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	ctx := context.Background()
	other, err := db.CreateUser(ctx, "other@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	card, err := db.CreateFlashcard(ctx, other.ID, "front", "back", uuid.NewString())
	if err != nil {
		t.Fatalf("CreateFlashcard: %v", err)
	}

	if _, err := db.Flashcard(ctx, user.ID, card.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected another user's card to be not found, got %v", err)
	}
}

func TestUpdateScheduling(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	ctx := context.Background()
	card, err := db.CreateFlashcard(ctx, user.ID, "front", "back", uuid.NewString())
	if err != nil {
		t.Fatalf("CreateFlashcard: %v", err)
	}

	now := time.Now().UTC()
	next := domain.DateOf(now).AddDays(6)
	p := sm2.Params{Interval: 6, EaseFactor: 2.7, Repetitions: 2}
	if err := db.UpdateScheduling(ctx, user.ID, card.ID, p, next, now); err != nil {
		t.Fatalf("UpdateScheduling: %v", err)
	}

	got, err := db.Flashcard(ctx, user.ID, card.ID)
	if err != nil {
		t.Fatalf("Flashcard: %v", err)
	}
	if got.Interval != 6 || got.EaseFactor != 2.7 || got.Repetitions != 2 {
		t.Errorf("Scheduling fields not persisted: %+v", got)
	}
	if got.NextReviewDate != next {
		t.Errorf("Expected next review %s, got %s", next, got.NextReviewDate)
	}
	if got.LastReviewedAt == nil {
		t.Fatal("Expected last_reviewed_at set")
	}

	if err := db.UpdateScheduling(ctx, user.ID, uuid.New(), p, next, now); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown card, got %v", err)
	}
}

func TestResetProgress(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	ctx := context.Background()
	card, err := db.CreateFlashcard(ctx, user.ID, "front", "back", uuid.NewString())
	if err != nil {
		t.Fatalf("CreateFlashcard: %v", err)
	}
	now := time.Now().UTC()
	p := sm2.Params{Interval: 10, EaseFactor: 2.8, Repetitions: 4}
	if err := db.UpdateScheduling(ctx, user.ID, card.ID, p, domain.DateOf(now).AddDays(10), now); err != nil {
		t.Fatalf("UpdateScheduling: %v", err)
	}

	got, err := db.ResetProgress(ctx, user.ID, card.ID)
	if err != nil {
		t.Fatalf("ResetProgress: %v", err)
	}
	if got.Interval != 0 || got.EaseFactor != 2.5 || got.Repetitions != 0 || !got.IsNew() {
		t.Errorf("Expected creation defaults after reset, got %+v", got)
	}
}

func TestListFlashcards(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	ctx := context.Background()

	fronts := []string{"alpha", "bravo", "charlie"}
	for _, f := range fronts {
		if _, err := db.CreateFlashcard(ctx, user.ID, f, "back", uuid.NewString()); err != nil {
			t.Fatalf("CreateFlashcard: %v", err)
		}
	}

	t.Run("paging", func(t *testing.T) {
		cards, total, err := db.ListFlashcards(ctx, user.ID, ListOptions{PerPage: 2})
		if err != nil {
			t.Fatalf("ListFlashcards: %v", err)
		}
		if total != 3 || len(cards) != 2 {
			t.Errorf("Expected total 3 page of 2, got total %d page %d", total, len(cards))
		}
	})

	t.Run("search", func(t *testing.T) {
		cards, total, err := db.ListFlashcards(ctx, user.ID, ListOptions{Search: "brav"})
		if err != nil {
			t.Fatalf("ListFlashcards: %v", err)
		}
		if total != 1 || len(cards) != 1 || cards[0].Front != "bravo" {
			t.Errorf("Expected only bravo, got total %d cards %+v", total, cards)
		}
	})

	t.Run("sort by front descending", func(t *testing.T) {
		cards, _, err := db.ListFlashcards(ctx, user.ID, ListOptions{Sort: "front", Desc: true})
		if err != nil {
			t.Fatalf("ListFlashcards: %v", err)
		}
		if cards[0].Front != "charlie" {
			t.Errorf("Expected charlie first, got %s", cards[0].Front)
		}
	})

	t.Run("invalid sort column", func(t *testing.T) {
		_, _, err := db.ListFlashcards(ctx, user.ID, ListOptions{Sort: "id; DROP TABLE flashcards"})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestHasAny(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	ctx := context.Background()

	has, err := db.HasAny(ctx, user.ID)
	if err != nil {
		t.Fatalf("HasAny: %v", err)
	}
	if has {
		t.Error("Expected no cards for a fresh user")
	}

	if _, err := db.CreateFlashcard(ctx, user.ID, "front", "back", uuid.NewString()); err != nil {
		t.Fatalf("CreateFlashcard: %v", err)
	}
	has, err = db.HasAny(ctx, user.ID)
	if err != nil {
		t.Fatalf("HasAny: %v", err)
	}
	if !has {
		t.Error("Expected cards after insert")
	}
}

func TestFlashcardByFingerprint(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	ctx := context.Background()

	fp := uuid.NewString()
	card, err := db.CreateFlashcard(ctx, user.ID, "front", "back", fp)
	if err != nil {
		t.Fatalf("CreateFlashcard: %v", err)
	}

	got, err := db.FlashcardByFingerprint(ctx, user.ID, fp)
	if err != nil {
		t.Fatalf("FlashcardByFingerprint: %v", err)
	}
	if got.ID != card.ID {
		t.Errorf("Expected card %s, got %s", card.ID, got.ID)
	}

	if _, err := db.FlashcardByFingerprint(ctx, user.ID, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	ctx := context.Background()
	if _, err := db.CreateFlashcard(ctx, user.ID, "front", "back", uuid.NewString()); err != nil {
		t.Fatalf("CreateFlashcard: %v", err)
	}

	if err := db.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	has, err := db.HasAny(ctx, user.ID)
	if err != nil {
		t.Fatalf("HasAny: %v", err)
	}
	if has {
		t.Error("Expected flashcards deleted with their owner")
	}
}

func TestDeleteFlashcard(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	ctx := context.Background()
	card, err := db.CreateFlashcard(ctx, user.ID, "front", "back", uuid.NewString())
	if err != nil {
		t.Fatalf("CreateFlashcard: %v", err)
	}

	if err := db.DeleteFlashcard(ctx, user.ID, card.ID); err != nil {
		t.Fatalf("DeleteFlashcard: %v", err)
	}
	if err := db.DeleteFlashcard(ctx, user.ID, card.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}
