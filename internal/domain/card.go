package domain

import (
	"time"

	"github.com/google/uuid"
)

// Flashcard is a single front/back card owned by a user, together with
// the scheduling fields the spaced-repetition engine reads and writes.
type Flashcard struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Front       string
	Back        string
	Fingerprint string

	// Scheduling state. A card starts with Interval=0, EaseFactor=2.5,
	// Repetitions=0, NextReviewDate=creation date and no LastReviewedAt.
	Interval       int
	EaseFactor     float64
	Repetitions    int
	NextReviewDate Date
	LastReviewedAt *time.Time // nil until the first review

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsNew reports whether the card has never been reviewed.
func (f Flashcard) IsNew() bool {
	return f.LastReviewedAt == nil
}

// Due reports whether the card is due for review on the given day.
// New cards are never due; they enter the queue through the new-card budget.
func (f Flashcard) Due(today Date) bool {
	return f.LastReviewedAt != nil && !f.NextReviewDate.After(today)
}

// User is an account that owns flashcards.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
