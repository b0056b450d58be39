package domain

import (
	"time"

	"github.com/google/uuid"
)

// StudyCard is the session-scoped projection of a flashcard. It is built
// at session-fetch time and immutable for the lifetime of the session.
type StudyCard struct {
	ID    uuid.UUID `json:"id"`
	Front string    `json:"front"`
	Back  string    `json:"back"`
	IsNew bool      `json:"is_new"` // true iff the card had never been reviewed at selection time
}

// Statistics describes the composition of a study queue.
type Statistics struct {
	TotalCards  int `json:"total_cards"`
	NewCards    int `json:"new_cards"` // new cards actually included, after the per-session budget
	ReviewCards int `json:"review_cards"`
}

// AnswerRecord is one judgment made during a session, in judgment order.
// Records are appended exactly once and never mutated.
type AnswerRecord struct {
	FlashcardID uuid.UUID
	IsNew       bool
	Remembered  bool
	AnsweredAt  time.Time
}

// SessionProgress is the running position of a session.
// Invariant: AnsweredCount = RememberedCount + ForgottenCount = CurrentIndex.
type SessionProgress struct {
	CurrentIndex    int // 0-based position of the next unanswered card
	TotalCards      int
	AnsweredCount   int
	RememberedCount int
	ForgottenCount  int
}

// SessionSummary aggregates a session's answer history.
// Invariant: NewCardsReviewed + ReviewCardsReviewed = TotalReviewed.
type SessionSummary struct {
	TotalReviewed       int `json:"total_reviewed"`
	NewCardsReviewed    int `json:"new_cards_reviewed"`
	ReviewCardsReviewed int `json:"review_cards_reviewed"`
	RememberedCount     int `json:"remembered_count"`
	ForgottenCount      int `json:"forgotten_count"`
	SuccessRate         int `json:"success_rate"` // integer percent, 0 for an empty session
}

// ReviewResult is the updated scheduling record returned after a judgment
// is applied to a card.
type ReviewResult struct {
	FlashcardID    uuid.UUID `json:"flashcard_id"`
	Interval       int       `json:"interval"`
	EaseFactor     float64   `json:"ease_factor"`
	Repetitions    int       `json:"repetitions"`
	NextReviewDate Date      `json:"next_review_date"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}
