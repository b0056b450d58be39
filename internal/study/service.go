package study

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tenfold-cards/tenfold/internal/domain"
	"github.com/tenfold-cards/tenfold/internal/sm2"
)

// Store is the persistence surface the study service needs.
type Store interface {
	CardsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Flashcard, error)
	HasAny(ctx context.Context, userID uuid.UUID) (bool, error)
	Flashcard(ctx context.Context, userID, id uuid.UUID) (domain.Flashcard, error)
	UpdateScheduling(ctx context.Context, userID, id uuid.UUID, p sm2.Params, nextReview domain.Date, reviewedAt time.Time) error
}

// SessionData is the result of a session fetch: the ordered queue, its
// composition, and whether the user owns any flashcard at all.
type SessionData struct {
	Cards            []domain.StudyCard `json:"cards"`
	Statistics       domain.Statistics  `json:"statistics"`
	HasAnyFlashcards bool               `json:"has_any_flashcards"`
}

// Service is the study engine's storage-facing half: it builds session
// queues and records judgments.
type Service struct {
	store    Store
	selector Selector
	now      func() time.Time
}

// NewService creates a study service. limit is the per-session new-card
// budget; zero means the default.
func NewService(store Store, newCardLimit int) *Service {
	return &Service{
		store:    store,
		selector: Selector{NewCardLimit: newCardLimit},
		now:      time.Now,
	}
}

// FetchSession builds the study queue for a user: all review-due cards
// first, then new cards up to the budget.
func (s *Service) FetchSession(ctx context.Context, userID uuid.UUID) (SessionData, error) {
	if userID == uuid.Nil {
		return SessionData{}, domain.ErrUnauthorized
	}

	cards, err := s.store.CardsByUser(ctx, userID)
	if err != nil {
		return SessionData{}, fmt.Errorf("fetch session: %w", err)
	}
	hasAny, err := s.store.HasAny(ctx, userID)
	if err != nil {
		return SessionData{}, fmt.Errorf("fetch session: %w", err)
	}

	queue, stats := s.selector.Select(s.now(), cards)
	return SessionData{Cards: queue, Statistics: stats, HasAnyFlashcards: hasAny}, nil
}

// Record applies a judgment to a card: it loads the current scheduling
// parameters scoped to the owner, runs the scheduler, and persists the
// new parameters with next_review_date = today + interval and
// last_reviewed_at = now. Nothing is retried.
func (s *Service) Record(ctx context.Context, userID, flashcardID uuid.UUID, remembered bool) (domain.ReviewResult, error) {
	if userID == uuid.Nil {
		return domain.ReviewResult{}, domain.ErrUnauthorized
	}
	if flashcardID == uuid.Nil {
		return domain.ReviewResult{}, fmt.Errorf("flashcard id: %w", domain.ErrInvalidInput)
	}

	card, err := s.store.Flashcard(ctx, userID, flashcardID)
	if err != nil {
		return domain.ReviewResult{}, err
	}

	next := sm2.Next(sm2.Params{
		Interval:    card.Interval,
		EaseFactor:  card.EaseFactor,
		Repetitions: card.Repetitions,
	}, remembered)

	now := s.now().UTC()
	nextReview := domain.DateOf(now).AddDays(next.Interval)

	if err := s.store.UpdateScheduling(ctx, userID, flashcardID, next, nextReview, now); err != nil {
		return domain.ReviewResult{}, err
	}

	return domain.ReviewResult{
		FlashcardID:    flashcardID,
		Interval:       next.Interval,
		EaseFactor:     next.EaseFactor,
		Repetitions:    next.Repetitions,
		NextReviewDate: nextReview,
		LastReviewedAt: now,
	}, nil
}
