// Package study implements the spaced-repetition study engine: queue
// selection, review recording, the session state machine and the
// session summary.
package study

import (
	"time"

	"github.com/tenfold-cards/tenfold/internal/domain"
)

// DefaultNewCardLimit is the per-session budget of never-reviewed cards.
const DefaultNewCardLimit = 20

// Selector builds the day's study queue from a user's full card set.
type Selector struct {
	// NewCardLimit caps how many new cards enter one session.
	// Zero means DefaultNewCardLimit.
	NewCardLimit int
}

func (s Selector) limit() int {
	if s.NewCardLimit > 0 {
		return s.NewCardLimit
	}
	return DefaultNewCardLimit
}

// Select partitions cards into review-due and new, and returns the
// ordered queue: every due card first, then new cards in their given
// order, capped at the new-card budget. The returned statistics count
// what is actually in the queue; NewCards reflects the cap, not the
// full new-card population.
func (s Selector) Select(now time.Time, cards []domain.Flashcard) ([]domain.StudyCard, domain.Statistics) {
	today := domain.DateOf(now)
	limit := s.limit()

	var queue []domain.StudyCard
	var stats domain.Statistics

	for _, c := range cards {
		if c.Due(today) {
			queue = append(queue, domain.StudyCard{ID: c.ID, Front: c.Front, Back: c.Back, IsNew: false})
			stats.ReviewCards++
		}
	}
	for _, c := range cards {
		if !c.IsNew() {
			continue
		}
		if stats.NewCards == limit {
			break
		}
		queue = append(queue, domain.StudyCard{ID: c.ID, Front: c.Front, Back: c.Back, IsNew: true})
		stats.NewCards++
	}

	stats.TotalCards = stats.ReviewCards + stats.NewCards
	return queue, stats
}
