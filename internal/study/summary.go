package study

import (
	"math"

	"github.com/tenfold-cards/tenfold/internal/domain"
)

// Summarize reduces an ordered answer history into session totals. It
// may be called at any point of a session, including on an empty
// history, and always returns a well-formed summary.
func Summarize(records []domain.AnswerRecord) domain.SessionSummary {
	sum := domain.SessionSummary{TotalReviewed: len(records)}
	for _, r := range records {
		if r.IsNew {
			sum.NewCardsReviewed++
		} else {
			sum.ReviewCardsReviewed++
		}
		if r.Remembered {
			sum.RememberedCount++
		} else {
			sum.ForgottenCount++
		}
	}
	if sum.TotalReviewed > 0 {
		sum.SuccessRate = int(math.Round(float64(sum.RememberedCount) / float64(sum.TotalReviewed) * 100))
	}
	return sum
}
