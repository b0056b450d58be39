// Package sm2 implements the binary-judgment SM-2 variant used to
// schedule flashcard reviews. The caller grades a card as remembered or
// forgotten; there is no 0-5 quality scale.
package sm2

import "math"

const (
	// DefaultEaseFactor is the ease factor assigned to a freshly created card.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the canonical SM-2 floor, applied on failed recall.
	MinEaseFactor = 1.3
)

// Params holds the scheduling parameters for one card.
type Params struct {
	Interval    int     // days until the next review, >= 0
	EaseFactor  float64 // interval growth multiplier, >= MinEaseFactor
	Repetitions int     // consecutive remembered judgments since the last failure
}

// NewCardParams returns the parameters a card carries at creation time.
func NewCardParams() Params {
	return Params{Interval: 0, EaseFactor: DefaultEaseFactor, Repetitions: 0}
}

// Next computes the parameters after one judgment. It is deterministic
// and has no side effects.
//
// On remembered: the interval progresses 1, 6, round(interval*ease) and
// the ease factor becomes max(2.5, ease+0.1). Clamping the success path
// at the 2.5 default rather than the 1.3 floor is inherited from the
// product this scheduler is compatible with; stored decks depend on it,
// so it is preserved as-is.
//
// On forgotten: the card restarts at interval 1 with repetitions 0 and
// the ease factor drops by 0.2, clamped at MinEaseFactor.
func Next(p Params, remembered bool) Params {
	if !remembered {
		return Params{
			Interval:    1,
			EaseFactor:  math.Max(MinEaseFactor, p.EaseFactor-0.2),
			Repetitions: 0,
		}
	}

	var interval int
	switch p.Repetitions {
	case 0:
		interval = 1
	case 1:
		interval = 6
	default:
		interval = int(math.Round(float64(p.Interval) * p.EaseFactor))
	}

	return Params{
		Interval:    interval,
		EaseFactor:  math.Max(DefaultEaseFactor, p.EaseFactor+0.1),
		Repetitions: p.Repetitions + 1,
	}
}
