package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tenfold-cards/tenfold/internal/domain"
)

// Source fetches the study queue for a user.
type Source interface {
	FetchSession(ctx context.Context, userID uuid.UUID) (SessionData, error)
}

// Recorder persists a single judgment.
type Recorder interface {
	Record(ctx context.Context, userID, flashcardID uuid.UUID, remembered bool) (domain.ReviewResult, error)
}

// SessionConfig configures a Session. Source, Recorder and UserID are
// required; the rest default sensibly.
type SessionConfig struct {
	Source   Source
	Recorder Recorder
	UserID   uuid.UUID

	// OnUnauthorized is called, from a background goroutine, when a
	// fire-and-forget review submission fails with ErrUnauthorized.
	// Every other submission failure is logged and dropped.
	OnUnauthorized func(error)

	Clock  func() time.Time // nil → time.Now
	Logger *slog.Logger     // nil → slog.Default()
}

// Session drives one study run through a selected queue of cards, from
// load to completion or interruption. Commands mutate state
// synchronously; the only asynchronous work is the persistence call
// behind Answer, which never touches session state.
//
// A Session is safe for concurrent use, but commands are meant to be
// issued one at a time. Load is not single-flight: callers that need
// that must serialise loads themselves.
type Session struct {
	source         Source
	recorder       Recorder
	userID         uuid.UUID
	onUnauthorized func(error)
	clock          func() time.Time
	logger         *slog.Logger

	mu      sync.Mutex
	status  Status
	cards   []domain.StudyCard
	stats   domain.Statistics
	hasAny  bool
	index   int
	records []domain.AnswerRecord
	reveal  bool
	summary *domain.SessionSummary
	lastErr error

	pending sync.WaitGroup // outstanding review submissions
}

// NewSession creates an idle session for one user.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Source == nil {
		return nil, errors.New("study: session source is required")
	}
	if cfg.Recorder == nil {
		return nil, errors.New("study: session recorder is required")
	}
	if cfg.UserID == uuid.Nil {
		return nil, fmt.Errorf("user id: %w", domain.ErrUnauthorized)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		source:         cfg.Source,
		recorder:       cfg.Recorder,
		userID:         cfg.UserID,
		onUnauthorized: cfg.OnUnauthorized,
		clock:          clock,
		logger:         logger,
		status:         StatusIdle,
	}, nil
}

// Load fetches the study queue. On success the session becomes ready
// (non-empty queue) or empty; on failure it returns to idle with the
// error recorded, and the caller must retry explicitly.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	s.status = StatusLoading
	s.lastErr = nil
	s.mu.Unlock()

	data, err := s.source.FetchSession(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusIdle
		s.lastErr = err
		return err
	}

	s.cards = data.Cards
	s.stats = data.Statistics
	s.hasAny = data.HasAnyFlashcards
	s.index = 0
	s.records = nil
	s.summary = nil
	s.reveal = false
	if len(data.Cards) == 0 {
		s.status = StatusEmpty
	} else {
		s.status = StatusReady
	}
	return nil
}

// Start begins studying. No-op unless the session is ready with a
// non-empty queue. Any prior answer history is cleared and the first
// card starts hidden.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusReady || len(s.cards) == 0 {
		return
	}
	s.status = StatusStudying
	s.index = 0
	s.records = nil
	s.reveal = false
}

// Reveal shows the back of the current card. Idempotent; no-op unless
// studying.
func (s *Session) Reveal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusStudying || s.reveal {
		return
	}
	s.reveal = true
}

// Answer records a judgment for the current card. The answer history
// and position advance immediately and are never rolled back; the
// persistence call runs in the background and its failure is discarded,
// except ErrUnauthorized which is escalated through OnUnauthorized.
// Answering the last card completes the session.
func (s *Session) Answer(remembered bool) {
	s.mu.Lock()
	if s.status != StatusStudying || s.index >= len(s.cards) {
		s.mu.Unlock()
		return
	}
	card := s.cards[s.index]
	s.records = append(s.records, domain.AnswerRecord{
		FlashcardID: card.ID,
		IsNew:       card.IsNew,
		Remembered:  remembered,
		AnsweredAt:  s.clock(),
	})
	s.index++
	s.reveal = false
	if s.index == len(s.cards) {
		sum := Summarize(s.records)
		s.summary = &sum
		s.status = StatusCompleted
	}
	s.mu.Unlock()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		// Deliberately not tied to any caller context: an interrupted
		// session lets outstanding submissions finish or fail on their own.
		_, err := s.recorder.Record(context.Background(), s.userID, card.ID, remembered)
		if err == nil {
			return
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			if s.onUnauthorized != nil {
				s.onUnauthorized(err)
			}
			return
		}
		s.logger.Debug("review submission dropped",
			"flashcard_id", card.ID, "error", err)
	}()
}

// Interrupt stops the session early, summarising whatever has been
// answered so far. No-op unless studying.
func (s *Session) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusStudying {
		return
	}
	sum := Summarize(s.records)
	s.summary = &sum
	s.status = StatusInterrupted
}

// Finish waits for outstanding review submissions to settle. Their
// results are discarded either way; this only matters to callers about
// to exit the process.
func (s *Session) Finish() {
	s.pending.Wait()
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CurrentCard returns the card awaiting a judgment. It is non-nil if
// and only if the session is studying and cards remain.
func (s *Session) CurrentCard() *domain.StudyCard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusStudying || s.index >= len(s.cards) {
		return nil
	}
	card := s.cards[s.index]
	return &card
}

// IsRevealed reports whether the current card's back is shown.
func (s *Session) IsRevealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reveal
}

// Progress returns the session's running tallies.
func (s *Session) Progress() domain.SessionProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.SessionProgress{
		CurrentIndex:  s.index,
		TotalCards:    len(s.cards),
		AnsweredCount: len(s.records),
	}
	for _, r := range s.records {
		if r.Remembered {
			p.RememberedCount++
		} else {
			p.ForgottenCount++
		}
	}
	return p
}

// Statistics returns the queue composition from the last load.
func (s *Session) Statistics() domain.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// HasAnyFlashcards reports whether the user owned any flashcard at the
// last load, due or not.
func (s *Session) HasAnyFlashcards() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasAny
}

// Summary returns the final report, or false before the session has
// completed or been interrupted.
func (s *Session) Summary() (domain.SessionSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.summary == nil {
		return domain.SessionSummary{}, false
	}
	return *s.summary, true
}

// Err returns the error recorded by the last failed load, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
