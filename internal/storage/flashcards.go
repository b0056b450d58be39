package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tenfold-cards/tenfold/internal/domain"
	"github.com/tenfold-cards/tenfold/internal/sm2"
)

const flashcardColumns = `id, user_id, front, back, fingerprint,
	interval, ease_factor, repetitions, next_review_date, last_reviewed_at,
	created_at, updated_at`

func scanFlashcard(row interface{ Scan(...any) error }) (domain.Flashcard, error) {
	var (
		f            domain.Flashcard
		nextReview   time.Time
		lastReviewed sql.NullTime
	)
	err := row.Scan(
		&f.ID, &f.UserID, &f.Front, &f.Back, &f.Fingerprint,
		&f.Interval, &f.EaseFactor, &f.Repetitions, &nextReview, &lastReviewed,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return domain.Flashcard{}, err
	}
	f.NextReviewDate = domain.DateOf(nextReview)
	if lastReviewed.Valid {
		t := lastReviewed.Time
		f.LastReviewedAt = &t
	}
	return f, nil
}

// CreateFlashcard inserts a new card with creation-default scheduling
// fields: interval 0, ease factor 2.5, repetitions 0, next review today,
// never reviewed.
func (db *DB) CreateFlashcard(ctx context.Context, userID uuid.UUID, front, back, fingerprint string) (domain.Flashcard, error) {
	now := time.Now().UTC()
	p := sm2.NewCardParams()
	f := domain.Flashcard{
		ID:             uuid.New(),
		UserID:         userID,
		Front:          front,
		Back:           back,
		Fingerprint:    fingerprint,
		Interval:       p.Interval,
		EaseFactor:     p.EaseFactor,
		Repetitions:    p.Repetitions,
		NextReviewDate: domain.DateOf(now),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO flashcards (id, user_id, front, back, fingerprint,
			interval, ease_factor, repetitions, next_review_date, last_reviewed_at,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)
	`, f.ID, f.UserID, f.Front, f.Back, f.Fingerprint,
		f.Interval, f.EaseFactor, f.Repetitions, f.NextReviewDate.Time(),
		f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return domain.Flashcard{}, fmt.Errorf("failed to insert flashcard for user %s: %w", userID, err)
	}
	return f, nil
}

// Flashcard retrieves a single card scoped to its owner. A card owned by
// another user is indistinguishable from a missing one.
func (db *DB) Flashcard(ctx context.Context, userID, id uuid.UUID) (domain.Flashcard, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+flashcardColumns+`
		FROM flashcards WHERE id = ? AND user_id = ?
	`, id, userID)

	f, err := scanFlashcard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Flashcard{}, fmt.Errorf("flashcard %s: %w", id, domain.ErrNotFound)
		}
		return domain.Flashcard{}, fmt.Errorf("failed to find flashcard %s: %w", id, err)
	}
	return f, nil
}

// FlashcardByFingerprint looks a card up by its content fingerprint,
// scoped to the owner. Used by the importer to skip already-known cards.
func (db *DB) FlashcardByFingerprint(ctx context.Context, userID uuid.UUID, fingerprint string) (domain.Flashcard, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+flashcardColumns+`
		FROM flashcards WHERE user_id = ? AND fingerprint = ?
	`, userID, fingerprint)

	f, err := scanFlashcard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Flashcard{}, fmt.Errorf("fingerprint %s: %w", fingerprint, domain.ErrNotFound)
		}
		return domain.Flashcard{}, fmt.Errorf("failed to find flashcard by fingerprint: %w", err)
	}
	return f, nil
}

// ListOptions control paging, filtering and ordering of ListFlashcards.
type ListOptions struct {
	Page    int    // 1-based; zero means first page
	PerPage int    // zero means 20
	Search  string // case-insensitive substring match on front or back
	Sort    string // created_at (default), updated_at or front
	Desc    bool
}

var sortColumns = map[string]string{
	"":           "created_at",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"front":      "front",
}

// ListFlashcards returns one page of a user's cards plus the total count
// matching the filter.
func (db *DB) ListFlashcards(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]domain.Flashcard, int, error) {
	col, ok := sortColumns[opts.Sort]
	if !ok {
		return nil, 0, fmt.Errorf("sort column %q: %w", opts.Sort, domain.ErrInvalidInput)
	}
	dir := "ASC"
	if opts.Desc {
		dir = "DESC"
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage < 1 {
		perPage = 20
	}

	where := `user_id = ?`
	args := []any{userID}
	if opts.Search != "" {
		where += ` AND (front LIKE ? ESCAPE '\' OR back LIKE ? ESCAPE '\')`
		pattern := "%" + escapeLike(opts.Search) + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM flashcards WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count flashcards for user %s: %w", userID, err)
	}

	query := `SELECT ` + flashcardColumns + ` FROM flashcards WHERE ` + where +
		` ORDER BY ` + col + ` ` + dir + `, id LIMIT ? OFFSET ?`
	args = append(args, perPage, (page-1)*perPage)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list flashcards for user %s: %w", userID, err)
	}
	defer rows.Close()

	var cards []domain.Flashcard
	for rows.Next() {
		f, err := scanFlashcard(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan flashcard row: %w", err)
		}
		cards = append(cards, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list flashcards for user %s: %w", userID, err)
	}
	return cards, total, nil
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// CardsByUser returns every card a user owns in insertion order. The
// study queue selector partitions this set.
func (db *DB) CardsByUser(ctx context.Context, userID uuid.UUID) ([]domain.Flashcard, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+flashcardColumns+`
		FROM flashcards WHERE user_id = ?
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for user %s: %w", userID, err)
	}
	defer rows.Close()

	var cards []domain.Flashcard
	for rows.Next() {
		f, err := scanFlashcard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flashcard row: %w", err)
		}
		cards = append(cards, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get cards for user %s: %w", userID, err)
	}
	return cards, nil
}

// HasAny reports whether the user owns any flashcard at all, regardless
// of scheduling state.
func (db *DB) HasAny(ctx context.Context, userID uuid.UUID) (bool, error) {
	var one int
	err := db.conn.QueryRowContext(ctx,
		`SELECT 1 FROM flashcards WHERE user_id = ? LIMIT 1`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check flashcards for user %s: %w", userID, err)
	}
	return true, nil
}

// UpdateFlashcardText changes a card's front and back, leaving its
// scheduling fields untouched.
func (db *DB) UpdateFlashcardText(ctx context.Context, userID, id uuid.UUID, front, back, fingerprint string) (domain.Flashcard, error) {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE flashcards
		SET front = ?, back = ?, fingerprint = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, front, back, fingerprint, time.Now().UTC(), id, userID)
	if err != nil {
		return domain.Flashcard{}, fmt.Errorf("failed to update flashcard %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Flashcard{}, fmt.Errorf("flashcard %s: %w", id, domain.ErrNotFound)
	}
	return db.Flashcard(ctx, userID, id)
}

// UpdateScheduling writes the scheduling fields produced by a review.
func (db *DB) UpdateScheduling(ctx context.Context, userID, id uuid.UUID, p sm2.Params, nextReview domain.Date, reviewedAt time.Time) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE flashcards
		SET interval = ?, ease_factor = ?, repetitions = ?,
			next_review_date = ?, last_reviewed_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, p.Interval, p.EaseFactor, p.Repetitions,
		nextReview.Time(), reviewedAt, time.Now().UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update scheduling for flashcard %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("flashcard %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ResetProgress returns a card to its creation-default scheduling state.
func (db *DB) ResetProgress(ctx context.Context, userID, id uuid.UUID) (domain.Flashcard, error) {
	p := sm2.NewCardParams()
	now := time.Now().UTC()
	res, err := db.conn.ExecContext(ctx, `
		UPDATE flashcards
		SET interval = ?, ease_factor = ?, repetitions = ?,
			next_review_date = ?, last_reviewed_at = NULL, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, p.Interval, p.EaseFactor, p.Repetitions, domain.DateOf(now).Time(), now, id, userID)
	if err != nil {
		return domain.Flashcard{}, fmt.Errorf("failed to reset progress for flashcard %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Flashcard{}, fmt.Errorf("flashcard %s: %w", id, domain.ErrNotFound)
	}
	return db.Flashcard(ctx, userID, id)
}

// DeleteFlashcard removes a card scoped to its owner.
func (db *DB) DeleteFlashcard(ctx context.Context, userID, id uuid.UUID) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM flashcards WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete flashcard %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("flashcard %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
