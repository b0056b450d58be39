package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tenfold-cards/tenfold/internal/domain"
)

// CreateUser inserts a new account. Returns domain.ErrEmailTaken when the
// email is already registered.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash string) (domain.User, error) {
	u := domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, created_at)
		VALUES (?, ?, ?, ?)
	`, u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.User{}, fmt.Errorf("user %s: %w", email, domain.ErrEmailTaken)
		}
		return domain.User{}, fmt.Errorf("failed to insert user %s: %w", email, err)
	}
	return u, nil
}

// UserByEmail retrieves an account by email. Returns domain.ErrNotFound
// when no such account exists.
func (db *DB) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users WHERE email = ?
	`, email)

	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("failed to find user by email %s: %w", email, err)
	}
	return u, nil
}

// DeleteUser removes an account and, via cascade, all of its flashcards.
func (db *DB) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}
