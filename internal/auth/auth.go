// Package auth issues and verifies the JWT bearer tokens that identify
// users at the API boundary, and hashes account passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tenfold-cards/tenfold/internal/domain"
)

// Claims is the payload carried inside a session token.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Manager signs and parses session tokens with a single HS256 secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager. The secret must be non-empty.
func NewManager(secret []byte, ttl time.Duration) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: jwt secret is required")
	}
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Manager{secret: secret, ttl: ttl}, nil
}

// Issue signs a token for the given user.
func (m *Manager) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the user it identifies. Expired,
// malformed or forged tokens all map to domain.ErrUnauthorized.
func (m *Manager) Parse(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("token expired: %w", domain.ErrUnauthorized)
		}
		return uuid.Nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid token subject: %w", domain.ErrUnauthorized)
	}
	return userID, nil
}

// HashPassword hashes a password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a stored hash against a candidate password.
// A mismatch maps to domain.ErrUnauthorized.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("password mismatch: %w", domain.ErrUnauthorized)
	}
	return nil
}
