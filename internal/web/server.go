// Package web exposes the HTTP JSON API: account management, flashcard
// CRUD, the study-session fetch and review submission.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/tenfold-cards/tenfold/internal/auth"
	"github.com/tenfold-cards/tenfold/internal/domain"
	"github.com/tenfold-cards/tenfold/internal/storage"
	"github.com/tenfold-cards/tenfold/internal/study"
)

// Server holds the dependencies for the HTTP API.
type Server struct {
	db       *storage.DB
	study    *study.Service
	tokens   *auth.Manager
	router   *mux.Router
	validate *validator.Validate
	logger   *slog.Logger
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB, studySvc *study.Service, tokens *auth.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		db:       db,
		study:    studySvc,
		tokens:   tokens,
		router:   mux.NewRouter(),
		validate: validator.New(),
		logger:   logger,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := api.PathPrefix("/").Subrouter()
	authed.Use(s.authMiddleware)
	authed.HandleFunc("/auth/account", s.handleDeleteAccount).Methods(http.MethodDelete)

	authed.HandleFunc("/study/session", s.handleStudySession).Methods(http.MethodGet)
	authed.HandleFunc("/study/review", s.handleSubmitReview).Methods(http.MethodPost)

	authed.HandleFunc("/flashcards", s.handleListFlashcards).Methods(http.MethodGet)
	authed.HandleFunc("/flashcards", s.handleCreateFlashcard).Methods(http.MethodPost)
	authed.HandleFunc("/flashcards/{id}", s.handleGetFlashcard).Methods(http.MethodGet)
	authed.HandleFunc("/flashcards/{id}", s.handleUpdateFlashcard).Methods(http.MethodPut)
	authed.HandleFunc("/flashcards/{id}", s.handleDeleteFlashcard).Methods(http.MethodDelete)
	authed.HandleFunc("/flashcards/{id}/reset-progress", s.handleResetProgress).Methods(http.MethodPost)
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}

// respondWithDomainError maps the error taxonomy onto HTTP statuses.
// Anything outside the taxonomy becomes a fixed, non-specific 500.
func (s *Server) respondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Flashcard not found")
	case errors.Is(err, domain.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, domain.ErrEmailTaken):
		respondWithError(w, http.StatusConflict, "Email already registered")
	default:
		s.logger.Error("request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
