package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tenfold-cards/tenfold/internal/auth"
	"github.com/tenfold-cards/tenfold/internal/domain"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Email and a password of at least 8 characters are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}

	user, err := s.db.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.db.UserByEmail(r.Context(), req.Email)
	if err != nil {
		// A missing account and a wrong password look the same to the caller.
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.respondWithDomainError(w, err)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if err := s.db.DeleteUser(r.Context(), uid); err != nil {
		s.respondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
