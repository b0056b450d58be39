package web

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

func (s *Server) handleStudySession(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	data, err := s.study.FetchSession(r.Context(), uid)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, data)
}

type submitReviewRequest struct {
	FlashcardID string `json:"flashcard_id" validate:"required,uuid"`
	Remembered  *bool  `json:"remembered" validate:"required"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "flashcard_id must be a valid UUID and remembered a boolean")
		return
	}

	flashcardID, err := uuid.Parse(req.FlashcardID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "flashcard_id must be a valid UUID")
		return
	}

	result, err := s.study.Record(r.Context(), uid, flashcardID, *req.Remembered)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
