package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/tenfold-cards/tenfold/internal/domain"
	"github.com/tenfold-cards/tenfold/internal/importer"
	"github.com/tenfold-cards/tenfold/internal/storage"
)

type flashcardResponse struct {
	ID             uuid.UUID   `json:"id"`
	Front          string      `json:"front"`
	Back           string      `json:"back"`
	Interval       int         `json:"interval"`
	EaseFactor     float64     `json:"ease_factor"`
	Repetitions    int         `json:"repetitions"`
	NextReviewDate domain.Date `json:"next_review_date"`
	LastReviewedAt *time.Time  `json:"last_reviewed_at"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func toFlashcardResponse(f domain.Flashcard) flashcardResponse {
	return flashcardResponse{
		ID:             f.ID,
		Front:          f.Front,
		Back:           f.Back,
		Interval:       f.Interval,
		EaseFactor:     f.EaseFactor,
		Repetitions:    f.Repetitions,
		NextReviewDate: f.NextReviewDate,
		LastReviewedAt: f.LastReviewedAt,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

type flashcardRequest struct {
	Front string `json:"front" validate:"required,max=200"`
	Back  string `json:"back" validate:"required,max=500"`
}

func (s *Server) handleCreateFlashcard(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req flashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "front (max 200) and back (max 500) are required")
		return
	}

	card, err := s.db.CreateFlashcard(r.Context(), uid, req.Front, req.Back,
		importer.Fingerprint(req.Front, req.Back))
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, toFlashcardResponse(card))
}

func (s *Server) handleListFlashcards(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	opts := storage.ListOptions{
		Page:    page,
		PerPage: perPage,
		Search:  q.Get("search"),
		Sort:    q.Get("sort"),
		Desc:    q.Get("order") == "desc",
	}

	cards, total, err := s.db.ListFlashcards(r.Context(), uid, opts)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}

	out := make([]flashcardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toFlashcardResponse(c))
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"flashcards": out,
		"total":      total,
	})
}

func (s *Server) pathCardID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid flashcard id")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleGetFlashcard(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	id, ok := s.pathCardID(w, r)
	if !ok {
		return
	}

	card, err := s.db.Flashcard(r.Context(), uid, id)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toFlashcardResponse(card))
}

func (s *Server) handleUpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	id, ok := s.pathCardID(w, r)
	if !ok {
		return
	}

	var req flashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "front (max 200) and back (max 500) are required")
		return
	}

	card, err := s.db.UpdateFlashcardText(r.Context(), uid, id, req.Front, req.Back,
		importer.Fingerprint(req.Front, req.Back))
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toFlashcardResponse(card))
}

func (s *Server) handleDeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	id, ok := s.pathCardID(w, r)
	if !ok {
		return
	}

	if err := s.db.DeleteFlashcard(r.Context(), uid, id); err != nil {
		s.respondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	id, ok := s.pathCardID(w, r)
	if !ok {
		return
	}

	card, err := s.db.ResetProgress(r.Context(), uid, id)
	if err != nil {
		s.respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toFlashcardResponse(card))
}
