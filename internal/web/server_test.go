package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tenfold-cards/tenfold/internal/auth"
	"github.com/tenfold-cards/tenfold/internal/storage"
	"github.com/tenfold-cards/tenfold/internal/study"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "web_test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewManager([]byte("web_test_secret_long_enough_32by"), time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return NewServer(db, study.NewService(db, 0), tokens, nil)
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func registerUser(t *testing.T, s *Server, email string) string {
	t.Helper()
	rr := doJSON(t, s, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": email, "password": "password123"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rr.Code, rr.Body)
	}
	return decode[map[string]string](t, rr)["token"]
}

func createCard(t *testing.T, s *Server, token, front, back string) string {
	t.Helper()
	rr := doJSON(t, s, http.MethodPost, "/api/flashcards", token,
		map[string]string{"front": front, "back": back})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create card: expected 201, got %d: %s", rr.Code, rr.Body)
	}
	return decode[map[string]any](t, rr)["id"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "login@example.com")

	rr := doJSON(t, s, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "login@example.com", "password": "password123"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body)
	}
	if decode[map[string]string](t, rr)["token"] == "" {
		t.Error("Expected a token on login")
	}

	rr = doJSON(t, s, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "login@example.com", "password": "wrongwrong"})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a wrong password, got %d", rr.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "not-an-email", "password": "password123"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad email, got %d", rr.Code)
	}

	rr = doJSON(t, s, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "short@example.com", "password": "short"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a short password, got %d", rr.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "dup@example.com")

	rr := doJSON(t, s, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": "dup@example.com", "password": "password123"})
	if rr.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", rr.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rr := doJSON(t, s, http.MethodGet, "/api/study/session", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rr.Code)
	}

	rr = doJSON(t, s, http.MethodGet, "/api/study/session", "garbage", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with a bad token, got %d", rr.Code)
	}
}

func TestStudySessionFlow(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "study@example.com")

	// empty account: no cards, has_any_flashcards false
	rr := doJSON(t, s, http.MethodGet, "/api/study/session", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body)
	}
	sess := decode[study.SessionData](t, rr)
	if sess.HasAnyFlashcards || sess.Statistics.TotalCards != 0 {
		t.Errorf("Expected an empty session, got %+v", sess)
	}

	cardID := createCard(t, s, token, "What is Go?", "A programming language.")

	rr = doJSON(t, s, http.MethodGet, "/api/study/session", token, nil)
	sess = decode[study.SessionData](t, rr)
	if !sess.HasAnyFlashcards || sess.Statistics.NewCards != 1 {
		t.Errorf("Expected one new card, got %+v", sess)
	}

	// submit a remembered judgment
	rr = doJSON(t, s, http.MethodPost, "/api/study/review", token,
		map[string]any{"flashcard_id": cardID, "remembered": true})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body)
	}
	result := decode[map[string]any](t, rr)
	if result["interval"].(float64) != 1 || result["repetitions"].(float64) != 1 {
		t.Errorf("Unexpected review result: %+v", result)
	}

	// the card is scheduled for tomorrow, so today's queue is empty again
	rr = doJSON(t, s, http.MethodGet, "/api/study/session", token, nil)
	sess = decode[study.SessionData](t, rr)
	if sess.Statistics.TotalCards != 0 || !sess.HasAnyFlashcards {
		t.Errorf("Expected empty queue with has_any_flashcards, got %+v", sess)
	}
}

func TestSubmitReviewValidation(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "validate@example.com")

	for name, body := range map[string]any{
		"malformed id":    map[string]any{"flashcard_id": "not-a-uuid", "remembered": true},
		"missing boolean": map[string]any{"flashcard_id": uuid.NewString()},
		"missing id":      map[string]any{"remembered": false},
	} {
		t.Run(name, func(t *testing.T) {
			rr := doJSON(t, s, http.MethodPost, "/api/study/review", token, body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", rr.Code, rr.Body)
			}
		})
	}
}

func TestSubmitReviewNotFound(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "notfound@example.com")

	rr := doJSON(t, s, http.MethodPost, "/api/study/review", token,
		map[string]any{"flashcard_id": uuid.NewString(), "remembered": true})
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d: %s", rr.Code, rr.Body)
	}
}

func TestSubmitReviewForeignCard(t *testing.T) {
	s := newTestServer(t)
	owner := registerUser(t, s, "owner@example.com")
	intruder := registerUser(t, s, "intruder@example.com")
	cardID := createCard(t, s, owner, "front", "back")

	rr := doJSON(t, s, http.MethodPost, "/api/study/review", intruder,
		map[string]any{"flashcard_id": cardID, "remembered": true})
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected another user's card to 404, got %d", rr.Code)
	}
}

func TestFlashcardCRUD(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "crud@example.com")
	cardID := createCard(t, s, token, "front v1", "back v1")

	rr := doJSON(t, s, http.MethodPut, "/api/flashcards/"+cardID, token,
		map[string]string{"front": "front v2", "back": "back v2"})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rr.Code, rr.Body)
	}
	if got := decode[map[string]any](t, rr)["front"]; got != "front v2" {
		t.Errorf("Expected updated front, got %v", got)
	}

	rr = doJSON(t, s, http.MethodGet, "/api/flashcards?search=v2", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rr.Code)
	}
	list := decode[map[string]any](t, rr)
	if list["total"].(float64) != 1 {
		t.Errorf("Expected one search hit, got %v", list["total"])
	}

	rr = doJSON(t, s, http.MethodDelete, "/api/flashcards/"+cardID, token, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rr.Code)
	}
	rr = doJSON(t, s, http.MethodGet, "/api/flashcards/"+cardID, token, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rr.Code)
	}
}

func TestResetProgressEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "reset@example.com")
	cardID := createCard(t, s, token, "front", "back")

	rr := doJSON(t, s, http.MethodPost, "/api/study/review", token,
		map[string]any{"flashcard_id": cardID, "remembered": true})
	if rr.Code != http.StatusOK {
		t.Fatalf("review: expected 200, got %d", rr.Code)
	}

	rr = doJSON(t, s, http.MethodPost, fmt.Sprintf("/api/flashcards/%s/reset-progress", cardID), token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d: %s", rr.Code, rr.Body)
	}
	card := decode[map[string]any](t, rr)
	if card["repetitions"].(float64) != 0 || card["last_reviewed_at"] != nil {
		t.Errorf("Expected progress reset, got %+v", card)
	}
}

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "gone@example.com")
	createCard(t, s, token, "front", "back")

	rr := doJSON(t, s, http.MethodDelete, "/api/auth/account", token, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d: %s", rr.Code, rr.Body)
	}

	rr = doJSON(t, s, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "gone@example.com", "password": "password123"})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 after account deletion, got %d", rr.Code)
	}
}
