package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dearecho/dearecho-api/internal/core/domain"
)

func authenticatedSessions() *stubSessions {
	u := domain.User{ID: "u1", Name: "Jane", Email: "jane@x.com"}
	return &stubSessions{session: domain.Session{Authenticated: true, User: &u}}
}

func invokeValidated(t *testing.T, h echo.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestWelcome_ReflectsSession(t *testing.T) {
	h := NewPagesHandler(authenticatedSessions())

	rec, err := invokeValidated(t, h.Welcome, http.MethodGet, "/", "")
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp["authenticated"] != true {
		t.Fatalf("expected authenticated landing page, got %+v", resp)
	}
}

func TestAddMood_RecordsEntry(t *testing.T) {
	h := NewPagesHandler(authenticatedSessions())

	body := `{"mood":7,"emotion":"happy","note":"good day"}`
	rec, err := invokeValidated(t, h.AddMood, http.MethodPost, "/mood", body)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var entry moodEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if entry.ID == "" || entry.UserID != "u1" || entry.Mood != 7 || entry.Emotion != "happy" {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	rec, err = invokeValidated(t, h.Mood, http.MethodGet, "/mood", "")
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var page struct {
		Entries []moodEntry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(page.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(page.Entries))
	}
}

func TestAddMood_RejectsInvalidPayloads(t *testing.T) {
	h := NewPagesHandler(authenticatedSessions())

	cases := []string{
		`{"mood":0,"emotion":"happy"}`,
		`{"mood":11,"emotion":"happy"}`,
		`{"mood":5,"emotion":"ecstatic"}`,
		`{"emotion":"happy"}`,
	}
	for _, body := range cases {
		_, err := invokeValidated(t, h.AddMood, http.MethodPost, "/mood", body)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", body, err)
		}
	}
}

func TestSaveLetter_RecordsLetter(t *testing.T) {
	h := NewPagesHandler(authenticatedSessions())

	body := `{"title":"To my younger self","content":"Be kind.","recipient":"younger","is_private":true}`
	rec, err := invokeValidated(t, h.SaveLetter, http.MethodPost, "/letter", body)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var l letter
	if err := json.Unmarshal(rec.Body.Bytes(), &l); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if l.Recipient != "younger" || !l.IsPrivate {
		t.Fatalf("unexpected letter: %+v", l)
	}
}

func TestSaveLetter_RejectsUnknownRecipient(t *testing.T) {
	h := NewPagesHandler(authenticatedSessions())

	body := `{"title":"t","content":"c","recipient":"stranger"}`
	_, err := invokeValidated(t, h.SaveLetter, http.MethodPost, "/letter", body)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestJournal_ServesPromptsAndRecordsReflections(t *testing.T) {
	h := NewPagesHandler(authenticatedSessions())

	rec, err := invokeValidated(t, h.Journal, http.MethodGet, "/journal", "")
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var page struct {
		Prompts []string `json:"prompts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(page.Prompts) == 0 {
		t.Fatalf("expected prompts")
	}

	body := `{"prompt":"` + page.Prompts[0] + `","response":"Grateful for rain."}`
	rec, err = invokeValidated(t, h.SaveReflection, http.MethodPost, "/journal", body)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}
