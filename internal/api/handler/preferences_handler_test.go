package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubThemeStore struct {
	themes map[string]string
}

func newStubThemeStore() *stubThemeStore {
	return &stubThemeStore{themes: make(map[string]string)}
}

func (s *stubThemeStore) Theme(_ context.Context, installationID string) (string, error) {
	if theme, ok := s.themes[installationID]; ok {
		return theme, nil
	}
	return "light", nil
}

func (s *stubThemeStore) SetTheme(_ context.Context, installationID, theme string) error {
	s.themes[installationID] = theme
	return nil
}

func TestGetTheme_Default(t *testing.T) {
	h := NewPreferencesHandler(newStubThemeStore(), "inst-1")

	rec, err := invokeValidated(t, h.GetTheme, http.MethodGet, "/preferences/theme", "")
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp["theme"] != "light" {
		t.Fatalf("expected light default, got %q", resp["theme"])
	}
}

func TestSetTheme_RoundTrip(t *testing.T) {
	store := newStubThemeStore()
	h := NewPreferencesHandler(store, "inst-1")

	rec, err := invokeValidated(t, h.SetTheme, http.MethodPut, "/preferences/theme", `{"theme":"dark"}`)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.themes["inst-1"] != "dark" {
		t.Fatalf("expected theme persisted, got %+v", store.themes)
	}
}

func TestSetTheme_RejectsUnknownTheme(t *testing.T) {
	h := NewPreferencesHandler(newStubThemeStore(), "inst-1")

	_, err := invokeValidated(t, h.SetTheme, http.MethodPut, "/preferences/theme", `{"theme":"sepia"}`)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
