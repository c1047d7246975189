package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dearecho/dearecho-api/internal/core/domain"
	"github.com/dearecho/dearecho-api/internal/core/ports"
)

// The page handlers are domain event sinks: they consume the session and
// collect the events the pages emit (mood check-ins, letters, journal
// reflections). Entries are ephemeral in-memory lists; their persistence
// format is explicitly out of scope.

type moodEntry struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	Date    time.Time `json:"date"`
	Mood    int       `json:"mood"`
	Emotion string    `json:"emotion"`
	Note    string    `json:"note,omitempty"`
}

type letter struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
	Recipient string    `json:"recipient"`
	Mood      string    `json:"mood,omitempty"`
	IsPrivate bool      `json:"is_private"`
}

type journalReflection struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Prompt   string    `json:"prompt"`
	Response string    `json:"response"`
	Date     time.Time `json:"date"`
}

var journalPrompts = []string{
	"What are three small things you felt grateful for today?",
	"When did you feel most like yourself this week?",
	"What is one thing you would tell a friend struggling with what you struggle with?",
	"What would you like your future self to remember about today?",
	"What felt heavy today, and what helped you carry it?",
}

type moodRequest struct {
	Mood    int    `json:"mood" validate:"required,min=1,max=10"`
	Emotion string `json:"emotion" validate:"required,oneof=happy sad angry anxious lonely"`
	Note    string `json:"note"`
}

type letterRequest struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Recipient string `json:"recipient" validate:"required,oneof=younger future present"`
	Mood      string `json:"mood" validate:"omitempty,oneof=happy sad angry anxious lonely"`
	IsPrivate bool   `json:"is_private"`
}

type journalRequest struct {
	Prompt   string `json:"prompt" validate:"required"`
	Response string `json:"response" validate:"required"`
}

// PagesHandler serves the page tree behind the guards.
type PagesHandler struct {
	sessions ports.SessionReader

	mu          sync.Mutex
	moods       []moodEntry
	letters     []letter
	reflections []journalReflection
}

func NewPagesHandler(sessions ports.SessionReader) *PagesHandler {
	return &PagesHandler{sessions: sessions}
}

// Welcome renders the public landing page.
//
// @Summary      Landing page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       / [get]
func (h *PagesHandler) Welcome(c echo.Context) error {
	sess := h.sessions.Snapshot()
	resp := map[string]any{"page": "welcome", "authenticated": sess.Authenticated}
	if sess.User != nil {
		resp["user"] = sess.User
	}
	return c.JSON(http.StatusOK, resp)
}

// Mood renders the mood check-in page with this session's entries.
//
// @Summary      Mood check-in page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /mood [get]
func (h *PagesHandler) Mood(c echo.Context) error {
	h.mu.Lock()
	entries := append([]moodEntry(nil), h.moods...)
	h.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{"page": "mood", "user": h.user(), "entries": entries})
}

// AddMood records a mood check-in event.
//
// @Summary      Record a mood check-in
// @Tags         pages
// @Accept       json
// @Produce      json
// @Param        body  body      moodRequest  true  "Mood entry"
// @Success      201   {object}  moodEntry
// @Failure      400   {object}  map[string]string
// @Router       /mood [post]
func (h *PagesHandler) AddMood(c echo.Context) error {
	var req moodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry := moodEntry{
		ID:      uuid.NewString(),
		UserID:  h.user().ID,
		Date:    time.Now().UTC(),
		Mood:    req.Mood,
		Emotion: req.Emotion,
		Note:    req.Note,
	}

	h.mu.Lock()
	h.moods = append(h.moods, entry)
	h.mu.Unlock()

	return c.JSON(http.StatusCreated, entry)
}

// Letter renders the letter-writing page.
//
// @Summary      Letter page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /letter [get]
func (h *PagesHandler) Letter(c echo.Context) error {
	h.mu.Lock()
	letters := append([]letter(nil), h.letters...)
	h.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{"page": "letter", "user": h.user(), "letters": letters})
}

// SaveLetter records a letter event.
//
// @Summary      Save a letter
// @Tags         pages
// @Accept       json
// @Produce      json
// @Param        body  body      letterRequest  true  "Letter"
// @Success      201   {object}  letter
// @Failure      400   {object}  map[string]string
// @Router       /letter [post]
func (h *PagesHandler) SaveLetter(c echo.Context) error {
	var req letterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	l := letter{
		ID:        uuid.NewString(),
		UserID:    h.user().ID,
		Title:     req.Title,
		Content:   req.Content,
		Date:      time.Now().UTC(),
		Recipient: req.Recipient,
		Mood:      req.Mood,
		IsPrivate: req.IsPrivate,
	}

	h.mu.Lock()
	h.letters = append(h.letters, l)
	h.mu.Unlock()

	return c.JSON(http.StatusCreated, l)
}

// Journal renders the guided journal page with its prompt rotation.
//
// @Summary      Guided journal page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /journal [get]
func (h *PagesHandler) Journal(c echo.Context) error {
	h.mu.Lock()
	reflections := append([]journalReflection(nil), h.reflections...)
	h.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{
		"page":        "journal",
		"user":        h.user(),
		"prompts":     journalPrompts,
		"reflections": reflections,
	})
}

// SaveReflection records a guided journal response.
//
// @Summary      Save a journal reflection
// @Tags         pages
// @Accept       json
// @Produce      json
// @Param        body  body      journalRequest  true  "Reflection"
// @Success      201   {object}  journalReflection
// @Failure      400   {object}  map[string]string
// @Router       /journal [post]
func (h *PagesHandler) SaveReflection(c echo.Context) error {
	var req journalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	r := journalReflection{
		ID:       uuid.NewString(),
		UserID:   h.user().ID,
		Prompt:   req.Prompt,
		Response: req.Response,
		Date:     time.Now().UTC(),
	}

	h.mu.Lock()
	h.reflections = append(h.reflections, r)
	h.mu.Unlock()

	return c.JSON(http.StatusCreated, r)
}

// user returns the session user. Page handlers run behind the forward
// guard, so a missing user here is a wiring violation; the normalization
// rule guarantees a non-nil result only for authenticated sessions, hence
// the zero value for the public landing page.
func (h *PagesHandler) user() domain.User {
	if u := h.sessions.Snapshot().User; u != nil {
		return *u
	}
	return domain.User{}
}
