package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ThemeStore persists the shell's dark-mode preference.
type ThemeStore interface {
	Theme(ctx context.Context, installationID string) (string, error)
	SetTheme(ctx context.Context, installationID, theme string) error
}

// PreferencesHandler owns the navigation shell's UI preferences.
type PreferencesHandler struct {
	store          ThemeStore
	installationID string
}

func NewPreferencesHandler(store ThemeStore, installationID string) *PreferencesHandler {
	return &PreferencesHandler{store: store, installationID: installationID}
}

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

// GetTheme returns the saved theme.
//
// @Summary      Current theme preference
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /preferences/theme [get]
func (h *PreferencesHandler) GetTheme(c echo.Context) error {
	theme, err := h.store.Theme(c.Request().Context(), h.installationID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"theme": theme})
}

// SetTheme saves the theme.
//
// @Summary      Set theme preference
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        body  body      themeRequest  true  "Theme"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /preferences/theme [put]
func (h *PreferencesHandler) SetTheme(c echo.Context) error {
	var req themeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.store.SetTheme(c.Request().Context(), h.installationID, req.Theme); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"theme": req.Theme})
}
