package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dearecho/dearecho-api/internal/api/metrics"
	"github.com/dearecho/dearecho-api/internal/core/domain"
	"github.com/dearecho/dearecho-api/internal/core/ports"
	"github.com/dearecho/dearecho-api/internal/core/service"
)

// AuthHandler serves the auth page and the login/registration flows.
type AuthHandler struct {
	flows    ports.AuthFlows
	sessions ports.SessionReader
}

func NewAuthHandler(flows ports.AuthFlows, sessions ports.SessionReader) *AuthHandler {
	return &AuthHandler{flows: flows, sessions: sessions}
}

// Page renders the auth page descriptor. The registered flag lets the login
// form default to a welcoming just-created-your-account state.
//
// @Summary      Auth page
// @Tags         auth
// @Produce      json
// @Param        registered  query  string  false  "set after registration redirect"
// @Success      200  {object}  authPageResponse
// @Router       /auth [get]
func (h *AuthHandler) Page(c echo.Context) error {
	return c.JSON(http.StatusOK, authPageResponse{
		Page:           "auth",
		JustRegistered: c.QueryParam("registered") != "",
	})
}

// Login exchanges email/password credentials for a session.
//
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.flows.Login(c.Request().Context(), req.Email, req.Password, req.From)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("password", signInResult(err)).Inc()
		return err
	}
	metrics.SignInsTotal.WithLabelValues("password", "success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		User:       res.User,
		RedirectTo: res.RedirectTo,
		Message:    "Welcome back to DearEcho!",
	})
}

// LoginFederated completes a federated popup sign-in. The client reports
// popup failures ("blocked", "closed") as outcomes; an abandoned handoff is
// a recoverable result, never a crash, and nothing retries automatically.
//
// @Summary      Sign in with a federated provider
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      federatedRequest  true  "Provider assertion or popup outcome"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/federated [post]
func (h *AuthHandler) LoginFederated(c echo.Context) error {
	var req federatedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if req.Outcome == "blocked" {
		metrics.SignInsTotal.WithLabelValues("federated", "popup_blocked").Inc()
		return domain.ErrPopupBlocked
	}

	res, err := h.flows.LoginFederated(c.Request().Context(), req.Assertion, req.From)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("federated", signInResult(err)).Inc()
		return err
	}
	metrics.SignInsTotal.WithLabelValues("federated", "success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		User:       res.User,
		RedirectTo: res.RedirectTo,
		Message:    "Signed in!",
	})
}

// Register creates an account. The fresh gateway session is signed back out
// so the user logs in explicitly; the response carries the redirect.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.flows.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusCreated, registerResponse{
		JustRegistered: res.JustRegistered,
		RedirectTo:     res.RedirectTo + "?registered=1",
		Message:        "Account created! Please sign in.",
	})
}

// Logout clears the session. Logging out while signed out is a no-op.
//
// @Summary      Sign out
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.flows.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Session returns the current session snapshot.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Session
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessions.Snapshot())
}

func signInResult(err error) string {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return "invalid"
	}
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrWrongPassword):
		return "wrong_password"
	case errors.Is(err, domain.ErrInvalidCredential):
		return "invalid_credential"
	case errors.Is(err, domain.ErrUserDisabled):
		return "user_disabled"
	case errors.Is(err, domain.ErrTooManyRequests):
		return "rate_limited"
	case errors.Is(err, domain.ErrPopupClosedByUser):
		return "popup_closed"
	case errors.Is(err, domain.ErrPopupBlocked):
		return "popup_blocked"
	case errors.Is(err, domain.ErrInvalidEmail):
		return "invalid_email"
	case errors.Is(err, domain.ErrSubmitInFlight):
		return "in_flight"
	}
	return "error"
}

func registerResult(err error) string {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return "invalid"
	}
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyInUse):
		return "email_in_use"
	case errors.Is(err, domain.ErrWeakPassword):
		return "weak_password"
	case errors.Is(err, domain.ErrSubmitInFlight):
		return "in_flight"
	}
	return "error"
}
