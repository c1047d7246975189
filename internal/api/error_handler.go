package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dearecho/dearecho-api/internal/core/domain"
	"github.com/dearecho/dearecho-api/internal/core/service"
)

// errorResponse is the canonical error envelope for all API errors. Field
// errors are present only for the credential errors that annotate a
// specific form field.
type errorResponse struct {
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps validation failures to 400 with per-field messages.
//   - Maps known credential errors to their status and fixed user-facing
//     message, annotating the email/password field where applicable.
//   - Logs unexpected errors internally without leaking details to the
//     client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Local validation failures never reached the gateway.
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{
			Error:       "Please complete all fields correctly.",
			FieldErrors: ve.Fields,
		}
	}

	if code, ok := credentialStatus(err); ok {
		resp := errorResponse{Error: service.CredentialMessage(err, service.LoginFallbackMessage)}
		if field, msg, ok := service.FieldAnnotation(err); ok {
			resp.FieldErrors = map[string]string{field: msg}
		}
		return code, resp
	}

	if errors.Is(err, domain.ErrSubmitInFlight) {
		return http.StatusConflict, errorResponse{Error: "A submission is already in progress."}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// credentialStatus maps gateway-reported errors to deterministic HTTP
// status codes.
func credentialStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrWrongPassword),
		errors.Is(err, domain.ErrInvalidCredential),
		errors.Is(err, domain.ErrPopupClosedByUser),
		errors.Is(err, domain.ErrPopupBlocked):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrUserDisabled):
		return http.StatusForbidden, true
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests, true
	case errors.Is(err, domain.ErrEmailAlreadyInUse):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrWeakPassword):
		return http.StatusBadRequest, true
	}
	return 0, false
}
