package service

import (
	"errors"

	"github.com/dearecho/dearecho-api/internal/core/domain"
)

// Fallback messages per flow, used for any gateway error outside the table.
const (
	LoginFallbackMessage     = "Login failed. Please check your credentials and try again."
	FederatedFallbackMessage = "Sign-in failed. Please try again."
	RegisterFallbackMessage  = "Registration failed. Please try again."
)

// credentialMessages is the fixed gateway-error → user-facing message table.
// The raw error is logged for diagnostics and never shown verbatim.
var credentialMessages = []struct {
	err error
	msg string
}{
	{domain.ErrInvalidEmail, "Please enter a valid email address."},
	{domain.ErrUserDisabled, "This account has been disabled."},
	{domain.ErrUserNotFound, "No account found with this email address."},
	{domain.ErrWrongPassword, "Incorrect password. Please try again."},
	{domain.ErrTooManyRequests, "Too many attempts. Please wait a moment and try again."},
	{domain.ErrInvalidCredential, "Invalid email or password. Please try again."},
	{domain.ErrPopupBlocked, "Popup blocked. Please allow popups for this site."},
	{domain.ErrPopupClosedByUser, "Sign-in popup was closed before completion."},
	{domain.ErrEmailAlreadyInUse, "An account with this email already exists."},
	{domain.ErrWeakPassword, "Please choose a stronger password."},
}

// CredentialMessage resolves err against the fixed table, falling back to
// the given generic message for unrecognized errors.
func CredentialMessage(err error, fallback string) string {
	for _, entry := range credentialMessages {
		if errors.Is(err, entry.err) {
			return entry.msg
		}
	}
	return fallback
}

// FieldAnnotation returns the field-level annotation for the two most
// actionable credential errors, directing the user's correction.
func FieldAnnotation(err error) (field, msg string, ok bool) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return "email", CredentialMessage(err, ""), true
	case errors.Is(err, domain.ErrWrongPassword):
		return "password", CredentialMessage(err, ""), true
	}
	return "", "", false
}
