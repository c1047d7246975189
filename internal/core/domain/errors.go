package domain

import "errors"

// Credential errors reported by the gateway. Each maps to exactly one
// user-facing message (service.CredentialMessage); unrecognized errors fall
// back to a generic message and the raw cause is only logged.
var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrUserNotFound      = errors.New("user not found")
	ErrWrongPassword     = errors.New("wrong password")
	ErrUserDisabled      = errors.New("user disabled")
	ErrTooManyRequests   = errors.New("too many requests")
	ErrInvalidCredential = errors.New("invalid credential")

	ErrPopupBlocked      = errors.New("popup blocked")
	ErrPopupClosedByUser = errors.New("popup closed by user")

	ErrEmailAlreadyInUse = errors.New("email already in use")
	ErrWeakPassword      = errors.New("weak password")
)

// ErrSubmitInFlight rejects a second submission while one credential
// exchange is still pending on the same flow instance.
var ErrSubmitInFlight = errors.New("submission already in flight")
