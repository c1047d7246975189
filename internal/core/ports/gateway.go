package ports

import (
	"context"

	"github.com/dearecho/dearecho-api/internal/core/domain"
)

// UnsubscribeFunc detaches a session subscriber. Safe to call more than once.
type UnsubscribeFunc func()

// FederatedProviderConfig identifies the third-party identity provider used
// for popup-style sign-in.
type FederatedProviderConfig struct {
	Name     string
	Issuer   string
	Audience string
}

// CredentialGateway is the external identity service: credential exchange,
// session persistence and profile fields. Any conforming implementation is
// acceptable; the core never assumes a concrete provider.
//
// Exchange methods fail with the sentinel errors in domain/errors.go
// (ErrInvalidEmail, ErrUserNotFound, ErrWrongPassword, ErrUserDisabled,
// ErrTooManyRequests, ErrInvalidCredential, ErrPopupBlocked,
// ErrPopupClosedByUser, ErrEmailAlreadyInUse, ErrWeakPassword).
type CredentialGateway interface {
	// SubscribeToSession registers a session-change callback. The gateway
	// replays its persisted session (credential, or nil when signed out) to
	// the new subscriber, then delivers every subsequent transition.
	SubscribeToSession(cb func(*domain.Credential)) UnsubscribeFunc

	SignInWithPassword(ctx context.Context, email, password string) (*domain.Credential, error)
	SignInWithFederatedProvider(ctx context.Context, provider FederatedProviderConfig, assertion string) (*domain.Credential, error)
	CreateAccount(ctx context.Context, email, password string) (*domain.Credential, error)
	UpdateDisplayName(ctx context.Context, credentialID, name string) error
	SignOut(ctx context.Context) error
}

// ProfileStore persists an optional profile document at registration time.
// Writes are best-effort: callers log failures and continue.
type ProfileStore interface {
	WriteProfile(ctx context.Context, userID string, profile domain.Profile) error
}
