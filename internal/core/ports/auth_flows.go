package ports

import (
	"context"

	"github.com/dearecho/dearecho-api/internal/core/domain"
)

// FieldErrors maps a form field ("name", "email", "password",
// "confirm_password") to its first failing validation message.
type FieldErrors map[string]string

// LoginResult is what a successful credential exchange yields to the shell.
type LoginResult struct {
	User       domain.User
	RedirectTo string
}

// RegisterResult reports the post-registration contract: the new session is
// signed back out and the login page is told the account was just created.
type RegisterResult struct {
	JustRegistered bool
	RedirectTo     string
}

// AuthFlows are the login and registration flows that populate the session
// store. One submission may be in flight per flow instance; a concurrent
// submit fails with domain.ErrSubmitInFlight.
type AuthFlows interface {
	Login(ctx context.Context, email, password, origin string) (*LoginResult, error)
	LoginFederated(ctx context.Context, assertion, origin string) (*LoginResult, error)
	Register(ctx context.Context, name, email, password, confirmPassword string) (*RegisterResult, error)
	Logout(ctx context.Context)
}

// SessionReader exposes the current session to guards and pages without
// granting any write access.
type SessionReader interface {
	Snapshot() domain.Session
}

// AccountRepository is the gateway's persistence port for account records.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	UpdateDisplayName(ctx context.Context, id, name string) error
}
