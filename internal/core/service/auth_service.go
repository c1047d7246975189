// Package service implements the login and registration flows that populate
// the session store.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dearecho/dearecho-api/internal/core/domain"
	"github.com/dearecho/dearecho-api/internal/core/guard"
	"github.com/dearecho/dearecho-api/internal/core/ports"
	"github.com/dearecho/dearecho-api/internal/core/session"
)

// ValidationError carries per-field messages for client-side validation
// failures. These never reach the gateway.
type ValidationError struct {
	Fields ports.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// AuthService wires the credential gateway, the session store and the
// optional profile store into the login and registration flows.
type AuthService struct {
	gateway  ports.CredentialGateway
	profiles ports.ProfileStore
	store    *session.Store
	provider ports.FederatedProviderConfig
	log      zerolog.Logger

	// StrictLoginPolicy enforces the full five-predicate password policy at
	// login; off, only non-empty is required. Registration always enforces
	// all five.
	strictLoginPolicy bool

	loginInFlight    atomic.Bool
	registerInFlight atomic.Bool
}

func NewAuthService(
	gateway ports.CredentialGateway,
	profiles ports.ProfileStore,
	store *session.Store,
	provider ports.FederatedProviderConfig,
	strictLoginPolicy bool,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		gateway:           gateway,
		profiles:          profiles,
		store:             store,
		provider:          provider,
		strictLoginPolicy: strictLoginPolicy,
		log:               log,
	}
}

// Login validates locally, exchanges credentials with the gateway, applies
// the session transition and resolves the post-login redirect from the
// origin captured by the forward guard.
func (s *AuthService) Login(ctx context.Context, email, password, origin string) (*ports.LoginResult, error) {
	if !s.loginInFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmitInFlight
	}
	defer s.loginInFlight.Store(false)

	if fields := s.validateLogin(email, password); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	cred, err := s.gateway.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("auth: password sign-in failed")
		return nil, err
	}

	user := domain.NewUser(*cred)
	s.store.Login(user)

	return &ports.LoginResult{User: user, RedirectTo: guard.SafeOrigin(origin)}, nil
}

// LoginFederated exchanges a provider-issued assertion for a credential.
// An aborted or blocked provider handoff is a recoverable, user-visible
// outcome; the user re-initiates, nothing retries automatically.
func (s *AuthService) LoginFederated(ctx context.Context, assertion, origin string) (*ports.LoginResult, error) {
	if !s.loginInFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmitInFlight
	}
	defer s.loginInFlight.Store(false)

	cred, err := s.gateway.SignInWithFederatedProvider(ctx, s.provider, assertion)
	if err != nil {
		s.log.Warn().Err(err).Str("provider", s.provider.Name).Msg("auth: federated sign-in failed")
		return nil, err
	}

	user := domain.NewUser(*cred)
	s.store.Login(user)

	return &ports.LoginResult{User: user, RedirectTo: guard.SafeOrigin(origin)}, nil
}

// Register creates the account, sets its display name and best-effort
// writes a profile document, then signs the fresh session back out so the
// user logs in explicitly.
func (s *AuthService) Register(ctx context.Context, name, email, password, confirmPassword string) (*ports.RegisterResult, error) {
	if !s.registerInFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmitInFlight
	}
	defer s.registerInFlight.Store(false)

	if fields := validateRegistration(name, email, password, confirmPassword); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	cred, err := s.gateway.CreateAccount(ctx, email, password)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("auth: account creation failed")
		return nil, err
	}

	if err := s.gateway.UpdateDisplayName(ctx, cred.ID, name); err != nil {
		return nil, fmt.Errorf("update display name: %w", err)
	}

	if s.profiles != nil {
		profile := domain.Profile{Name: name, Email: cred.Email, Role: "user", CreatedAt: nowUTC()}
		if err := s.profiles.WriteProfile(ctx, cred.ID, profile); err != nil {
			s.log.Warn().Err(err).Str("user_id", cred.ID).Msg("auth: profile write skipped")
		}
	}

	// Deliberate product decision: force an explicit login step.
	if err := s.gateway.SignOut(ctx); err != nil {
		s.log.Warn().Err(err).Msg("auth: post-registration sign-out failed")
	}

	return &ports.RegisterResult{JustRegistered: true, RedirectTo: guard.PathAuth}, nil
}

// Logout delegates to the session store's optimistic clear.
func (s *AuthService) Logout(ctx context.Context) {
	s.store.Logout(ctx)
}

func nowUTC() time.Time { return time.Now().UTC() }

func (s *AuthService) validateLogin(email, password string) ports.FieldErrors {
	fields := ports.FieldErrors{}

	switch {
	case strings.TrimSpace(email) == "":
		fields["email"] = "Email is required"
	case !domain.ValidEmailShape(email):
		fields["email"] = "Please enter a valid email address"
	}

	switch {
	case strings.TrimSpace(password) == "":
		fields["password"] = "Password is required"
	case s.strictLoginPolicy && !domain.CheckPassword(password).Satisfied():
		fields["password"] = "Password does not meet security requirements"
	}

	return fields
}

// validateRegistration applies the local rules in order: name, email shape,
// full password policy, confirmation match. First failing rule wins per
// field; multiple fields may error at once.
func validateRegistration(name, email, password, confirmPassword string) ports.FieldErrors {
	fields := ports.FieldErrors{}

	if strings.TrimSpace(name) == "" {
		fields["name"] = "Name is required"
	}

	switch {
	case strings.TrimSpace(email) == "":
		fields["email"] = "Email is required"
	case !domain.ValidEmailShape(email):
		fields["email"] = "Please enter a valid email address"
	}

	switch {
	case password == "":
		fields["password"] = "Password is required"
	case !domain.CheckPassword(password).Satisfied():
		fields["password"] = "Password does not meet security requirements"
	}

	if fields["password"] == "" && password != confirmPassword {
		fields["confirm_password"] = "Passwords do not match"
	}

	return fields
}
