// Package gateway is an in-house implementation of the credential gateway
// contract: password and federated sign-in, account creation, and a
// persisted session replayed to subscribers at startup. Accounts live in
// MongoDB, the persisted session and the attempt budget in Redis, and the
// session token is a signed JWT scoped to one installation.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dearecho/dearecho-api/internal/core/domain"
	"github.com/dearecho/dearecho-api/internal/core/ports"
)

// The gateway enforces its own password floor, distinct from the client
// checklist: anything shorter is rejected as weak at account creation.
const weakPasswordFloor = 6

const defaultSessionTTL = 30 * 24 * time.Hour

// SessionRecordStore persists the session token across process restarts.
type SessionRecordStore interface {
	Save(ctx context.Context, installationID, token string, ttl time.Duration) error
	Load(ctx context.Context, installationID string) (string, error)
	Clear(ctx context.Context, installationID string) error
}

// AttemptLimiter throttles password exchanges per email.
type AttemptLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
	Reset(ctx context.Context, email string) error
}

// Config identifies the gateway deployment and signs its session tokens.
type Config struct {
	ProjectID      string
	InstallationID string
	SessionSecret  string
	ProviderSecret string
	SessionTTL     time.Duration
}

// Gateway implements ports.CredentialGateway.
type Gateway struct {
	accounts ports.AccountRepository
	records  SessionRecordStore
	limiter  AttemptLimiter
	cfg      Config
	log      zerolog.Logger

	mu          sync.Mutex
	subscribers map[int]func(*domain.Credential)
	nextSub     int
	current     *domain.Credential
	hydrated    bool
}

func New(accounts ports.AccountRepository, records SessionRecordStore, limiter AttemptLimiter, cfg Config, log zerolog.Logger) *Gateway {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	return &Gateway{
		accounts:    accounts,
		records:     records,
		limiter:     limiter,
		cfg:         cfg,
		log:         log,
		subscribers: make(map[int]func(*domain.Credential)),
	}
}

// Start rehydrates the persisted session and delivers the result to
// subscribers. Any failure along the way degrades to signed-out.
func (g *Gateway) Start(ctx context.Context) {
	token, err := g.records.Load(ctx, g.cfg.InstallationID)
	if err != nil {
		g.log.Error().Err(err).Msg("gateway: session rehydration failed, starting signed out")
		g.emit(nil)
		return
	}
	if token == "" {
		g.emit(nil)
		return
	}

	cred, err := g.credentialFromToken(ctx, token)
	if err != nil {
		g.log.Warn().Err(err).Msg("gateway: persisted session rejected, starting signed out")
		if err := g.records.Clear(ctx, g.cfg.InstallationID); err != nil {
			g.log.Warn().Err(err).Msg("gateway: stale session record not cleared")
		}
		g.emit(nil)
		return
	}
	g.emit(cred)
}

// SubscribeToSession registers cb and, once the gateway has hydrated,
// immediately replays the current state to it.
func (g *Gateway) SubscribeToSession(cb func(*domain.Credential)) ports.UnsubscribeFunc {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subscribers[id] = cb
	replay := g.hydrated
	current := g.current
	g.mu.Unlock()

	if replay {
		cb(current)
	}

	return func() {
		g.mu.Lock()
		delete(g.subscribers, id)
		g.mu.Unlock()
	}
}

func (g *Gateway) SignInWithPassword(ctx context.Context, email, password string) (*domain.Credential, error) {
	if !domain.ValidEmailShape(email) {
		return nil, domain.ErrInvalidEmail
	}

	allowed, err := g.limiter.Allow(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("attempt budget: %w", err)
	}
	if !allowed {
		return nil, domain.ErrTooManyRequests
	}

	account, err := g.accounts.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if account.Disabled {
		return nil, domain.ErrUserDisabled
	}
	if account.PasswordHash == "" {
		// Federated-only account; no password to compare against.
		return nil, domain.ErrWrongPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrWrongPassword
	}

	if err := g.limiter.Reset(ctx, email); err != nil {
		g.log.Warn().Err(err).Msg("gateway: attempt budget reset failed")
	}

	return g.openSession(ctx, account)
}

// SignInWithFederatedProvider validates a provider-issued identity
// assertion and provisions an account on first sign-in. An empty assertion
// means the provider handoff was abandoned before a token was issued.
func (g *Gateway) SignInWithFederatedProvider(ctx context.Context, provider ports.FederatedProviderConfig, assertion string) (*domain.Credential, error) {
	if assertion == "" {
		return nil, domain.ErrPopupClosedByUser
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(assertion, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(g.cfg.ProviderSecret), nil
	}, jwt.WithIssuer(provider.Issuer), jwt.WithAudience(provider.Audience))
	if err != nil || !token.Valid {
		g.log.Warn().Err(err).Str("provider", provider.Name).Msg("gateway: federated assertion rejected")
		return nil, domain.ErrInvalidCredential
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if email == "" {
		return nil, domain.ErrInvalidCredential
	}

	account, err := g.accounts.FindByEmail(ctx, strings.ToLower(email))
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		account, err = g.accounts.Create(ctx, &domain.Account{
			ID:          uuid.NewString(),
			Email:       strings.ToLower(email),
			DisplayName: name,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}
	if account.Disabled {
		return nil, domain.ErrUserDisabled
	}

	return g.openSession(ctx, account)
}

// CreateAccount provisions the account and opens a session for it, the
// same as a federated first sign-in would.
func (g *Gateway) CreateAccount(ctx context.Context, email, password string) (*domain.Credential, error) {
	if !domain.ValidEmailShape(email) {
		return nil, domain.ErrInvalidEmail
	}
	if len(password) < weakPasswordFloor {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := g.accounts.Create(ctx, &domain.Account{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	return g.openSession(ctx, account)
}

func (g *Gateway) UpdateDisplayName(ctx context.Context, credentialID, name string) error {
	if err := g.accounts.UpdateDisplayName(ctx, credentialID, name); err != nil {
		return err
	}

	g.mu.Lock()
	if g.current != nil && g.current.ID == credentialID {
		g.current.DisplayName = name
	}
	g.mu.Unlock()
	return nil
}

// SignOut clears the persisted session and notifies subscribers. Signing
// out while signed out is a no-op.
func (g *Gateway) SignOut(ctx context.Context) error {
	if err := g.records.Clear(ctx, g.cfg.InstallationID); err != nil {
		return err
	}
	g.emit(nil)
	return nil
}

// openSession mints and persists a session token for account and notifies
// subscribers of the new credential.
func (g *Gateway) openSession(ctx context.Context, account *domain.Account) (*domain.Credential, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"name":  account.DisplayName,
		"iss":   g.issuer(),
		"iat":   now.Unix(),
		"exp":   now.Add(g.cfg.SessionTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(g.cfg.SessionSecret))
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	if err := g.records.Save(ctx, g.cfg.InstallationID, token, g.cfg.SessionTTL); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	cred := &domain.Credential{ID: account.ID, DisplayName: account.DisplayName, Email: account.Email}
	g.emit(cred)
	return cred, nil
}

// credentialFromToken validates a persisted session token and re-reads the
// account so a disable that happened between sessions is honored.
func (g *Gateway) credentialFromToken(ctx context.Context, token string) (*domain.Credential, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(g.cfg.SessionSecret), nil
	}, jwt.WithIssuer(g.issuer()), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredential
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, domain.ErrInvalidCredential
	}

	account, err := g.accounts.FindByID(ctx, sub)
	if err != nil {
		return nil, err
	}
	if account.Disabled {
		return nil, domain.ErrUserDisabled
	}

	return &domain.Credential{ID: account.ID, DisplayName: account.DisplayName, Email: account.Email}, nil
}

func (g *Gateway) issuer() string {
	return "dearecho-gateway/" + g.cfg.ProjectID
}

func (g *Gateway) emit(cred *domain.Credential) {
	g.mu.Lock()
	g.current = cred
	g.hydrated = true
	cbs := make([]func(*domain.Credential), 0, len(g.subscribers))
	for _, cb := range g.subscribers {
		cbs = append(cbs, cb)
	}
	g.mu.Unlock()

	for _, cb := range cbs {
		cb(cred)
	}
}
