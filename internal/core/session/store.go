// Package session holds the single source of truth for "who is logged in".
//
// One Store exists per process. It is written by exactly three paths: the
// gateway session subscription (the authoritative one), the explicit Login
// transition used by flows that already hold a verified identity, and
// Logout. Everything else reads snapshots or registers a change watcher.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dearecho/dearecho-api/internal/core/domain"
	"github.com/dearecho/dearecho-api/internal/core/ports"
)

// Store is the process-wide session state machine.
type Store struct {
	gateway ports.CredentialGateway
	log     zerolog.Logger

	mu          sync.Mutex
	session     domain.Session
	watchers    map[int]func(domain.Session)
	nextWatcher int

	startOnce   sync.Once
	unsubscribe ports.UnsubscribeFunc
}

// NewStore creates a Store in the initializing state. Call Start to attach
// it to the gateway's session stream.
func NewStore(gateway ports.CredentialGateway, log zerolog.Logger) *Store {
	return &Store{
		gateway:  gateway,
		log:      log,
		session:  domain.Session{Initializing: true},
		watchers: make(map[int]func(domain.Session)),
	}
}

// Start subscribes to the gateway session stream. The subscription is
// established exactly once per Store regardless of how often Start is
// called; a duplicate subscription would double-fire transitions.
func (s *Store) Start() {
	s.startOnce.Do(func() {
		s.unsubscribe = s.gateway.SubscribeToSession(s.onGatewayEvent)
	})
}

// Close detaches the store from the gateway stream.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// onGatewayEvent is the single authoritative writer. A nil credential means
// signed out; a credential with an empty ID is a contract violation and is
// treated as signed out (fail closed, never a phantom authenticated state).
func (s *Store) onGatewayEvent(cred *domain.Credential) {
	if cred == nil {
		s.transition(domain.Session{})
		return
	}
	if cred.ID == "" {
		s.log.Error().Msg("session: gateway delivered credential without id, treating as signed out")
		s.transition(domain.Session{})
		return
	}
	user := domain.NewUser(*cred)
	s.transition(domain.Session{Authenticated: true, User: &user})
}

// Login applies an explicit local transition for flows that already obtained
// a verified identity, without waiting for a gateway round-trip.
func (s *Store) Login(user domain.User) {
	u := user
	s.transition(domain.Session{Authenticated: true, User: &u})
}

// Logout clears the session optimistically and then requests gateway
// sign-out; a sign-out failure is logged but never traps the user in an
// authenticated UI. Calling Logout while unauthenticated is a no-op.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	wasAuthenticated := s.session.Authenticated
	s.mu.Unlock()
	if !wasAuthenticated {
		return
	}

	s.transition(domain.Session{})

	if err := s.gateway.SignOut(ctx); err != nil {
		s.log.Warn().Err(err).Msg("session: gateway sign-out failed after local clear")
	}
}

// Snapshot returns the current session value.
func (s *Store) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// OnChange registers a watcher invoked after every transition. The returned
// func removes it.
func (s *Store) OnChange(fn func(domain.Session)) ports.UnsubscribeFunc {
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *Store) transition(next domain.Session) {
	s.mu.Lock()
	s.session = next
	fns := make([]func(domain.Session), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
