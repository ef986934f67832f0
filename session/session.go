// Package session holds the authenticated user and bearer token for one
// client of the backend. A Session is passed explicitly to whatever needs it;
// there is no process-wide auth state.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FrenchMajesty/agrilens/pkg/types"
	"github.com/FrenchMajesty/agrilens/utils/validate"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a logged-in user
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidEmail is returned by Login before any network call when the
	// address is syntactically invalid
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrNoAuthenticator is returned by Login and Register when no backend is attached
	ErrNoAuthenticator = errors.New("no authenticator configured")
)

// Authenticator performs the backend calls behind Login and Register.
// *backend.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*types.Token, error)
	MeWithToken(ctx context.Context, token string) (*types.User, error)
	Register(ctx context.Context, req types.RegisterRequest) (*types.User, error)
}

// Session is safe for concurrent use
type Session struct {
	mu     sync.RWMutex
	state  State
	store  Store
	auth   Authenticator
	logger *zap.Logger
}

// New restores a session from store. A fresh session ID is assigned when the
// stored state has none.
func New(store Store, logger *zap.Logger) (*Session, error) {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	state, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if state.ID == "" {
		state.ID = uuid.NewString()
	}

	return &Session{
		state:  *state,
		store:  store,
		logger: logger.With(zap.String("session_id", state.ID)),
	}, nil
}

// SetAuthenticator attaches the backend used by Login and Register
func (s *Session) SetAuthenticator(auth Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// ID returns the session identifier
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ID
}

// Token returns the bearer token, or "" when there is none
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// CurrentUser returns a copy of the logged-in user, or nil
func (s *Session) CurrentUser() *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// IsAuthenticated reports whether a user or token has been set
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// Require returns the current user or ErrNotAuthenticated
func (s *Session) Require() (*types.User, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if u := s.CurrentUser(); u != nil {
		return u, nil
	}
	return nil, ErrNotAuthenticated
}

// Login authenticates with email and password, then fetches the user that
// owns the new token. The session is only updated when both calls succeed.
func (s *Session) Login(ctx context.Context, email, password string) (*types.User, error) {
	if !validate.Email(email) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	auth, err := s.authenticator()
	if err != nil {
		return nil, err
	}

	token, err := auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	user, err := auth.MeWithToken(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	err = s.update(func(st *State) {
		st.User = user
		st.Token = token.AccessToken
		st.Authenticated = true
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Register creates an account and marks the session authenticated as that
// user. The backend issues no token on registration.
func (s *Session) Register(ctx context.Context, req types.RegisterRequest) (*types.User, error) {
	if !validate.Email(req.Email) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, req.Email)
	}
	if req.Phone != "" && !validate.Phone(req.Phone) {
		return nil, fmt.Errorf("invalid phone number %q", req.Phone)
	}
	auth, err := s.authenticator()
	if err != nil {
		return nil, err
	}

	user, err := auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.SetUser(user); err != nil {
		return nil, err
	}
	s.logger.Info("registered", zap.String("user_id", user.ID))
	return user, nil
}

// SetUser stores user and marks the session authenticated
func (s *Session) SetUser(user *types.User) error {
	return s.update(func(st *State) {
		st.User = user
		st.Authenticated = true
	})
}

// SetToken stores token and marks the session authenticated
func (s *Session) SetToken(token string) error {
	return s.update(func(st *State) {
		st.Token = token
		st.Authenticated = true
	})
}

// Logout forgets the user and token. The session ID is kept.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{ID: s.state.ID}
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// Expire is the backend's 401 hook: it logs the session out and logs any
// failure to clear the store
func (s *Session) Expire(ctx context.Context) {
	s.logger.Warn("backend rejected credentials, ending session")
	if err := s.Logout(ctx); err != nil {
		s.logger.Error("failed to end session", zap.Error(err))
	}
}

func (s *Session) authenticator() (Authenticator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.auth == nil {
		return nil, ErrNoAuthenticator
	}
	return s.auth, nil
}

func (s *Session) update(fn func(st *State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	fn(&next)
	if err := s.store.Save(&next); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.state = next
	return nil
}
