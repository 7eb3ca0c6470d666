// Package session holds the signed-in customer: their profile and bearer
// token. The profile is persisted in the "auth-storage" record; the token is
// kept in its own encrypted record.
//
// A session is authenticated exactly when both a profile and a token are
// present. Login establishes that, Logout and Invalidate tear it down.
package session

import (
	"sync"

	"github.com/felixgeelhaar/maison/internal/domain"
	"github.com/felixgeelhaar/maison/internal/errors"
	"github.com/felixgeelhaar/maison/internal/log"
	"github.com/felixgeelhaar/maison/internal/persist"
)

// StoreName is the durable record holding the session.
const StoreName = "auth-storage"

// State is the persisted session shape. Token is only read, for records
// written before tokens were stored separately; it is never written.
type State struct {
	User            *domain.User `json:"user"`
	Token           string       `json:"token,omitempty"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Session is the process-wide auth state. It is safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	state  *persist.Container[State]
	tokens *TokenStore
	token  string
	logger *log.Logger
}

// Open hydrates the session. A session whose token cannot be recovered is
// treated as signed out.
func Open(backend persist.Backend, tokens *TokenStore, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Discard()
	}
	store := persist.New(backend, persist.Options[State]{
		Name:    StoreName,
		Default: func() State { return State{} },
		Logger:  logger,
	})

	s := &Session{
		state:  persist.Open(store),
		tokens: tokens,
		logger: logger.With("component", "session"),
	}
	s.hydrateToken()
	return s
}

func (s *Session) hydrateToken() {
	var st State
	s.state.View(func(v State) { st = v })

	token, err := s.tokens.Load()
	if err != nil {
		s.logger.WithError(err).Debug("stored token unusable")
	}
	if token == "" && st.Token != "" {
		token = st.Token
		if err := s.tokens.Save(token); err != nil {
			s.logger.WithError(err).Debug("failed to move legacy token")
		}
	}
	s.token = token

	consistent := st.User != nil && token != ""
	switch {
	case consistent && st.IsAuthenticated && st.Token == "":
		return
	case consistent:
		if err := s.state.Reset(State{User: st.User, IsAuthenticated: true}); err != nil {
			s.logger.WithError(err).Debug("failed to rewrite session record")
		}
	default:
		s.token = ""
		if token != "" {
			_ = s.tokens.Delete()
		}
		if st.User != nil || st.IsAuthenticated || st.Token != "" {
			if err := s.state.Reset(State{}); err != nil {
				s.logger.WithError(err).Debug("failed to clear partial session")
			}
		}
	}
}

// Login records user and token as the active session.
func (s *Session) Login(user domain.User, token string) error {
	if token == "" {
		return errors.New(errors.ErrCodeAuthRequired, "login returned an empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tokens.Save(token); err != nil {
		return err
	}
	u := user
	if err := s.state.Reset(State{User: &u, IsAuthenticated: true}); err != nil {
		_ = s.tokens.Delete()
		return err
	}
	s.token = token
	s.logger.Debug("signed in", "user_id", user.ID)
	return nil
}

// Logout ends the session and removes the stored token.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teardown()
}

// Invalidate ends the session after the API rejected its credential.
func (s *Session) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return nil
	}
	s.logger.Warn("session rejected by the server, signing out")
	return s.teardown()
}

func (s *Session) teardown() error {
	s.token = ""
	tokenErr := s.tokens.Delete()
	if err := s.state.Reset(State{}); err != nil {
		return err
	}
	return tokenErr
}

// UpdateUser replaces the stored profile. The token and authentication flag
// are left as they are.
func (s *Session) UpdateUser(user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	return s.state.Update(func(st State) (State, error) {
		return State{User: &u, IsAuthenticated: st.IsAuthenticated}, nil
	})
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the stored profile.
func (s *Session) User() (domain.User, bool) {
	var (
		u  domain.User
		ok bool
	)
	s.state.View(func(st State) {
		if st.User != nil {
			u, ok = *st.User, true
		}
	})
	return u, ok
}

// IsAuthenticated reports whether both a profile and a token are present.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	var auth bool
	s.state.View(func(st State) { auth = st.IsAuthenticated && st.User != nil })
	return auth && token != ""
}

// IsAdmin reports whether the signed-in user is an administrator.
func (s *Session) IsAdmin() bool {
	u, ok := s.User()
	return ok && s.IsAuthenticated() && u.IsAdmin
}

// RequireAuth returns an error unless the session is authenticated.
func (s *Session) RequireAuth() error {
	if !s.IsAuthenticated() {
		return errors.NewAuthRequiredError()
	}
	return nil
}

// RequireAdmin returns an error unless an administrator is signed in.
func (s *Session) RequireAdmin() error {
	if err := s.RequireAuth(); err != nil {
		return err
	}
	if !s.IsAdmin() {
		return errors.NewAdminRequiredError()
	}
	return nil
}
