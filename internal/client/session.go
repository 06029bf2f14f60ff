// Package client implements the client side of the Atrium session lifecycle:
// a durable token store, the HTTP API surface, and the session controller
// that owns the current-user value.
package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// State is the session lifecycle phase.
type State int

const (
	// StateUnauthenticated means no user is logged in.
	StateUnauthenticated State = iota
	// StateResolving means a stored credential is being verified.
	StateResolving
	// StateAuthenticated means a valid user is installed.
	StateAuthenticated
)

// Route identifies a view the controller navigates to after an operation.
type Route string

const (
	RouteLanding    Route = "/"
	RouteProfile    Route = "/profile"
	RouteRegistered Route = "/registered"
)

// Navigator receives the navigation side effects of session operations.
type Navigator interface {
	To(route Route)
}

// ErrProfileUnavailable is returned when a login succeeded but the fresh
// token could not be resolved to a valid user.
var ErrProfileUnavailable = errors.New("could not load your profile")

var errGenericFailure = errors.New("something went wrong, please try again")

// Session owns the current authenticated user and keeps it in sync with the
// token store and the remote identity endpoint. Construct it with NewSession
// and call Resolve once at startup.
//
// Operations are safe for concurrent use, but overlapping Login calls are
// last-write-wins on the shared credential.
type Session struct {
	api    API
	store  TokenStore
	nav    Navigator
	logger *slog.Logger

	mu    sync.Mutex
	state State
	user  *User
}

// NewSession constructs a Session. The initial state is Resolving when a
// credential is already stored, Unauthenticated otherwise.
func NewSession(api API, store TokenStore, nav Navigator, logger *slog.Logger) *Session {
	s := &Session{api: api, store: store, nav: nav, logger: logger}
	if store.Get() != "" {
		s.state = StateResolving
	}
	return s
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the authenticated user, or nil.
func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Resolve performs the startup resolution: a stored credential is verified
// against the identity endpoint, any failure clears it. Resolve never
// reports an error; all failures end in the unauthenticated state.
func (s *Session) Resolve(ctx context.Context) {
	token := s.store.Get()
	if token == "" {
		s.setUnauthenticated()
		return
	}
	s.resolveWith(ctx, token)
}

// Login exchanges credentials for a token, persists it, and resolves the
// user. On full success it navigates to the profile view and returns nil;
// otherwise it returns an error whose message is suitable for display.
func (s *Session) Login(ctx context.Context, identifier, secret string) error {
	token, err := s.api.Login(ctx, identifier, secret)
	if err != nil {
		return displayable(err)
	}
	if err := s.store.Set(token); err != nil && s.logger != nil {
		s.logger.Warn("persist credential", slog.Any("error", err))
	}
	if !s.resolveWith(ctx, token) {
		return ErrProfileUnavailable
	}
	s.nav.To(RouteProfile)
	return nil
}

// Logout clears the credential and the in-memory user, then navigates to
// the landing view. It always navigates, regardless of prior state.
func (s *Session) Logout() {
	if err := s.store.Clear(); err != nil && s.logger != nil {
		s.logger.Warn("clear credential", slog.Any("error", err))
	}
	s.setUnauthenticated()
	s.nav.To(RouteLanding)
}

// Register submits a new account profile. Session state is not affected;
// registration does not imply login. On success it navigates to the
// registered view and returns nil.
func (s *Session) Register(ctx context.Context, profile Profile) error {
	if err := s.api.Register(ctx, profile); err != nil {
		return displayable(err)
	}
	s.nav.To(RouteRegistered)
	return nil
}

// resolveWith fetches the user behind a token and installs it when valid.
// Any failure clears the stored credential and returns false.
func (s *Session) resolveWith(ctx context.Context, token string) bool {
	user, err := s.api.CurrentUser(ctx, token)
	if err != nil || !user.Valid() {
		if err != nil && s.logger != nil {
			s.logger.Debug("identity resolution failed", slog.Any("error", err))
		}
		if cerr := s.store.Clear(); cerr != nil && s.logger != nil {
			s.logger.Warn("clear credential", slog.Any("error", cerr))
		}
		s.setUnauthenticated()
		return false
	}
	s.mu.Lock()
	s.state = StateAuthenticated
	s.user = user
	s.mu.Unlock()
	return true
}

func (s *Session) setUnauthenticated() {
	s.mu.Lock()
	s.state = StateUnauthenticated
	s.user = nil
	s.mu.Unlock()
}

// displayable keeps server-supplied messages and hides everything else
// behind a generic failure message.
func displayable(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	return errGenericFailure
}
