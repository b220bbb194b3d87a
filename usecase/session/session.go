// Package session owns the client's authentication state.
//
// The controller moves between two states, unauthenticated and
// authenticated(token). The in-memory token, the persisted token and the
// outbound Authorization header are always changed together under one lock.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/dashboard/domain"
)

// TokenStore is the persistent token slot. Implementations are best-effort.
type TokenStore interface {
	Read() (string, bool)
	Write(token string)
	Clear()
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (string, error)
}

// Authorizer carries the Authorization header for outbound requests.
type Authorizer interface {
	Set(token string)
	Clear()
}

// Navigator is the router collaborator notified after login and logout.
type Navigator interface {
	Push(name string, params map[string]string) error
	Replace(name string, params map[string]string) error
}

// Controller is the session state machine.
type Controller struct {
	mu          sync.RWMutex
	session     domain.Session
	initialized bool
	// generation is bumped by every logout so a login that was in flight
	// cannot resurrect the session afterwards.
	generation  uint64
	cancelLogin context.CancelFunc

	store      TokenStore
	auth       Authenticator
	authorizer Authorizer
	navigator  Navigator
	logger     *zap.Logger
}

// New builds an unauthenticated controller. Call Initialize to restore a
// persisted session.
func New(store TokenStore, auth Authenticator, authorizer Authorizer, logger *zap.Logger) *Controller {
	if store == nil {
		store = nopStore{}
	}
	if authorizer == nil {
		authorizer = nopAuthorizer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		store:      store,
		auth:       auth,
		authorizer: authorizer,
		logger:     logger,
	}
}

// BindNavigator attaches the router. The navigator itself consults the
// controller through its guard, so it is wired after construction.
func (c *Controller) BindNavigator(nav Navigator) {
	c.mu.Lock()
	c.navigator = nav
	c.mu.Unlock()
}

// Initialize restores the persisted token, if any. Only the first call reads
// the store; an existing authenticated session is never overridden.
func (c *Controller) Initialize() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return
	}
	c.initialized = true
	if c.session.IsAuthenticated() {
		return
	}

	token, ok := c.store.Read()
	if !ok || token == "" {
		return
	}
	c.session.Token = token
	c.authorizer.Set(token)
	c.logger.Debug("session restored from token store")
}

// Login submits creds to the authentication endpoint. On success the token
// is kept, persisted and attached to outbound requests, then the navigator
// replaces the current view with home. On any failure the session is logged
// out and the cause is returned.
func (c *Controller) Login(ctx context.Context, creds domain.Credentials) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.cancelLogin != nil {
		c.mu.Unlock()
		return domain.ErrLoginInProgress
	}
	if err := creds.Validate(); err != nil {
		c.mu.Unlock()
		c.Logout()
		return fmt.Errorf("login: %w", err)
	}
	if c.auth == nil {
		c.mu.Unlock()
		c.Logout()
		return fmt.Errorf("login: %w", domain.ErrEndpointUnavailable)
	}

	loginCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.cancelLogin = cancel
	generation := c.generation
	c.mu.Unlock()

	token, err := c.auth.Login(loginCtx, creds)

	c.mu.Lock()
	c.cancelLogin = nil
	if generation != c.generation {
		c.mu.Unlock()
		c.logger.Info("login discarded, session was logged out meanwhile")
		return fmt.Errorf("login: %w", domain.ErrLoginSuperseded)
	}
	if err != nil {
		c.mu.Unlock()
		c.logger.Info("login failed", zap.Error(err))
		c.Logout()
		return fmt.Errorf("login: %w", err)
	}

	c.session.Token = token
	c.initialized = true
	c.store.Write(token)
	c.authorizer.Set(token)
	nav := c.navigator
	c.mu.Unlock()

	c.logger.Info("login succeeded")
	if nav != nil {
		if err := nav.Replace(domain.RouteHome, nil); err != nil {
			c.logger.Warn("navigation after login failed", zap.Error(err))
		}
	}
	return nil
}

// Logout clears the session unconditionally and navigates to the login view.
// A login still in flight is cancelled and its result discarded.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.generation++
	if c.cancelLogin != nil {
		c.cancelLogin()
	}
	c.session = domain.Session{}
	// A token left behind by a failed clear must not be restored later.
	c.initialized = true
	c.store.Clear()
	c.authorizer.Clear()
	nav := c.navigator
	c.mu.Unlock()

	if nav != nil {
		if err := nav.Push(domain.RouteLogin, nil); err != nil {
			c.logger.Warn("navigation after logout failed", zap.Error(err))
		}
	}
}

// IsAuthenticated reflects the last completed transition.
func (c *Controller) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.IsAuthenticated()
}

// Token returns the current token, empty when unauthenticated.
func (c *Controller) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session.Token
}

// Initialized reports whether the session state is known: Initialize, a
// successful Login or a Logout has run.
func (c *Controller) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// HasStoredToken reports whether the persistent slot currently holds a token.
func (c *Controller) HasStoredToken() bool {
	token, ok := c.store.Read()
	return ok && token != ""
}

type nopStore struct{}

func (nopStore) Read() (string, bool) { return "", false }
func (nopStore) Write(string)         {}
func (nopStore) Clear()               {}

type nopAuthorizer struct{}

func (nopAuthorizer) Set(string) {}
func (nopAuthorizer) Clear()     {}
