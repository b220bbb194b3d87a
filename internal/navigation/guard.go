package navigation

import (
	"go.uber.org/zap"

	"github.com/fastygo/dashboard/domain"
)

// SessionState is the part of the session controller the guard reads.
type SessionState interface {
	IsAuthenticated() bool
	HasStoredToken() bool
	Initialized() bool
	Initialize()
}

// Guard runs before every navigation.
type Guard struct {
	session SessionState
	logger  *zap.Logger
}

// NewGuard builds a guard over session.
func NewGuard(session SessionState, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{session: session, logger: logger}
}

// Before decides the transition from -> to. A session that was never
// initialized but has a persisted token is restored first, so the first
// navigation after a restart is not bounced to the login view. Once the
// session state is known the store is not consulted again.
func (g *Guard) Before(to, from domain.Location) Decision {
	authenticated := g.session.IsAuthenticated()
	if !authenticated && !g.session.Initialized() && g.session.HasStoredToken() {
		g.session.Initialize()
		authenticated = g.session.IsAuthenticated()
	}

	decision := Decide(to, from, authenticated)
	g.logger.Debug("navigation guard",
		zap.String("to", to.Path),
		zap.String("from", from.Path),
		zap.Bool("authenticated", authenticated),
		zap.Stringer("action", decision.Action),
		zap.String("target", decision.Target))
	return decision
}
