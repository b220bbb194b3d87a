package navigation

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/dashboard/domain"
)

const (
	maxRedirects = 3
	maxHistory   = 50
)

// BeforeHook inspects a transition before it is committed.
type BeforeHook interface {
	Before(to, from domain.Location) Decision
}

// Navigator keeps the current view and its history. Every transition passes
// through the hook; redirects are followed up to a small bound.
type Navigator struct {
	routes []domain.Route
	byName map[string]domain.Route
	hook   BeforeHook
	logger *zap.Logger

	mu      sync.RWMutex
	history []domain.Location
}

// NewNavigator builds a navigator over routes. A nil hook allows everything.
func NewNavigator(routes []domain.Route, hook BeforeHook, logger *zap.Logger) *Navigator {
	if len(routes) == 0 {
		routes = domain.DefaultRoutes()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	byName := make(map[string]domain.Route, len(routes))
	for _, r := range routes {
		byName[r.Name] = r
	}
	return &Navigator{
		routes: routes,
		byName: byName,
		hook:   hook,
		logger: logger,
	}
}

// Routes returns the route table.
func (n *Navigator) Routes() []domain.Route {
	out := make([]domain.Route, len(n.routes))
	copy(out, n.routes)
	return out
}

// Lookup finds a route by name.
func (n *Navigator) Lookup(name string) (domain.Route, bool) {
	r, ok := n.byName[name]
	return r, ok
}

// Location builds the concrete location of a named route.
func (n *Navigator) Location(name string, params map[string]string) (domain.Location, error) {
	r, ok := n.Lookup(name)
	if !ok {
		return domain.Location{}, fmt.Errorf("route %q: %w", name, domain.ErrRouteNotFound)
	}
	path, err := r.Build(params)
	if err != nil {
		return domain.Location{}, fmt.Errorf("route %q: %w", name, err)
	}
	return domain.Location{Route: r, Params: params, Path: path}, nil
}

// Resolve matches path against the route table in declaration order.
func (n *Navigator) Resolve(path string) (domain.Location, error) {
	for _, r := range n.routes {
		if params, ok := r.Match(path); ok {
			canonical, err := r.Build(params)
			if err != nil {
				return domain.Location{}, err
			}
			return domain.Location{Route: r, Params: params, Path: canonical}, nil
		}
	}
	return domain.Location{}, fmt.Errorf("path %q: %w", path, domain.ErrRouteNotFound)
}

// Push navigates to the named route and appends it to the history.
func (n *Navigator) Push(name string, params map[string]string) error {
	to, err := n.Location(name, params)
	if err != nil {
		return err
	}
	_, err = n.Navigate(to, false)
	return err
}

// Replace navigates to the named route, overwriting the current entry.
func (n *Navigator) Replace(name string, params map[string]string) error {
	to, err := n.Location(name, params)
	if err != nil {
		return err
	}
	_, err = n.Navigate(to, true)
	return err
}

// Open resolves path and pushes it. The returned location is where the
// navigation ended up after redirects.
func (n *Navigator) Open(path string) (domain.Location, error) {
	to, err := n.Resolve(path)
	if err != nil {
		return domain.Location{}, err
	}
	return n.Navigate(to, false)
}

// Navigate runs the hook for to, follows redirects and commits the final
// location.
func (n *Navigator) Navigate(to domain.Location, replace bool) (domain.Location, error) {
	from := n.Current()

	for redirects := 0; ; redirects++ {
		decision := Allow()
		if n.hook != nil {
			decision = n.hook.Before(to, from)
		}
		if decision.Allowed() {
			break
		}
		if redirects == maxRedirects {
			return domain.Location{}, fmt.Errorf("navigate to %q: %w", to.Path, domain.ErrTooManyRedirects)
		}
		next, err := n.Location(decision.Target, nil)
		if err != nil {
			return domain.Location{}, fmt.Errorf("redirect from %q: %w", to.Path, err)
		}
		n.logger.Debug("navigation redirected",
			zap.String("from", to.Path),
			zap.String("to", next.Path))
		to = next
	}

	n.commit(to, replace)
	return to, nil
}

func (n *Navigator) commit(to domain.Location, replace bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	last := len(n.history) - 1
	switch {
	case last >= 0 && replace:
		n.history[last] = to
	case last >= 0 && n.history[last].Path == to.Path:
		n.history[last] = to
	default:
		n.history = append(n.history, to)
	}
	if len(n.history) > maxHistory {
		n.history = append([]domain.Location(nil), n.history[len(n.history)-maxHistory:]...)
	}
}

// Current returns the committed location, zero before the first navigation.
func (n *Navigator) Current() domain.Location {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if len(n.history) == 0 {
		return domain.Location{}
	}
	return n.history[len(n.history)-1]
}

// History returns the committed locations, oldest first.
func (n *Navigator) History() []domain.Location {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]domain.Location, len(n.history))
	copy(out, n.history)
	return out
}
