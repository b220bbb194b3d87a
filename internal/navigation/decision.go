// Package navigation gates view transitions on the session state.
package navigation

import "github.com/fastygo/dashboard/domain"

// Action is the outcome of a guard check.
type Action int

const (
	ActionAllow Action = iota
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision tells the router whether to proceed or where to go instead.
type Decision struct {
	Action Action
	// Target is the route name to redirect to.
	Target string
}

// Allow proceeds with the requested transition.
func Allow() Decision {
	return Decision{Action: ActionAllow}
}

// RedirectTo sends the transition to the named route.
func RedirectTo(name string) Decision {
	return Decision{Action: ActionRedirect, Target: name}
}

// Allowed reports whether the transition may proceed.
func (d Decision) Allowed() bool {
	return d.Action == ActionAllow
}

// Decide applies the route table rules. It is pure: the same inputs always
// yield the same decision, and from does not influence the outcome.
//
//	requires auth, unauthenticated  -> login
//	requires auth, authenticated    -> allow
//	login view, authenticated       -> home
//	anything else                   -> allow
func Decide(to, from domain.Location, authenticated bool) Decision {
	if to.Route.RequiresAuth {
		if !authenticated {
			return RedirectTo(domain.RouteLogin)
		}
		return Allow()
	}
	if authenticated && to.Route.Name == domain.RouteLogin {
		return RedirectTo(domain.RouteHome)
	}
	return Allow()
}
