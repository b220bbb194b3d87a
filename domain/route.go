package domain

import (
	"net/url"
	"strings"
)

// Route names of the dashboard views.
const (
	RouteHome        = "home"
	RouteClassDetail = "class-detail"
	RouteAdmin       = "admin"
	RouteLogin       = "login"
)

// Route describes a named view and whether it is only reachable with a session.
type Route struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	RequiresAuth bool   `json:"requires_auth"`
}

// DefaultRoutes mirrors the dashboard's view table.
func DefaultRoutes() []Route {
	return []Route{
		{Name: RouteHome, Path: "/", RequiresAuth: true},
		{Name: RouteClassDetail, Path: "/classes/:id", RequiresAuth: true},
		{Name: RouteAdmin, Path: "/admin", RequiresAuth: true},
		{Name: RouteLogin, Path: "/login"},
	}
}

// Match reports whether path satisfies the route pattern and returns the
// captured :params.
func (r Route) Match(path string) (map[string]string, bool) {
	want := splitPath(r.Path)
	got := splitPath(path)
	if len(want) != len(got) {
		return nil, false
	}

	var params map[string]string
	for i, segment := range want {
		if strings.HasPrefix(segment, ":") {
			if got[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			value, err := url.PathUnescape(got[i])
			if err != nil {
				return nil, false
			}
			params[segment[1:]] = value
			continue
		}
		if segment != got[i] {
			return nil, false
		}
	}
	return params, true
}

// Build renders the concrete path for the given params.
func (r Route) Build(params map[string]string) (string, error) {
	segments := splitPath(r.Path)
	for i, segment := range segments {
		if !strings.HasPrefix(segment, ":") {
			continue
		}
		value, ok := params[segment[1:]]
		if !ok || value == "" {
			return "", WrapError(ErrCodeInvalid, "missing route param "+segment[1:], ErrInvalidPayload)
		}
		segments[i] = url.PathEscape(value)
	}
	return "/" + strings.Join(segments, "/"), nil
}

// Location is a resolved navigation target.
type Location struct {
	Route  Route             `json:"route"`
	Params map[string]string `json:"params,omitempty"`
	Path   string            `json:"path"`
}

// IsZero reports whether the location was never set, e.g. the origin of the
// first navigation.
func (l Location) IsZero() bool {
	return l.Route.Name == "" && l.Path == ""
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
