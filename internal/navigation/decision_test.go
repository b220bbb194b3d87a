package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/dashboard/domain"
)

func location(name string, requiresAuth bool) domain.Location {
	return domain.Location{Route: domain.Route{Name: name, RequiresAuth: requiresAuth}}
}

func TestDecideTable(t *testing.T) {
	cases := []struct {
		name          string
		to            domain.Location
		authenticated bool
		want          Decision
	}{
		{name: "protected, anonymous", to: location(domain.RouteClassDetail, true), want: RedirectTo(domain.RouteLogin)},
		{name: "protected, authenticated", to: location(domain.RouteClassDetail, true), authenticated: true, want: Allow()},
		{name: "login, authenticated", to: location(domain.RouteLogin, false), authenticated: true, want: RedirectTo(domain.RouteHome)},
		{name: "login, anonymous", to: location(domain.RouteLogin, false), want: Allow()},
		{name: "public, anonymous", to: location("about", false), want: Allow()},
		{name: "public, authenticated", to: location("about", false), authenticated: true, want: Allow()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.to, domain.Location{}, tc.authenticated))
		})
	}
}

func TestDecideIgnoresOrigin(t *testing.T) {
	origins := []domain.Location{{}, location(domain.RouteLogin, false), location(domain.RouteHome, true)}
	for _, authenticated := range []bool{false, true} {
		for _, to := range []domain.Location{location(domain.RouteHome, true), location(domain.RouteLogin, false)} {
			want := Decide(to, domain.Location{}, authenticated)
			for _, from := range origins {
				assert.Equal(t, want, Decide(to, from, authenticated))
			}
		}
	}
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "allow", ActionAllow.String())
	assert.Equal(t, "redirect", ActionRedirect.String())
	assert.Equal(t, "unknown", Action(7).String())
}
