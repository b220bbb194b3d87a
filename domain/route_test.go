package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteMatch(t *testing.T) {
	detail := Route{Name: RouteClassDetail, Path: "/classes/:id"}

	params, ok := detail.Match("/classes/42")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"id": "42"}, params)

	params, ok = detail.Match("/classes/42/")
	require.True(t, ok, "trailing slash is ignored")
	assert.Equal(t, "42", params["id"])

	_, ok = detail.Match("/classes")
	assert.False(t, ok)
	_, ok = detail.Match("/students/42")
	assert.False(t, ok)

	home := Route{Name: RouteHome, Path: "/"}
	params, ok = home.Match("/")
	assert.True(t, ok)
	assert.Nil(t, params)
	_, ok = home.Match("/admin")
	assert.False(t, ok)
}

func TestRouteBuild(t *testing.T) {
	detail := Route{Name: RouteClassDetail, Path: "/classes/:id"}

	path, err := detail.Build(map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/classes/42", path)

	path, err = detail.Build(map[string]string{"id": "a b"})
	require.NoError(t, err)
	assert.Equal(t, "/classes/a%20b", path)

	_, err = detail.Build(nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	path, err = Route{Path: "/"}.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, "/", path)
}

func TestDefaultRoutes(t *testing.T) {
	byName := map[string]Route{}
	for _, r := range DefaultRoutes() {
		byName[r.Name] = r
	}
	require.Len(t, byName, 4)
	assert.True(t, byName[RouteHome].RequiresAuth)
	assert.True(t, byName[RouteClassDetail].RequiresAuth)
	assert.True(t, byName[RouteAdmin].RequiresAuth)
	assert.False(t, byName[RouteLogin].RequiresAuth)
}

func TestLocationIsZero(t *testing.T) {
	assert.True(t, Location{}.IsZero())
	assert.False(t, Location{Path: "/"}.IsZero())
}
