package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizer(t *testing.T) {
	a := NewAuthorizer("")

	_, ok := a.Header()
	assert.False(t, ok)

	a.Set("abc123")
	value, ok := a.Header()
	assert.True(t, ok)
	assert.Equal(t, "Token abc123", value)

	a.Set("")
	_, ok = a.Header()
	assert.False(t, ok, "an empty token clears the header")

	a.Set("abc123")
	a.Clear()
	_, ok = a.Header()
	assert.False(t, ok)
}

func TestAuthorizerCustomScheme(t *testing.T) {
	a := NewAuthorizer("Bearer")
	a.Set("xyz")
	value, _ := a.Header()
	assert.Equal(t, "Bearer xyz", value)
}

func TestNilAuthorizer(t *testing.T) {
	var a *Authorizer
	_, ok := a.Header()
	assert.False(t, ok)
}
