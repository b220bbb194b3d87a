package apiclient

import "sync/atomic"

// DefaultScheme is the Authorization scheme of the dashboard backend.
const DefaultScheme = "Token"

// Authorizer holds the Authorization header value applied to outbound
// requests. The session controller is its only writer; the client reads it
// when each request is dispatched.
type Authorizer struct {
	scheme string
	header atomic.Pointer[string]
}

// NewAuthorizer creates an authorizer for the given scheme.
func NewAuthorizer(scheme string) *Authorizer {
	if scheme == "" {
		scheme = DefaultScheme
	}
	return &Authorizer{scheme: scheme}
}

// Set configures every subsequent request to carry "<scheme> <token>".
func (a *Authorizer) Set(token string) {
	if token == "" {
		a.Clear()
		return
	}
	value := a.scheme + " " + token
	a.header.Store(&value)
}

// Clear removes the Authorization header from subsequent requests.
func (a *Authorizer) Clear() {
	a.header.Store(nil)
}

// Header returns the current Authorization value.
func (a *Authorizer) Header() (string, bool) {
	if a == nil {
		return "", false
	}
	value := a.header.Load()
	if value == nil {
		return "", false
	}
	return *value, true
}
