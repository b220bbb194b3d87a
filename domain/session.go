package domain

// Session is the client's authentication state: a single opaque bearer token.
// An empty token means the user is not authenticated.
type Session struct {
	Token string `json:"token,omitempty"`
}

// IsAuthenticated reports whether the session carries a token.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// Credentials are submitted to the authentication endpoint.
type Credentials struct {
	Identifier string `json:"username"`
	Secret     string `json:"password"`
}

// Validate rejects credentials that cannot possibly authenticate.
func (c Credentials) Validate() error {
	if c.Identifier == "" || c.Secret == "" {
		return WrapError(ErrCodeInvalid, "invalid payload", ErrInvalidCredentials)
	}
	return nil
}
