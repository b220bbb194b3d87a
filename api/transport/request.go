package transport

import "github.com/fastygo/dashboard/domain"

// LoginRequest is the JSON body of POST /api/session.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Credentials converts the request into domain credentials.
func (r LoginRequest) Credentials() domain.Credentials {
	return domain.Credentials{Identifier: r.Username, Secret: r.Password}
}
