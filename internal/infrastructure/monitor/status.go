package monitor

import "time"

type Status struct {
	Backend       bool      `json:"backend"`
	BackendError  string    `json:"backend_error,omitempty"`
	TokenStore    bool      `json:"token_store"`
	StoreError    string    `json:"token_store_error,omitempty"`
	Authenticated bool      `json:"authenticated"`
	LastCheck     time.Time `json:"last_check"`
}
