// Package api holds the wire types shared between the login flow and its
// clients.
package api

// LoginResponse is the body returned by POST /user/login. On success it
// carries the bearer token for subsequent requests and whether the account
// holds government-staff privileges; on failure only Error is set, with the
// same wording for a bad email and a bad password.
type LoginResponse struct {
	Success           bool   `json:"success"`
	Token             string `json:"token,omitempty"`
	Error             string `json:"error,omitempty"`
	UserID            string `json:"userId"`
	IsGovernmentAdmin bool   `json:"isGovernmentAdmin"`
}
