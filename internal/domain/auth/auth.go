// Package auth holds the administrator authentication types exchanged with
// the backend.
package auth

import (
	"github.com/go-faster/errors"
)

// ErrNoToken is returned when a login succeeds at the HTTP level but the
// payload carries no session token.
var ErrNoToken = errors.New("no valid token received")

// Credentials are submitted to the admin login endpoint.
type Credentials struct {
	Email    string
	Password string
}

// Registration is submitted to the admin registration endpoint.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// Session is the result of a successful admin login. Payload keeps the
// backend response verbatim so it can be persisted as-is.
type Session struct {
	Token   string
	Name    string
	Email   string
	Payload []byte
}

// Status is the result of a session check.
type Status struct {
	Authenticated bool
	Name          string
	Email         string
	Role          string
}
