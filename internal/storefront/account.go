package storefront

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/otamanga-storefront/internal/domain/auth"
	"github.com/xenking/otamanga-storefront/internal/session"
)

// Account drives the login, registration and logout forms.
type Account struct {
	auth  AuthAPI
	store KeyValueStore
	lg    *zap.Logger
}

// NewAccount creates an Account that keeps the logged-in user in store.
func NewAccount(api AuthAPI, store KeyValueStore, lg *zap.Logger) *Account {
	return &Account{auth: api, store: store, lg: lg}
}

// Login authenticates the user and stores the session returned by the
// backend under session.UserKey. A response without a token is rejected with
// auth.ErrNoToken and nothing is stored.
func (a *Account) Login(ctx context.Context, creds auth.Credentials) (*auth.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" {
		return nil, &ValidationError{Field: "email", Message: "email is required"}
	}
	if creds.Password == "" {
		return nil, &ValidationError{Field: "password", Message: "password is required"}
	}

	s, err := a.auth.Login(ctx, creds)
	if err != nil {
		return nil, errors.Wrap(err, "login")
	}
	if s.Token == "" {
		return nil, auth.ErrNoToken
	}
	if err := a.store.Put(session.UserKey, s.Payload); err != nil {
		return nil, errors.Wrap(err, "store session")
	}
	a.lg.Info("Logged in", zap.String("email", creds.Email))
	return s, nil
}

// RegisterForm is the registration form. ConfirmPassword is checked locally
// and never sent.
type RegisterForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register creates a new account.
func (a *Account) Register(ctx context.Context, f RegisterForm) error {
	r := auth.Registration{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}
	switch {
	case r.Name == "":
		return &ValidationError{Field: "name", Message: "name is required"}
	case r.Email == "":
		return &ValidationError{Field: "email", Message: "email is required"}
	case r.Password == "":
		return &ValidationError{Field: "password", Message: "password is required"}
	case f.Password != f.ConfirmPassword:
		return &ValidationError{Field: "confirmPassword", Message: "passwords do not match"}
	}
	if err := a.auth.Register(ctx, r); err != nil {
		return errors.Wrap(err, "register")
	}
	return nil
}

// Logout ends the session. The stored user is removed even when the backend
// call fails.
func (a *Account) Logout(ctx context.Context) error {
	apiErr := a.auth.Logout(ctx)
	if err := a.store.Delete(session.UserKey); err != nil && !errors.Is(err, session.ErrNotFound) {
		return errors.Wrap(err, "delete session")
	}
	if apiErr != nil {
		return errors.Wrap(apiErr, "logout")
	}
	return nil
}

// Current returns the stored session payload.
func (a *Account) Current() ([]byte, error) {
	return a.store.Get(session.UserKey)
}

// Check asks the backend whether the session is still valid.
func (a *Account) Check(ctx context.Context) (*auth.Status, error) {
	st, err := a.auth.CheckAuth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "check auth")
	}
	return st, nil
}
