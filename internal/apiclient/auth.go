package apiclient

import (
	"context"
	"net/http"
	"slices"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/otamanga-storefront/internal/domain/auth"
)

// AuthService groups the authentication endpoints.
type AuthService struct{ c *Client }

// Login authenticates an administrator. The returned session keeps the raw
// payload so it can be persisted verbatim.
func (s *AuthService) Login(ctx context.Context, creds auth.Credentials) (*auth.Session, error) {
	raw, err := s.c.Request(ctx, "/Auth/admin/login", Options{
		Method: http.MethodPost,
		Body:   encodeCredentials(creds),
	})
	if err != nil {
		return nil, err
	}
	sess, err := decodeObject(raw, decodeSession)
	if err != nil {
		return nil, s.c.logFailure("/Auth/admin/login", err)
	}
	sess.Payload = slices.Clone(raw)
	return &sess, nil
}

// ParseSession decodes a stored login payload.
func ParseSession(payload []byte) (*auth.Session, error) {
	if err := jx.DecodeBytes(payload).Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid session payload")
	}
	sess, err := decodeObject(jx.Raw(payload), decodeSession)
	if err != nil {
		return nil, err
	}
	sess.Payload = slices.Clone(payload)
	return &sess, nil
}

// Register creates an administrator account.
func (s *AuthService) Register(ctx context.Context, r auth.Registration) error {
	_, err := s.c.Request(ctx, "/Auth/admin/register", Options{
		Method: http.MethodPost,
		Body:   encodeRegistration(r),
	})
	return err
}

// Logout ends the current session.
func (s *AuthService) Logout(ctx context.Context) error {
	_, err := s.c.Request(ctx, "/Auth/logout", Options{Method: http.MethodPost})
	return err
}

// CheckAuth reports the state of the current session.
func (s *AuthService) CheckAuth(ctx context.Context) (*auth.Status, error) {
	st, err := fetchObject(ctx, s.c, "/Auth/check-auth", Options{}, decodeStatus)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
