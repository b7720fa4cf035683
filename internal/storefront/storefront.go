// Package storefront holds the view models of the storefront: the catalog,
// the admin panel, the account forms and the cart sidebar.
//
// View models own no presentation. They call the backend through narrow
// interfaces satisfied by the apiclient resource groups, track a
// loading/loaded/failed status and return errors as values so the caller
// decides how to show them.
package storefront

import (
	"context"
	"io"

	"github.com/xenking/otamanga-storefront/internal/domain/auth"
	"github.com/xenking/otamanga-storefront/internal/domain/product"
)

// Status is the loading state of a view.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ValidationError is returned when form input is rejected before any request
// is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MangaAPI is the product catalog backend.
type MangaAPI interface {
	List(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id string) (*product.Product, error)
	Create(ctx context.Context, in product.Input) (*product.Product, error)
	Update(ctx context.Context, id string, in product.Input) (*product.Product, error)
	ExportURL() string
	Export(ctx context.Context, w io.Writer) (int64, error)
}

// AuthorAPI is the author backend.
type AuthorAPI interface {
	List(ctx context.Context) ([]product.Author, error)
	Create(ctx context.Context, in product.AuthorInput) (*product.Author, error)
	Update(ctx context.Context, id string, in product.AuthorInput) (*product.Author, error)
	Delete(ctx context.Context, id string) error
}

// CategoryAPI is the category backend.
type CategoryAPI interface {
	List(ctx context.Context) ([]product.Category, error)
	Create(ctx context.Context, in product.CategoryInput) (*product.Category, error)
	Update(ctx context.Context, id string, in product.CategoryInput) (*product.Category, error)
	Delete(ctx context.Context, id string) error
}

// AuthAPI is the authentication backend.
type AuthAPI interface {
	Login(ctx context.Context, creds auth.Credentials) (*auth.Session, error)
	Register(ctx context.Context, r auth.Registration) error
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) (*auth.Status, error)
}

// KeyValueStore persists the logged-in session.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}
