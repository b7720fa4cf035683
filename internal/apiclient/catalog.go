package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-faster/jx"

	"github.com/xenking/otamanga-storefront/internal/domain/product"
)

// AuthorService groups the author endpoints.
type AuthorService struct{ c *Client }

// List returns every author.
func (s *AuthorService) List(ctx context.Context) ([]product.Author, error) {
	return fetchList(ctx, s.c, "/Authors", Options{}, decodeAuthor)
}

// Get returns a single author.
func (s *AuthorService) Get(ctx context.Context, id string) (*product.Author, error) {
	return fetchOptional(ctx, s.c, "/Authors/"+url.PathEscape(id), Options{}, decodeAuthor)
}

// Create adds an author.
func (s *AuthorService) Create(ctx context.Context, in product.AuthorInput) (*product.Author, error) {
	return fetchOptional(ctx, s.c, "/Authors", Options{
		Method: http.MethodPost,
		Body:   encodeAuthorInput(in),
	}, decodeAuthor)
}

// Update replaces an author.
func (s *AuthorService) Update(ctx context.Context, id string, in product.AuthorInput) (*product.Author, error) {
	return fetchOptional(ctx, s.c, "/Authors/"+url.PathEscape(id), Options{
		Method: http.MethodPut,
		Body:   encodeAuthorInput(in),
	}, decodeAuthor)
}

// Delete removes an author.
func (s *AuthorService) Delete(ctx context.Context, id string) error {
	_, err := s.c.Request(ctx, "/Authors/"+url.PathEscape(id), Options{Method: http.MethodDelete})
	return err
}

// CategoryService groups the category endpoints.
type CategoryService struct{ c *Client }

// List returns every category.
func (s *CategoryService) List(ctx context.Context) ([]product.Category, error) {
	return fetchList(ctx, s.c, "/Category", Options{}, decodeCategory)
}

// Get returns a single category.
func (s *CategoryService) Get(ctx context.Context, id string) (*product.Category, error) {
	return fetchOptional(ctx, s.c, "/Category/"+url.PathEscape(id), Options{}, decodeCategory)
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, in product.CategoryInput) (*product.Category, error) {
	return fetchOptional(ctx, s.c, "/Category", Options{
		Method: http.MethodPost,
		Body:   encodeCategoryInput(in),
	}, decodeCategory)
}

// Update replaces a category.
func (s *CategoryService) Update(ctx context.Context, id string, in product.CategoryInput) (*product.Category, error) {
	return fetchOptional(ctx, s.c, "/Category/"+url.PathEscape(id), Options{
		Method: http.MethodPut,
		Body:   encodeCategoryInput(in),
	}, decodeCategory)
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	_, err := s.c.Request(ctx, "/Category/"+url.PathEscape(id), Options{Method: http.MethodDelete})
	return err
}

// optionalObject decodes raw with fn, returning nil for an empty or null body.
func optionalObject[T any](raw jx.Raw, fn func(d *jx.Decoder) (T, error)) (*T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if d := jx.DecodeBytes(raw); d.Next() == jx.Null {
		return nil, d.Null()
	}
	v, err := decodeObject(raw, fn)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
