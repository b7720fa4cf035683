package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/xenking/otamanga-storefront/internal/domain/product"
)

// MangaService groups the product catalog endpoints.
type MangaService struct{ c *Client }

// List returns every product.
func (s *MangaService) List(ctx context.Context) ([]product.Product, error) {
	return fetchList(ctx, s.c, "/Mangas", Options{}, decodeProduct)
}

// Get returns a single product. A 204 or null body yields product.ErrNotFound.
func (s *MangaService) Get(ctx context.Context, id string) (*product.Product, error) {
	p, err := fetchObject(ctx, s.c, "/Mangas/"+url.PathEscape(id), Options{}, decodeProduct)
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

// ListByCategory returns the products of a category.
func (s *MangaService) ListByCategory(ctx context.Context, categoryID string) ([]product.Product, error) {
	return fetchList(ctx, s.c, "/Mangas/category/"+url.PathEscape(categoryID), Options{}, decodeProduct)
}

// Create adds a product and returns it as stored by the backend. The result
// is nil when the backend answers without a body.
func (s *MangaService) Create(ctx context.Context, in product.Input) (*product.Product, error) {
	return fetchOptional(ctx, s.c, "/Mangas", Options{
		Method: http.MethodPost,
		Body:   encodeProductInput(in),
	}, decodeProduct)
}

// Update replaces a product.
func (s *MangaService) Update(ctx context.Context, id string, in product.Input) (*product.Product, error) {
	return fetchOptional(ctx, s.c, "/Mangas/"+url.PathEscape(id), Options{
		Method: http.MethodPut,
		Body:   encodeProductInput(in),
	}, decodeProduct)
}

// ExportURL returns the address of the spreadsheet export. It is meant to be
// opened by a browser, not parsed.
func (s *MangaService) ExportURL() string {
	return s.c.baseURL + "/Mangas/export"
}

// Export downloads the spreadsheet export into w and returns the number of
// bytes written.
func (s *MangaService) Export(ctx context.Context, w io.Writer) (int64, error) {
	return s.c.stream(ctx, "/Mangas/export", w)
}
