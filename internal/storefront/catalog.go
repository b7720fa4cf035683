package storefront

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/otamanga-storefront/internal/domain/cart"
	"github.com/xenking/otamanga-storefront/internal/domain/product"
)

// Catalog is the product listing with its category filter. Products are
// filtered by category id.
type Catalog struct {
	mangas     MangaAPI
	categories CategoryAPI
	lg         *zap.Logger

	mu       sync.Mutex
	status   Status
	products []product.Product
	cats     []product.Category
}

// NewCatalog creates an idle Catalog.
func NewCatalog(mangas MangaAPI, categories CategoryAPI, lg *zap.Logger) *Catalog {
	return &Catalog{
		mangas:     mangas,
		categories: categories,
		lg:         lg,
	}
}

// Load fetches products and categories concurrently. If either fetch fails
// the catalog keeps no partial data: it is left empty with StatusFailed and
// the error is returned.
func (c *Catalog) Load(ctx context.Context) error {
	c.setStatus(StatusLoading)

	var (
		products []product.Product
		cats     []product.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if products, err = c.mangas.List(gctx); err != nil {
			return errors.Wrap(err, "list mangas")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if cats, err = c.categories.List(gctx); err != nil {
			return errors.Wrap(err, "list categories")
		}
		return nil
	})

	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lg.Error("Failed to load catalog", zap.Error(err))
		c.status = StatusFailed
		c.products = []product.Product{}
		c.cats = []product.Category{}
		return err
	}
	c.status = StatusLoaded
	c.products = products
	c.cats = cats
	return nil
}

// Status returns the loading state.
func (c *Catalog) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Products returns the loaded products of categoryID, or every product when
// categoryID is empty.
func (c *Catalog) Products(categoryID string) []product.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(product.FilterByCategory(c.products, categoryID))
}

// Categories returns the loaded categories.
func (c *Catalog) Categories() []product.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.cats)
}

// Find returns a loaded product by id.
func (c *Catalog) Find(id string) (product.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.products, func(p product.Product) bool { return p.ID == id })
	if i < 0 {
		return product.Product{}, false
	}
	return c.products[i], true
}

// AddToCart adds the loaded product id to crt.
func (c *Catalog) AddToCart(crt *cart.Cart, id string) error {
	p, ok := c.Find(id)
	if !ok {
		return product.ErrNotFound
	}
	crt.AddItem(p)
	return nil
}

func (c *Catalog) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}
