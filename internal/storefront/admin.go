package storefront

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/otamanga-storefront/internal/domain/product"
)

// AdminPanel manages products, authors and categories.
type AdminPanel struct {
	mangas     MangaAPI
	authors    AuthorAPI
	categories CategoryAPI
	lg         *zap.Logger

	mu        sync.Mutex
	status    Status
	products  []product.Product
	authorsV  []product.Author
	categoryV []product.Category
}

// NewAdminPanel creates an idle AdminPanel.
func NewAdminPanel(mangas MangaAPI, authors AuthorAPI, categories CategoryAPI, lg *zap.Logger) *AdminPanel {
	return &AdminPanel{
		mangas:     mangas,
		authors:    authors,
		categories: categories,
		lg:         lg,
	}
}

// Load fetches products, authors and categories as one joined operation.
// Nothing is committed unless all three succeed; on failure the previously
// loaded data is kept and the status becomes StatusFailed.
func (a *AdminPanel) Load(ctx context.Context) error {
	a.mu.Lock()
	a.status = StatusLoading
	a.mu.Unlock()

	var (
		products   []product.Product
		authors    []product.Author
		categories []product.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if products, err = a.mangas.List(gctx); err != nil {
			return errors.Wrap(err, "list mangas")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if authors, err = a.authors.List(gctx); err != nil {
			return errors.Wrap(err, "list authors")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if categories, err = a.categories.List(gctx); err != nil {
			return errors.Wrap(err, "list categories")
		}
		return nil
	})
	err := g.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		a.lg.Error("Failed to load admin data", zap.Error(err))
		a.status = StatusFailed
		return err
	}
	a.status = StatusLoaded
	a.products = products
	a.authorsV = authors
	a.categoryV = categories
	return nil
}

// Status returns the loading state.
func (a *AdminPanel) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Products returns the loaded products.
func (a *AdminPanel) Products() []product.Product {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.products)
}

// Authors returns the loaded authors.
func (a *AdminPanel) Authors() []product.Author {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.authorsV)
}

// Categories returns the loaded categories.
func (a *AdminPanel) Categories() []product.Category {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.categoryV)
}

// ExportURL is the URL of the catalog Excel export.
func (a *AdminPanel) ExportURL() string {
	return a.mangas.ExportURL()
}

// ProductForm is the raw product form as typed by an administrator.
type ProductForm struct {
	Title      string
	Price      string
	Stock      string
	AuthorID   string
	CategoryID string
	ImageURL   string
}

// Input validates the form and coerces it into a product.Input.
func (f ProductForm) Input() (product.Input, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return product.Input{}, &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(f.AuthorID) == "" || strings.TrimSpace(f.CategoryID) == "" {
		return product.Input{}, &ValidationError{Field: "author", Message: "select a valid author and category"}
	}
	authorID, err := strconv.Atoi(strings.TrimSpace(f.AuthorID))
	if err != nil || authorID <= 0 {
		return product.Input{}, &ValidationError{Field: "author", Message: "select a valid author and category"}
	}
	categoryID, err := strconv.Atoi(strings.TrimSpace(f.CategoryID))
	if err != nil || categoryID <= 0 {
		return product.Input{}, &ValidationError{Field: "category", Message: "select a valid author and category"}
	}
	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	if err != nil || price.IsNegative() {
		return product.Input{}, &ValidationError{Field: "price", Message: "price must be a non-negative number"}
	}
	stock, err := strconv.Atoi(strings.TrimSpace(f.Stock))
	if err != nil || stock < 0 {
		return product.Input{}, &ValidationError{Field: "stock", Message: "stock must be a non-negative integer"}
	}
	return product.Input{
		Title:      title,
		Price:      price,
		Stock:      stock,
		AuthorID:   authorID,
		CategoryID: categoryID,
		ImageURL:   strings.TrimSpace(f.ImageURL),
	}, nil
}

// AddProduct validates f, creates the product and reloads the panel.
func (a *AdminPanel) AddProduct(ctx context.Context, f ProductForm) (*product.Product, error) {
	in, err := f.Input()
	if err != nil {
		return nil, err
	}
	p, err := a.mangas.Create(ctx, in)
	if err != nil {
		return nil, errors.Wrap(err, "create manga")
	}
	a.reload(ctx)
	return p, nil
}

// UpdateProduct validates f and replaces product id.
func (a *AdminPanel) UpdateProduct(ctx context.Context, id string, f ProductForm) (*product.Product, error) {
	in, err := f.Input()
	if err != nil {
		return nil, err
	}
	p, err := a.mangas.Update(ctx, id, in)
	if err != nil {
		return nil, errors.Wrap(err, "update manga")
	}
	a.reload(ctx)
	return p, nil
}

func validateAuthor(in product.AuthorInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "author name is required"}
	}
	return nil
}

func validateCategory(in product.CategoryInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "category name is required"}
	}
	return nil
}

func (a *AdminPanel) CreateAuthor(ctx context.Context, in product.AuthorInput) (*product.Author, error) {
	if err := validateAuthor(in); err != nil {
		return nil, err
	}
	au, err := a.authors.Create(ctx, in)
	if err != nil {
		return nil, errors.Wrap(err, "create author")
	}
	a.reload(ctx)
	return au, nil
}

func (a *AdminPanel) UpdateAuthor(ctx context.Context, id string, in product.AuthorInput) (*product.Author, error) {
	if err := validateAuthor(in); err != nil {
		return nil, err
	}
	au, err := a.authors.Update(ctx, id, in)
	if err != nil {
		return nil, errors.Wrap(err, "update author")
	}
	a.reload(ctx)
	return au, nil
}

func (a *AdminPanel) DeleteAuthor(ctx context.Context, id string) error {
	if err := a.authors.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete author")
	}
	a.reload(ctx)
	return nil
}

func (a *AdminPanel) CreateCategory(ctx context.Context, in product.CategoryInput) (*product.Category, error) {
	if err := validateCategory(in); err != nil {
		return nil, err
	}
	c, err := a.categories.Create(ctx, in)
	if err != nil {
		return nil, errors.Wrap(err, "create category")
	}
	a.reload(ctx)
	return c, nil
}

func (a *AdminPanel) UpdateCategory(ctx context.Context, id string, in product.CategoryInput) (*product.Category, error) {
	if err := validateCategory(in); err != nil {
		return nil, err
	}
	c, err := a.categories.Update(ctx, id, in)
	if err != nil {
		return nil, errors.Wrap(err, "update category")
	}
	a.reload(ctx)
	return c, nil
}

func (a *AdminPanel) DeleteCategory(ctx context.Context, id string) error {
	if err := a.categories.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete category")
	}
	a.reload(ctx)
	return nil
}

// reload refreshes the panel after a successful mutation. A failed reload
// does not fail the mutation; Load already logged it.
func (a *AdminPanel) reload(ctx context.Context) {
	_ = a.Load(ctx)
}
