package product

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is the canonical form of a catalog entry. Backend payloads are
// mapped into this shape once, at the API client boundary.
type Product struct {
	ID           string
	Title        string
	Price        decimal.Decimal
	Stock        int
	ImageURL     string
	CategoryID   string
	CategoryName string
	AuthorID     string
	AuthorName   string
}

// Author is a manga author.
type Author struct {
	ID          string
	Name        string
	Nationality string
	Biography   string
}

// Category groups products in the catalog.
type Category struct {
	ID          string
	Name        string
	Description string
}

// Input is the payload sent when creating or updating a product.
type Input struct {
	Title      string
	Price      decimal.Decimal
	Stock      int
	AuthorID   int
	CategoryID int
	ImageURL   string
}

// AuthorInput is the payload sent when creating or updating an author.
type AuthorInput struct {
	Name        string
	Nationality string
	Biography   string
}

// CategoryInput is the payload sent when creating or updating a category.
type CategoryInput struct {
	Name        string
	Description string
}

// CoercePrice parses a price from its textual form. Missing, non-numeric and
// negative values yield zero.
func CoercePrice(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return ClampPrice(d)
}

// ClampPrice returns d, or zero when d is negative.
func ClampPrice(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FilterByCategory returns the products whose CategoryID equals categoryID.
// An empty categoryID matches every product.
func FilterByCategory(products []Product, categoryID string) []Product {
	if categoryID == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}
