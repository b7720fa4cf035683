package handler

import (
	"github.com/go-faster/jx"

	"github.com/xenking/otamanga-storefront/internal/domain/cart"
	"github.com/xenking/otamanga-storefront/internal/domain/product"
	"github.com/xenking/otamanga-storefront/internal/storefront"
)

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(p.Title) })
		e.Field("price", func(e *jx.Encoder) { e.Raw([]byte(p.Price.StringFixed(2))) })
		e.Field("priceLabel", func(e *jx.Encoder) { e.Str(storefront.FormatPrice(p.Price)) })
		e.Field("stock", func(e *jx.Encoder) { e.Int(p.Stock) })
		e.Field("imageUrl", func(e *jx.Encoder) { e.Str(cart.SafeImage(p.ImageURL)) })
		e.Field("categoryId", func(e *jx.Encoder) { e.Str(p.CategoryID) })
		e.Field("categoryName", func(e *jx.Encoder) { e.Str(p.CategoryName) })
		e.Field("authorId", func(e *jx.Encoder) { e.Str(p.AuthorID) })
		e.Field("authorName", func(e *jx.Encoder) { e.Str(p.AuthorName) })
	})
}

func encodeProducts(e *jx.Encoder, products []product.Product) {
	e.Arr(func(e *jx.Encoder) {
		for _, p := range products {
			encodeProduct(e, p)
		}
	})
}

func encodeCategories(e *jx.Encoder, categories []product.Category) {
	e.Arr(func(e *jx.Encoder) {
		for _, c := range categories {
			e.Obj(func(e *jx.Encoder) {
				e.Field("id", func(e *jx.Encoder) { e.Str(c.ID) })
				e.Field("name", func(e *jx.Encoder) { e.Str(c.Name) })
				e.Field("description", func(e *jx.Encoder) { e.Str(c.Description) })
			})
		}
	})
}

func encodeSidebar(e *jx.Encoder, s storefront.Sidebar) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("open", func(e *jx.Encoder) { e.Bool(s.Open) })
		e.Field("empty", func(e *jx.Encoder) { e.Bool(s.Empty) })
		e.Field("count", func(e *jx.Encoder) { e.Int(s.Count) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, l := range s.Lines {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Str(l.ID) })
						e.Field("title", func(e *jx.Encoder) { e.Str(l.Title) })
						e.Field("image", func(e *jx.Encoder) { e.Str(l.Image) })
						e.Field("price", func(e *jx.Encoder) { e.Str(l.Price) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(l.Quantity) })
						e.Field("subtotal", func(e *jx.Encoder) { e.Str(l.Subtotal) })
					})
				}
			})
		})
		e.Field("total", func(e *jx.Encoder) { e.Str(s.Total) })
	})
}
