package apiclient

import (
	"strconv"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/otamanga-storefront/internal/domain/auth"
	"github.com/xenking/otamanga-storefront/internal/domain/metrics"
	"github.com/xenking/otamanga-storefront/internal/domain/order"
	"github.com/xenking/otamanga-storefront/internal/domain/product"
)

// Request bodies use the backend's camelCase keys.

func encode(f func(e *jx.Encoder)) []byte {
	var e jx.Encoder
	e.Obj(f)
	return e.Bytes()
}

func encodeDecimal(e *jx.Encoder, d decimal.Decimal) {
	e.Raw([]byte(d.String()))
}

// encodeID writes numeric ids as numbers and anything else as a string.
func encodeID(e *jx.Encoder, id string) {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		e.Int64(n)
		return
	}
	e.Str(id)
}

func encodeCredentials(c auth.Credentials) []byte {
	return encode(func(e *jx.Encoder) {
		e.Field("email", func(e *jx.Encoder) { e.Str(c.Email) })
		e.Field("password", func(e *jx.Encoder) { e.Str(c.Password) })
	})
}

func encodeRegistration(r auth.Registration) []byte {
	return encode(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(r.Name) })
		e.Field("email", func(e *jx.Encoder) { e.Str(r.Email) })
		e.Field("password", func(e *jx.Encoder) { e.Str(r.Password) })
	})
}

func encodeProductInput(in product.Input) []byte {
	return encode(func(e *jx.Encoder) {
		e.Field("title", func(e *jx.Encoder) { e.Str(in.Title) })
		e.Field("price", func(e *jx.Encoder) { encodeDecimal(e, in.Price) })
		e.Field("stock", func(e *jx.Encoder) { e.Int(in.Stock) })
		e.Field("authorId", func(e *jx.Encoder) { e.Int(in.AuthorID) })
		e.Field("categoryId", func(e *jx.Encoder) { e.Int(in.CategoryID) })
		e.Field("imageUrl", func(e *jx.Encoder) { e.Str(in.ImageURL) })
	})
}

func encodeAuthorInput(in product.AuthorInput) []byte {
	return encode(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(in.Name) })
		e.Field("nationality", func(e *jx.Encoder) { e.Str(in.Nationality) })
		e.Field("biography", func(e *jx.Encoder) { e.Str(in.Biography) })
	})
}

func encodeCategoryInput(in product.CategoryInput) []byte {
	return encode(func(e *jx.Encoder) {
		e.Field("name", func(e *jx.Encoder) { e.Str(in.Name) })
		e.Field("description", func(e *jx.Encoder) { e.Str(in.Description) })
	})
}

func encodeOrderInput(in order.Input) []byte {
	return encode(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range in.Items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("mangaId", func(e *jx.Encoder) { encodeID(e, it.ProductID) })
						e.Field("quantity", func(e *jx.Encoder) { e.Int(it.Quantity) })
					})
				}
			})
		})
	})
}

func encodeClick(c metrics.Click) []byte {
	return encode(func(e *jx.Encoder) {
		e.Field("mangaId", func(e *jx.Encoder) { encodeID(e, c.ProductID) })
	})
}
