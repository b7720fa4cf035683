package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/otamanga-storefront/internal/domain/metrics"
	"github.com/xenking/otamanga-storefront/internal/storefront"
)

// listCatalog serves the catalog, optionally filtered by ?category=<id>.
func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	c := storefront.NewCatalog(h.mangas, h.categories, zctx.From(r.Context()))
	if err := c.Load(r.Context()); err != nil {
		fail(w, r, err)
		return
	}

	category := r.URL.Query().Get("category")
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("category", func(e *jx.Encoder) { e.Str(category) })
		e.Field("categories", func(e *jx.Encoder) { encodeCategories(e, c.Categories()) })
		e.Field("products", func(e *jx.Encoder) { encodeProducts(e, c.Products(category)) })
	})
	writeJSON(w, http.StatusOK, &e)
}

// getProduct serves one product and records the view. A failed click
// registration is logged and does not affect the response.
func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := h.mangas.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.clicks.RegisterClick(r.Context(), metrics.Click{ProductID: p.ID}); err != nil {
		zctx.From(r.Context()).Warn("Failed to register click",
			zap.String("product_id", p.ID),
			zap.Error(err),
		)
	}

	var e jx.Encoder
	encodeProduct(&e, *p)
	writeJSON(w, http.StatusOK, &e)
}

func (h *Handler) listRecommendations(w http.ResponseWriter, r *http.Request) {
	products, err := h.recommendations.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	var e jx.Encoder
	encodeProducts(&e, products)
	writeJSON(w, http.StatusOK, &e)
}
