// Package handler serves the storefront JSON API: the catalog proxied from
// the backend and one shopping cart per browsing session.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xenking/otamanga-storefront/internal/apiclient"
	"github.com/xenking/otamanga-storefront/internal/domain/cart"
	"github.com/xenking/otamanga-storefront/internal/domain/metrics"
	"github.com/xenking/otamanga-storefront/internal/domain/product"
	"github.com/xenking/otamanga-storefront/internal/storefront"
	"github.com/xenking/otamanga-storefront/pkg/httpmiddleware"
)

// CookieName holds the browsing session id.
const CookieName = "otamanga_cart"

// ClickRecorder registers product views.
type ClickRecorder interface {
	RegisterClick(ctx context.Context, click metrics.Click) error
}

// RecommendationLister lists recommended products.
type RecommendationLister interface {
	List(ctx context.Context) ([]product.Product, error)
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// SecureCookie marks the session cookie Secure.
	SecureCookie bool
	// CookieTTL is the session cookie lifetime. Zero means a browser
	// session cookie.
	CookieTTL time.Duration
}

// Handler implements the storefront endpoints.
type Handler struct {
	cfg             Config
	mangas          storefront.MangaAPI
	categories      storefront.CategoryAPI
	clicks          ClickRecorder
	recommendations RecommendationLister
	sessions        *cart.Sessions
}

// New creates a Handler.
func New(
	cfg Config,
	mangas storefront.MangaAPI,
	categories storefront.CategoryAPI,
	clicks ClickRecorder,
	recommendations RecommendationLister,
	sessions *cart.Sessions,
) *Handler {
	return &Handler{
		cfg:             cfg,
		mangas:          mangas,
		categories:      categories,
		clicks:          clicks,
		recommendations: recommendations,
		sessions:        sessions,
	}
}

// Register adds the storefront routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	routes := []struct {
		pattern string
		fn      http.HandlerFunc
	}{
		{"GET /api/catalog", h.listCatalog},
		{"GET /api/catalog/{id}", h.getProduct},
		{"GET /api/recommendations", h.listRecommendations},
		{"GET /api/cart", h.getCart},
		{"POST /api/cart/items", h.addItem},
		{"POST /api/cart/items/{id}/quantity", h.updateQuantity},
		{"DELETE /api/cart/items/{id}", h.removeItem},
		{"POST /api/cart/open", h.openCart},
		{"POST /api/cart/close", h.closeCart},
	}
	for _, rt := range routes {
		mux.Handle(rt.pattern, httpmiddleware.Route(rt.pattern, rt.fn))
	}
}

// cart returns the cart of the request's browsing session, issuing a new
// session cookie when the request has none or an invalid one.
func (h *Handler) cart(w http.ResponseWriter, r *http.Request) *cart.Cart {
	if ck, err := r.Cookie(CookieName); err == nil {
		if id, err := uuid.Parse(ck.Value); err == nil {
			return h.sessions.Get(id.String())
		}
	}

	id := uuid.NewString()
	ck := &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cfg.CookieTTL > 0 {
		ck.MaxAge = int(h.cfg.CookieTTL / time.Second)
	}
	http.SetCookie(w, ck)
	return h.sessions.Get(id)
}

func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, code int, msg string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
	})
	writeJSON(w, code, &e)
}

// fail maps err to an error response.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		apiErr *apiclient.APIError
		badReq *requestError
	)
	switch {
	case errors.Is(err, product.ErrNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case errors.As(err, &badReq):
		writeError(w, http.StatusBadRequest, badReq.Error())
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		writeError(w, http.StatusNotFound, apiErr.Message)
	case errors.As(err, &apiErr):
		writeError(w, http.StatusBadGateway, apiErr.Message)
	case errors.Is(err, context.Canceled):
		// Client went away.
	default:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "backend unavailable")
	}
}
