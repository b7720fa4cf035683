package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/otamanga-storefront/internal/domain/cart"
	"github.com/xenking/otamanga-storefront/internal/storefront"
)

// maxDelta bounds a single quantity change.
const maxDelta = 1000

func writeCart(w http.ResponseWriter, c *cart.Cart) {
	var e jx.Encoder
	encodeSidebar(&e, storefront.RenderSidebar(c.View()))
	writeJSON(w, http.StatusOK, &e)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeCart(w, h.cart(w, r))
}

// addItem adds one unit of the product {"id": ...} looked up in the backend.
func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var id string
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		if key != "id" {
			return d.Skip()
		}
		var err error
		id, err = decodeID(d)
		return err
	})
	if err == nil && id == "" {
		err = badRequest("id is required")
	}
	if err != nil {
		fail(w, r, err)
		return
	}

	p, err := h.mangas.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	c := h.cart(w, r)
	c.AddItem(*p)
	writeCart(w, c)
}

// updateQuantity applies {"delta": n} to a cart line.
func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var (
		delta int
		seen  bool
	)
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		if key != "delta" {
			return d.Skip()
		}
		seen = true
		var err error
		delta, err = decodeInt(d)
		return err
	})
	switch {
	case err != nil:
	case !seen:
		err = badRequest("delta is required")
	case delta > maxDelta || delta < -maxDelta:
		err = badRequest("delta must be between %d and %d", -maxDelta, maxDelta)
	}
	if err != nil {
		fail(w, r, err)
		return
	}

	c := h.cart(w, r)
	c.UpdateQuantity(r.PathValue("id"), delta)
	writeCart(w, c)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	c := h.cart(w, r)
	c.RemoveItem(r.PathValue("id"))
	writeCart(w, c)
}

func (h *Handler) openCart(w http.ResponseWriter, r *http.Request) {
	c := h.cart(w, r)
	c.Open()
	writeCart(w, c)
}

func (h *Handler) closeCart(w http.ResponseWriter, r *http.Request) {
	c := h.cart(w, r)
	c.Close()
	writeCart(w, c)
}
