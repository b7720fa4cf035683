package storefront

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/xenking/otamanga-storefront/internal/domain/cart"
)

// FormatPrice renders d in soles, e.g. "S/ 29.90".
func FormatPrice(d decimal.Decimal) string {
	return "S/ " + d.StringFixed(2)
}

// SidebarLine is one rendered cart line.
type SidebarLine struct {
	ID       string
	Title    string
	Image    string
	Price    string
	Quantity int
	Subtotal string
}

// Sidebar is the rendered cart sidebar.
type Sidebar struct {
	Open  bool
	Empty bool
	Count int
	Lines []SidebarLine
	Total string
}

// RenderSidebar renders a cart snapshot.
func RenderSidebar(v cart.View) Sidebar {
	s := Sidebar{
		Open:  v.IsOpen,
		Empty: len(v.Items) == 0,
		Count: v.Count(),
		Lines: make([]SidebarLine, 0, len(v.Items)),
		Total: FormatPrice(v.Total),
	}
	for _, it := range v.Items {
		s.Lines = append(s.Lines, SidebarLine{
			ID:       it.ID,
			Title:    it.Title,
			Image:    cart.SafeImage(it.Image),
			Price:    FormatPrice(it.Price),
			Quantity: it.Quantity,
			Subtotal: FormatPrice(it.Subtotal()),
		})
	}
	return s
}

// CartSidebar keeps a rendered sidebar in sync with a cart.
type CartSidebar struct {
	cart        *cart.Cart
	unsubscribe func()

	mu      sync.Mutex
	current Sidebar
	version uint64
	renders int
}

// NewCartSidebar renders c and subscribes to its changes. Call Close to
// unsubscribe.
func NewCartSidebar(c *cart.Cart) *CartSidebar {
	v := c.View()
	s := &CartSidebar{cart: c, current: RenderSidebar(v), version: v.Version}
	s.unsubscribe = c.Subscribe(s.render)
	return s
}

// render keeps the newest snapshot; one older than the current rendering is
// dropped.
func (s *CartSidebar) render(v cart.View) {
	r := RenderSidebar(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.Version <= s.version {
		return
	}
	s.current = r
	s.version = v.Version
	s.renders++
}

// Current returns the latest rendering.
func (s *CartSidebar) Current() Sidebar {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Renders returns how many change notifications were rendered.
func (s *CartSidebar) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

// Increment raises the quantity of line id by one.
func (s *CartSidebar) Increment(id string) { s.cart.UpdateQuantity(id, 1) }

// Decrement lowers the quantity of line id by one, removing it at zero.
func (s *CartSidebar) Decrement(id string) { s.cart.UpdateQuantity(id, -1) }

// Remove drops line id.
func (s *CartSidebar) Remove(id string) { s.cart.RemoveItem(id) }

// Toggle opens the sidebar when closed and closes it otherwise.
func (s *CartSidebar) Toggle() {
	if s.cart.IsOpen() {
		s.cart.Close()
	} else {
		s.cart.Open()
	}
}

// Close stops following the cart.
func (s *CartSidebar) Close() {
	s.unsubscribe()
}
