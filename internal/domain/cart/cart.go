// Package cart implements the shopping cart state of a single browsing
// session.
//
// A Cart is an explicit handle: callers pass it to whatever needs it and
// observe changes through Subscribe. Every mutation that changes state
// notifies subscribers synchronously with a snapshot, after the cart lock is
// released. Operations that change nothing (removing an unknown id, closing a
// closed cart) do not notify.
package cart

import (
	"math"
	"net/url"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/xenking/otamanga-storefront/internal/domain/product"
)

// PlaceholderImage is used for items whose product has no usable image.
const PlaceholderImage = "https://placehold.co/70x100?text=No+Img"

// Item is a cart line.
type Item struct {
	ID       string
	Title    string
	Price    decimal.Decimal
	Image    string
	Quantity int
}

// Subtotal returns Price × Quantity.
func (i Item) Subtotal() decimal.Decimal {
	if i.Quantity <= 0 || i.Price.IsNegative() {
		return decimal.Zero
	}
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// View is an immutable snapshot of a cart.
type View struct {
	Items  []Item
	IsOpen bool
	Total  decimal.Decimal
	// Version increases with every change. Subscribers may receive
	// concurrent notifications out of order and keep the highest Version.
	Version uint64
}

// Count returns the number of units across all lines.
func (v View) Count() int {
	n := 0
	for _, it := range v.Items {
		n += it.Quantity
	}
	return n
}

// Cart holds the selected items and the visibility flag of the cart panel.
type Cart struct {
	mu     sync.Mutex
	items   []Item
	isOpen  bool
	version uint64

	subs   map[int]func(View)
	nextID int
}

// New returns an empty, closed cart.
func New() *Cart {
	return &Cart{subs: make(map[int]func(View))}
}

// Subscribe registers fn to be called after every state change. The
// returned function removes the subscription; calling it more than once is
// safe.
func (c *Cart) Subscribe(fn func(View)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// AddItem adds one unit of p. A product already in the cart has its quantity
// incremented instead of getting a second line.
func (c *Cart) AddItem(p product.Product) {
	c.mu.Lock()
	if i := c.indexLocked(p.ID); i >= 0 {
		if c.items[i].Quantity == math.MaxInt {
			c.mu.Unlock()
			return
		}
		c.items[i].Quantity++
	} else {
		c.items = append(c.items, Item{
			ID:       p.ID,
			Title:    p.Title,
			Price:    product.ClampPrice(p.Price),
			Image:    SafeImage(p.ImageURL),
			Quantity: 1,
		})
	}
	c.commitLocked()
}

// RemoveItem deletes the line with the given id. Unknown ids are ignored.
func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.mu.Unlock()
		return
	}
	c.items = slices.Delete(c.items, i, i+1)
	c.commitLocked()
}

// UpdateQuantity adds delta to the quantity of the line with the given id.
// A line whose quantity drops to zero or below is removed; an increase
// saturates at math.MaxInt. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, delta int) {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 || delta == 0 {
		c.mu.Unlock()
		return
	}
	q := c.items[i].Quantity
	switch {
	case delta > 0 && q > math.MaxInt-delta:
		if q == math.MaxInt {
			c.mu.Unlock()
			return
		}
		c.items[i].Quantity = math.MaxInt
	case q+delta > 0:
		c.items[i].Quantity = q + delta
	default:
		c.items = slices.Delete(c.items, i, i+1)
	}
	c.commitLocked()
}

// Open shows the cart panel.
func (c *Cart) Open() { c.setOpen(true) }

// Close hides the cart panel.
func (c *Cart) Close() { c.setOpen(false) }

func (c *Cart) setOpen(open bool) {
	c.mu.Lock()
	if c.isOpen == open {
		c.mu.Unlock()
		return
	}
	c.isOpen = open
	c.commitLocked()
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.mu.Lock()
	if len(c.items) == 0 {
		c.mu.Unlock()
		return
	}
	c.items = nil
	c.commitLocked()
}

// Total returns the sum of price × quantity over all lines. It is computed
// on every call.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalOf(c.items)
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// IsOpen reports whether the cart panel is visible.
func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

// View returns a snapshot of the cart.
func (c *Cart) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Cart) viewLocked() View {
	return View{
		Items:   slices.Clone(c.items),
		IsOpen:  c.isOpen,
		Total:   totalOf(c.items),
		Version: c.version,
	}
}

// commitLocked bumps the version, releases the lock and notifies subscribers
// with the new state.
func (c *Cart) commitLocked() {
	c.version++
	v := c.viewLocked()
	subs := make([]func(View), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

func (c *Cart) indexLocked(id string) int {
	return slices.IndexFunc(c.items, func(it Item) bool { return it.ID == id })
}

func totalOf(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// SafeImage returns raw when it is an absolute http(s) URL or a rooted path,
// and PlaceholderImage otherwise.
func SafeImage(raw string) string {
	if raw == "" {
		return PlaceholderImage
	}
	u, err := url.Parse(raw)
	if err != nil {
		return PlaceholderImage
	}
	switch {
	case u.Scheme == "http" || u.Scheme == "https":
		if u.Host == "" {
			return PlaceholderImage
		}
		return raw
	case u.Scheme == "" && u.Host == "" && len(u.Path) > 0 && u.Path[0] == '/':
		return raw
	default:
		return PlaceholderImage
	}
}
