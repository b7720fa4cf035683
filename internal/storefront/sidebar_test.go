package storefront

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/otamanga-storefront/internal/domain/cart"
	"github.com/xenking/otamanga-storefront/internal/domain/product"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "S/ 0.00", FormatPrice(decimal.Zero))
	assert.Equal(t, "S/ 29.90", FormatPrice(decimal.RequireFromString("29.9")))
	assert.Equal(t, "S/ 1234.50", FormatPrice(decimal.RequireFromString("1234.5")))
}

func TestRenderSidebar_Empty(t *testing.T) {
	s := RenderSidebar(cart.New().View())
	assert.True(t, s.Empty)
	assert.False(t, s.Open)
	assert.Zero(t, s.Count)
	assert.Empty(t, s.Lines)
	assert.Equal(t, "S/ 0.00", s.Total)
}

func TestCartSidebar_FollowsCart(t *testing.T) {
	c := cart.New()
	s := NewCartSidebar(c)

	c.AddItem(product.Product{ID: "1", Title: "One Piece", Price: decimal.RequireFromString("29.90"), ImageURL: "https://img/op.jpg"})
	s.Increment("1")
	s.Toggle()

	cur := s.Current()
	assert.True(t, cur.Open)
	assert.False(t, cur.Empty)
	assert.Equal(t, 2, cur.Count)
	require.Len(t, cur.Lines, 1)
	assert.Equal(t, "S/ 29.90", cur.Lines[0].Price)
	assert.Equal(t, "S/ 59.80", cur.Lines[0].Subtotal)
	assert.Equal(t, "https://img/op.jpg", cur.Lines[0].Image)
	assert.Equal(t, "S/ 59.80", cur.Total)
	assert.Equal(t, 3, s.Renders())

	s.Decrement("1")
	s.Decrement("1")
	assert.True(t, s.Current().Empty)

	s.Remove("1")
	assert.Equal(t, 5, s.Renders(), "removing an absent line does not notify")

	s.Close()
	c.AddItem(product.Product{ID: "2"})
	assert.Equal(t, 5, s.Renders())
	assert.True(t, s.Current().Empty)
}

func TestCartSidebar_DropsStaleSnapshot(t *testing.T) {
	c := cart.New()
	s := NewCartSidebar(c)
	defer s.Close()

	c.AddItem(product.Product{ID: "1", Title: "One Piece"})
	stale := c.View()
	c.AddItem(product.Product{ID: "1", Title: "One Piece"})
	require.Equal(t, 2, s.Current().Count)

	// A slower subscriber call carrying the earlier state arrives last.
	s.render(stale)
	assert.Equal(t, 2, s.Current().Count)
	assert.Equal(t, 2, s.Renders())
}

func TestCartSidebar_ConcurrentMutations(t *testing.T) {
	c := cart.New()
	s := NewCartSidebar(c)
	defer s.Close()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.AddItem(product.Product{ID: "1", Price: decimal.NewFromInt(1)})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.Current().Count)
	assert.Equal(t, "S/ 50.00", s.Current().Total)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "loaded", StatusLoaded.String())
	assert.Equal(t, "failed", StatusFailed.String())
}
