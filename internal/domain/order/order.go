package order

import (
	"github.com/shopspring/decimal"
)

// Order is a customer order as reported by the backend.
type Order struct {
	ID        string
	UserID    string
	Total     decimal.Decimal
	Status    string
	CreatedAt string
	Items     []Item
}

// Item is a single line of an order.
type Item struct {
	ProductID string
	Title     string
	Quantity  int
	Price     decimal.Decimal
}

// LineInput is a line of an order placement request.
type LineInput struct {
	ProductID string
	Quantity  int
}

// Input is the payload sent when placing an order.
type Input struct {
	Items []LineInput
}
