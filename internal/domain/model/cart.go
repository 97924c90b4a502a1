package model

import "time"

// CartItem is a mutable line in a user's cart. UnitPrice is a display
// snapshot taken on add; checkout reprices every line from the catalog.
type CartItem struct {
	ID        int64
	UserID    int64
	Variant   VariantKey
	Quantity  int64
	UnitPrice Money
	CreatedAt time.Time
}

// LineTotal returns quantity times the snapshot unit price.
func (c CartItem) LineTotal() Money {
	return c.UnitPrice.Mul(c.Quantity)
}

// CartSummary aggregates a user's cart. All money fields share one
// currency; a summary is never mixed-currency.
type CartSummary struct {
	Items     []CartItem
	ItemCount int64
	Subtotal  Money
	Shipping  Money
	Total     Money
	// Currency is the currency the summary is denominated in. It differs
	// from the requested display currency only when conversion degraded
	// to the base currency.
	Currency string
}
