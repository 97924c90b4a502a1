package model

import "fmt"

// VariantKey identifies a purchasable (product, size, color) combination.
// Stock is tracked per variant, not per product.
type VariantKey struct {
	ProductID int64
	Size      string
	Color     string
}

func (v VariantKey) String() string {
	return fmt.Sprintf("%d/%s/%s", v.ProductID, v.Size, v.Color)
}

// StockItem holds quantity on hand for a single variant.
// Quantity never goes negative; reservations are conditional decrements.
type StockItem struct {
	Variant  VariantKey
	Quantity int64
}
