package repository

import (
	"context"

	"github.com/baabuu/storefront/internal/domain/model"
)

// StockRepository is the authoritative per-variant quantity-on-hand store.
type StockRepository interface {
	// TryReserve atomically decrements quantity on hand. Concurrent calls
	// for the same variant can never jointly drive the quantity negative.
	// Returns InsufficientStockError when stock is short and
	// ErrUnknownVariant when the variant does not exist.
	TryReserve(ctx context.Context, variant model.VariantKey, qty int64) error
	// Release unconditionally increments quantity on hand. Returns never
	// fail on exceeding the original stock level.
	Release(ctx context.Context, variant model.VariantKey, qty int64) error
	// Quantity reports current quantity on hand for a variant.
	Quantity(ctx context.Context, variant model.VariantKey) (int64, error)
}
