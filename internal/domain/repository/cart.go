package repository

import (
	"context"

	"github.com/baabuu/storefront/internal/domain/model"
)

// CartRepository persists mutable cart lines, owned exclusively by one user.
type CartRepository interface {
	// Add inserts a cart line or increments quantity when the user already
	// has the same variant in the cart.
	Add(ctx context.Context, item model.CartItem) (*model.CartItem, error)
	// Update rewrites quantity, size, and color for a line the user owns.
	Update(ctx context.Context, userID, itemID int64, qty int64, size, color string) error
	// Remove deletes a single line the user owns.
	Remove(ctx context.Context, userID, itemID int64) error
	// ListByUser returns cart lines newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.CartItem, error)
}
