package repository

import (
	"context"

	"github.com/baabuu/storefront/internal/domain/model"
)

// CatalogRepository is the read-only boundary to catalog data maintained by
// the admin back-office. Checkout reprices from here, never from cart
// snapshots.
type CatalogRepository interface {
	// VariantPrice returns the current catalog price for a variant, or
	// ErrUnknownVariant.
	VariantPrice(ctx context.Context, variant model.VariantKey) (model.Money, error)
	// DeliveryAddress returns the user's saved address or ErrNotFound.
	DeliveryAddress(ctx context.Context, userID int64) (*model.Address, error)
}

// Factory describes access to different domain repositories.
type Factory interface {
	Stock() StockRepository
	Carts() CartRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	Catalog() CatalogRepository
}
