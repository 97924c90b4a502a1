package handlers

import (
	"context"

	"github.com/baabuu/storefront/internal/adapter/gateway"
	"github.com/baabuu/storefront/internal/domain/model"
)

// CartFacade describes cart capabilities required by handlers.
type CartFacade interface {
	AddCartItem(ctx context.Context, userID int64, variant model.VariantKey, qty int64) (*model.CartItem, error)
	UpdateCartItem(ctx context.Context, userID, itemID, qty int64, size, color string) error
	RemoveCartItem(ctx context.Context, userID, itemID int64) error
	Cart(ctx context.Context, userID int64, currency string) (*model.CartSummary, error)
}

// CheckoutFacade turns the cart into an order.
type CheckoutFacade interface {
	PlaceOrder(ctx context.Context, userID int64, method model.PaymentMethod) (*model.Order, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	Order(ctx context.Context, userID int64, externalID string) (*model.Order, []model.OrderLine, error)
	CancelOrder(ctx context.Context, userID int64, externalID string) error
	ReturnOrder(ctx context.Context, userID int64, externalID string) error
}

// PaymentFacade exposes payment initiation and callback reconciliation.
type PaymentFacade interface {
	InitiatePayment(ctx context.Context, userID int64, orderExternalID string, method model.PaymentMethod) (*gateway.Session, error)
	ProcessCallback(ctx context.Context, method model.PaymentMethod, cb gateway.Callback) (*model.Order, error)
}

// StorefrontFacade aggregates the full set of operations used across handlers.
type StorefrontFacade interface {
	CartFacade
	CheckoutFacade
	OrderFacade
	PaymentFacade
}
