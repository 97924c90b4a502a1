package app

import (
	"context"

	"github.com/baabuu/storefront/internal/adapter/gateway"
	"github.com/baabuu/storefront/internal/domain/model"
	"github.com/baabuu/storefront/internal/usecase"
)

// StorefrontFacade exposes the use cases as a single dependency for the
// HTTP layer and the delivery sweeper.
type StorefrontFacade struct {
	cart     *usecase.CartUseCase
	checkout *usecase.CheckoutUseCase
	orders   *usecase.OrderUseCase
	payments *usecase.PaymentUseCase
}

func NewStorefrontFacade(cart *usecase.CartUseCase, checkout *usecase.CheckoutUseCase, orders *usecase.OrderUseCase, payments *usecase.PaymentUseCase) *StorefrontFacade {
	return &StorefrontFacade{cart: cart, checkout: checkout, orders: orders, payments: payments}
}

func (f *StorefrontFacade) AddCartItem(ctx context.Context, userID int64, variant model.VariantKey, qty int64) (*model.CartItem, error) {
	return f.cart.Add(ctx, userID, variant, qty)
}

func (f *StorefrontFacade) UpdateCartItem(ctx context.Context, userID, itemID, qty int64, size, color string) error {
	return f.cart.Update(ctx, userID, itemID, qty, size, color)
}

func (f *StorefrontFacade) RemoveCartItem(ctx context.Context, userID, itemID int64) error {
	return f.cart.Remove(ctx, userID, itemID)
}

func (f *StorefrontFacade) Cart(ctx context.Context, userID int64, currency string) (*model.CartSummary, error) {
	return f.cart.DisplaySummary(ctx, userID, currency)
}

func (f *StorefrontFacade) PlaceOrder(ctx context.Context, userID int64, method model.PaymentMethod) (*model.Order, error) {
	return f.checkout.PlaceOrder(ctx, userID, method)
}

func (f *StorefrontFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *StorefrontFacade) Order(ctx context.Context, userID int64, externalID string) (*model.Order, []model.OrderLine, error) {
	order, err := f.orders.Get(ctx, userID, externalID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := f.orders.Lines(ctx, userID, externalID)
	if err != nil {
		return nil, nil, err
	}
	return order, lines, nil
}

func (f *StorefrontFacade) CancelOrder(ctx context.Context, userID int64, externalID string) error {
	return f.orders.Cancel(ctx, userID, externalID)
}

func (f *StorefrontFacade) ReturnOrder(ctx context.Context, userID int64, externalID string) error {
	return f.orders.Return(ctx, userID, externalID)
}

func (f *StorefrontFacade) InitiatePayment(ctx context.Context, userID int64, orderExternalID string, method model.PaymentMethod) (*gateway.Session, error) {
	return f.payments.Initiate(ctx, userID, orderExternalID, method)
}

func (f *StorefrontFacade) ProcessCallback(ctx context.Context, method model.PaymentMethod, cb gateway.Callback) (*model.Order, error) {
	return f.payments.HandleCallback(ctx, method, cb)
}

func (f *StorefrontFacade) SweepDeliveries(ctx context.Context) (int64, error) {
	return f.orders.SweepDeliveries(ctx)
}
