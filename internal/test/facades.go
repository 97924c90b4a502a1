package test

import (
	"context"
	"time"

	"github.com/baabuu/storefront/internal/adapter/gateway"
	"github.com/baabuu/storefront/internal/domain/model"
)

// CartFacadeStub provides controllable behaviour for cart endpoints.
type CartFacadeStub struct {
	AddFn    func(context.Context, int64, model.VariantKey, int64) (*model.CartItem, error)
	UpdateFn func(context.Context, int64, int64, int64, string, string) error
	RemoveFn func(context.Context, int64, int64) error
	CartFn   func(context.Context, int64, string) (*model.CartSummary, error)
}

// AddCartItem delegates to the override or returns a default line.
func (s CartFacadeStub) AddCartItem(ctx context.Context, userID int64, variant model.VariantKey, qty int64) (*model.CartItem, error) {
	if s.AddFn != nil {
		return s.AddFn(ctx, userID, variant, qty)
	}
	return &model.CartItem{
		ID:        1,
		UserID:    userID,
		Variant:   variant,
		Quantity:  qty,
		UnitPrice: model.NewMoney(45000, model.CurrencyINR),
	}, nil
}

// UpdateCartItem executes the configured update handler.
func (s CartFacadeStub) UpdateCartItem(ctx context.Context, userID, itemID, qty int64, size, color string) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, userID, itemID, qty, size, color)
	}
	return nil
}

// RemoveCartItem executes the configured removal handler.
func (s CartFacadeStub) RemoveCartItem(ctx context.Context, userID, itemID int64) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, userID, itemID)
	}
	return nil
}

// Cart returns the configured summary or a small default cart.
func (s CartFacadeStub) Cart(ctx context.Context, userID int64, currency string) (*model.CartSummary, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, userID, currency)
	}
	return &model.CartSummary{
		Items: []model.CartItem{{
			ID:        1,
			UserID:    userID,
			Variant:   model.VariantKey{ProductID: 7, Size: "M", Color: "black"},
			Quantity:  2,
			UnitPrice: model.NewMoney(45000, model.CurrencyINR),
		}},
		ItemCount: 2,
		Subtotal:  model.NewMoney(90000, model.CurrencyINR),
		Shipping:  model.NewMoney(5000, model.CurrencyINR),
		Total:     model.NewMoney(95000, model.CurrencyINR),
		Currency:  model.CurrencyINR,
	}, nil
}

// CheckoutFacadeStub simulates order placement.
type CheckoutFacadeStub struct {
	PlaceFn func(context.Context, int64, model.PaymentMethod) (*model.Order, error)
}

// PlaceOrder returns the configured result or a fresh pending order.
func (s CheckoutFacadeStub) PlaceOrder(ctx context.Context, userID int64, method model.PaymentMethod) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, userID, method)
	}
	return &model.Order{
		ID:               1,
		ExternalID:       "ORD-1",
		UserID:           userID,
		Status:           model.OrderStatusPending,
		TotalAmount:      model.NewMoney(95000, model.CurrencyINR),
		ShippingCharge:   model.NewMoney(5000, model.CurrencyINR),
		ItemCount:        2,
		PaymentMethod:    method,
		OrderDate:        time.Unix(0, 0).UTC(),
		DeliveryEstimate: time.Unix(0, 0).UTC().AddDate(0, 0, 7),
	}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	OrdersFn func(context.Context, int64) ([]model.Order, error)
	OrderFn  func(context.Context, int64, string) (*model.Order, []model.OrderLine, error)
	CancelFn func(context.Context, int64, string) error
	ReturnFn func(context.Context, int64, string) error
}

// Orders returns predefined orders for the given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return []model.Order{{ExternalID: "ORD-1", UserID: userID, Status: model.OrderStatusPending}}, nil
}

// Order returns a predefined order with its lines.
func (s OrderFacadeStub) Order(ctx context.Context, userID int64, externalID string) (*model.Order, []model.OrderLine, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, userID, externalID)
	}
	order := &model.Order{ExternalID: externalID, UserID: userID, Status: model.OrderStatusPending}
	lines := []model.OrderLine{{
		Variant:   model.VariantKey{ProductID: 7, Size: "M", Color: "black"},
		Quantity:  2,
		UnitPrice: model.NewMoney(45000, model.CurrencyINR),
		LineTotal: model.NewMoney(90000, model.CurrencyINR),
	}}
	return order, lines, nil
}

// CancelOrder executes the configured cancellation handler.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, userID int64, externalID string) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, userID, externalID)
	}
	return nil
}

// ReturnOrder executes the configured return handler.
func (s OrderFacadeStub) ReturnOrder(ctx context.Context, userID int64, externalID string) error {
	if s.ReturnFn != nil {
		return s.ReturnFn(ctx, userID, externalID)
	}
	return nil
}

// PaymentFacadeStub simulates payment initiation and reconciliation.
type PaymentFacadeStub struct {
	InitiateFn func(context.Context, int64, string, model.PaymentMethod) (*gateway.Session, error)
	CallbackFn func(context.Context, model.PaymentMethod, gateway.Callback) (*model.Order, error)
}

// InitiatePayment returns the configured session or a default one.
func (s PaymentFacadeStub) InitiatePayment(ctx context.Context, userID int64, orderExternalID string, method model.PaymentMethod) (*gateway.Session, error) {
	if s.InitiateFn != nil {
		return s.InitiateFn(ctx, userID, orderExternalID, method)
	}
	return &gateway.Session{TransactionID: "txn-1", RedirectURL: "https://pay.example/txn-1"}, nil
}

// ProcessCallback returns the configured reconciliation result.
func (s PaymentFacadeStub) ProcessCallback(ctx context.Context, method model.PaymentMethod, cb gateway.Callback) (*model.Order, error) {
	if s.CallbackFn != nil {
		return s.CallbackFn(ctx, method, cb)
	}
	return &model.Order{ExternalID: "ORD-1", Status: model.OrderStatusPaid}, nil
}

// TokenParserStub implements the middleware token parsing contract.
type TokenParserStub struct {
	ID      int64
	Err     error
	ParseFn func(string) (int64, error)
}

// ParseToken either delegates to the override or returns the stored result.
func (s TokenParserStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return 0, s.Err
	}
	return s.ID, nil
}

// StorefrontFacadeStub aggregates facade dependencies for HTTP layer tests.
type StorefrontFacadeStub struct {
	CartFacadeStub
	CheckoutFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
}
