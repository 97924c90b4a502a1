package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
	"github.com/baabuu/storefront/internal/domain/repository"
)

// Notifier receives a best-effort order confirmation after checkout
// commits. Failures are logged and never affect the placed order.
type Notifier interface {
	OrderPlaced(ctx context.Context, order *model.Order, address *model.Address) error
}

// CheckoutConfig carries the commercial parameters of order placement.
type CheckoutConfig struct {
	// ShippingCharge is the flat per-order charge in minor units.
	ShippingCharge int64
	// DeliveryLeadDays sets the delivery estimate relative to order date.
	DeliveryLeadDays int
}

// CheckoutUseCase turns a cart into an order. Every line is repriced from
// the catalog at placement time; cart price snapshots are display-only.
type CheckoutUseCase struct {
	carts    repository.CartRepository
	catalog  repository.CatalogRepository
	orders   repository.OrderRepository
	notifier Notifier
	cfg      CheckoutConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	carts repository.CartRepository,
	catalog repository.CatalogRepository,
	orders repository.OrderRepository,
	notifier Notifier,
	cfg CheckoutConfig,
	logger *slog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		carts:    carts,
		catalog:  catalog,
		orders:   orders,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// PlaceOrder validates the cart, reprices every line from the catalog, and
// commits the order. Stock reservation, order insertion, and the cart
// clear are one transaction inside the repository: a single short line
// fails the whole attempt and no partial reservation survives.
func (u *CheckoutUseCase) PlaceOrder(ctx context.Context, userID int64, method model.PaymentMethod) (*model.Order, error) {
	items, err := u.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}

	address, err := u.catalog.DeliveryAddress(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrMissingAddress
		}
		return nil, err
	}

	subtotal := model.NewMoney(0, model.CurrencyINR)
	lines := make([]model.OrderLine, 0, len(items))
	for _, item := range items {
		price, err := u.catalog.VariantPrice(ctx, item.Variant)
		if err != nil {
			return nil, err
		}
		line := model.OrderLine{
			Variant:   item.Variant,
			Quantity:  item.Quantity,
			UnitPrice: price,
			LineTotal: price.Mul(item.Quantity),
		}
		if subtotal, err = subtotal.Add(line.LineTotal); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	shipping := model.NewMoney(u.cfg.ShippingCharge, model.CurrencyINR)
	total, err := subtotal.Add(shipping)
	if err != nil {
		return nil, err
	}

	orderDate := u.now()
	draft := model.OrderDraft{
		ExternalID:       model.NewOrderExternalID(),
		UserID:           userID,
		TotalAmount:      total,
		ShippingCharge:   shipping,
		PaymentMethod:    method,
		OrderDate:        orderDate,
		DeliveryEstimate: orderDate.AddDate(0, 0, u.cfg.DeliveryLeadDays),
		Lines:            lines,
	}

	order, err := u.orders.Place(ctx, draft)
	if err != nil {
		return nil, err
	}

	u.logger.Info("order placed",
		slog.String("order", order.ExternalID),
		slog.Int64("user_id", userID),
		slog.String("total", order.TotalAmount.String()),
	)

	if u.notifier != nil {
		if err := u.notifier.OrderPlaced(ctx, order, address); err != nil {
			u.logger.Warn("order confirmation not delivered",
				slog.String("order", order.ExternalID),
				slog.String("error", err.Error()),
			)
		}
	}

	return order, nil
}
