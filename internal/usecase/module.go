package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/baabuu/storefront/internal/adapter/rates"
	"github.com/baabuu/storefront/internal/config"
	"github.com/baabuu/storefront/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newCartUseCase,
	newCheckoutUseCase,
	newOrderUseCase,
	NewPaymentUseCase,
)

type cartParams struct {
	fx.In

	Carts     repository.CartRepository
	Catalog   repository.CatalogRepository
	Converter *rates.Converter
	Config    *config.Config
	Logger    *slog.Logger
}

func newCartUseCase(p cartParams) *CartUseCase {
	return NewCartUseCase(p.Carts, p.Catalog, p.Converter, p.Config.ShippingCharge, p.Logger)
}

type checkoutParams struct {
	fx.In

	Carts    repository.CartRepository
	Catalog  repository.CatalogRepository
	Orders   repository.OrderRepository
	Notifier Notifier `optional:"true"`
	Config   *config.Config
	Logger   *slog.Logger
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(p.Carts, p.Catalog, p.Orders, p.Notifier, CheckoutConfig{
		ShippingCharge:   p.Config.ShippingCharge,
		DeliveryLeadDays: p.Config.DeliveryLeadDays,
	}, p.Logger)
}

type orderParams struct {
	fx.In

	Orders repository.OrderRepository
	Config *config.Config
	Logger *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Config.ReturnWindowDays, p.Logger)
}

var _ CurrencyConverter = (*rates.Converter)(nil)
