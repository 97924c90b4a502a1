package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/baabuu/storefront/internal/adapter/rates"
	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
	"github.com/baabuu/storefront/internal/domain/repository"
)

// CurrencyConverter converts an amount for display. Implementations must
// fail with rates.ErrRateUnavailable when no rate can be obtained.
type CurrencyConverter interface {
	Convert(ctx context.Context, m model.Money, to string) (model.Money, error)
}

// CartUseCase manages cart lines and computes cart totals. Totals are
// always derived from the full set of lines in base currency; display
// conversion happens once on the finished summary.
type CartUseCase struct {
	carts     repository.CartRepository
	catalog   repository.CatalogRepository
	converter CurrencyConverter
	shipping  int64
	logger    *slog.Logger
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, catalog repository.CatalogRepository, converter CurrencyConverter, shipping int64, logger *slog.Logger) *CartUseCase {
	return &CartUseCase{
		carts:     carts,
		catalog:   catalog,
		converter: converter,
		shipping:  shipping,
		logger:    logger,
	}
}

// Add puts a variant in the user's cart, snapshotting the current catalog
// price for display. An existing line for the same variant is incremented.
func (u *CartUseCase) Add(ctx context.Context, userID int64, variant model.VariantKey, qty int64) (*model.CartItem, error) {
	if qty <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}

	price, err := u.catalog.VariantPrice(ctx, variant)
	if err != nil {
		return nil, err
	}

	return u.carts.Add(ctx, model.CartItem{
		UserID:    userID,
		Variant:   variant,
		Quantity:  qty,
		UnitPrice: price,
	})
}

// Update rewrites quantity, size, and color of a line the user owns.
func (u *CartUseCase) Update(ctx context.Context, userID, itemID, qty int64, size, color string) error {
	if qty <= 0 {
		return domainErrors.ErrInvalidQuantity
	}
	return u.carts.Update(ctx, userID, itemID, qty, size, color)
}

// Remove deletes a line the user owns.
func (u *CartUseCase) Remove(ctx context.Context, userID, itemID int64) error {
	return u.carts.Remove(ctx, userID, itemID)
}

// Summary returns the cart with totals in the base currency.
func (u *CartUseCase) Summary(ctx context.Context, userID int64) (*model.CartSummary, error) {
	items, err := u.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.totals(items)
}

// DisplaySummary returns the cart with totals converted to the requested
// currency. When the rate provider is unavailable the whole summary stays
// in base currency rather than mixing converted and unconverted amounts.
func (u *CartUseCase) DisplaySummary(ctx context.Context, userID int64, currency string) (*model.CartSummary, error) {
	summary, err := u.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	if currency == "" || currency == summary.Currency {
		return summary, nil
	}

	converted, err := u.convert(ctx, summary, currency)
	if err != nil {
		if errors.Is(err, rates.ErrRateUnavailable) {
			u.logger.Warn("display conversion degraded to base currency",
				slog.Int64("user_id", userID),
				slog.String("currency", currency),
			)
			return summary, nil
		}
		return nil, err
	}
	return converted, nil
}

func (u *CartUseCase) totals(items []model.CartItem) (*model.CartSummary, error) {
	summary := &model.CartSummary{
		Items:    items,
		Subtotal: model.NewMoney(0, model.CurrencyINR),
		Shipping: model.NewMoney(u.shipping, model.CurrencyINR),
		Currency: model.CurrencyINR,
	}

	for _, item := range items {
		sum, err := summary.Subtotal.Add(item.LineTotal())
		if err != nil {
			return nil, err
		}
		summary.Subtotal = sum
		summary.ItemCount += item.Quantity
	}

	total, err := summary.Subtotal.Add(summary.Shipping)
	if err != nil {
		return nil, err
	}
	summary.Total = total
	return summary, nil
}

func (u *CartUseCase) convert(ctx context.Context, summary *model.CartSummary, currency string) (*model.CartSummary, error) {
	out := &model.CartSummary{
		ItemCount: summary.ItemCount,
		Currency:  currency,
	}

	var err error
	if out.Subtotal, err = u.converter.Convert(ctx, summary.Subtotal, currency); err != nil {
		return nil, err
	}
	if out.Shipping, err = u.converter.Convert(ctx, summary.Shipping, currency); err != nil {
		return nil, err
	}
	if out.Total, err = u.converter.Convert(ctx, summary.Total, currency); err != nil {
		return nil, err
	}

	out.Items = make([]model.CartItem, len(summary.Items))
	for i, item := range summary.Items {
		price, err := u.converter.Convert(ctx, item.UnitPrice, currency)
		if err != nil {
			return nil, err
		}
		item.UnitPrice = price
		out.Items[i] = item
	}
	return out, nil
}
