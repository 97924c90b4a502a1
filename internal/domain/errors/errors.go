package errors

import (
	"errors"
	"fmt"

	"github.com/baabuu/storefront/internal/domain/model"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrUnknownVariant  = errors.New("unknown variant")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingAddress  = errors.New("delivery address is missing")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrNotEligible     = errors.New("not eligible")

	ErrUnsupportedMethod  = errors.New("payment method not supported")
	ErrSignatureInvalid   = errors.New("signature invalid")
	ErrPaymentDeclined    = errors.New("payment declined")
	ErrGatewayUnavailable = errors.New("gateway unavailable")
)

// InsufficientStockError reports which variant could not be reserved and
// how many units remain available.
type InsufficientStockError struct {
	Variant   model.VariantKey
	Requested int64
	Available int64
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.Variant, e.Requested, e.Available)
}

// AmountMismatchError reports a gateway-confirmed amount that differs from
// the locally recorded payment amount after normalization. Both sides are
// in minor units so formatting differences never reach this error.
type AmountMismatchError struct {
	Expected int64
	Got      int64
}

func (e AmountMismatchError) Error() string {
	return fmt.Sprintf("amount mismatch: expected %d, got %d", e.Expected, e.Got)
}
