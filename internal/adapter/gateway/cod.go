package gateway

import (
	"context"

	"github.com/baabuu/storefront/internal/domain/model"
)

// CODAdapter is the zero-party method: no external call, an immediate
// synchronous session. The payment record stays INITIATED until the
// courier settles it, which is outside this system.
type CODAdapter struct{}

// NewCODAdapter constructs the cash-on-delivery adapter.
func NewCODAdapter() *CODAdapter {
	return &CODAdapter{}
}

func (a *CODAdapter) Method() model.PaymentMethod {
	return model.PaymentMethodCOD
}

func (a *CODAdapter) Prepare(ctx context.Context, req PrepareRequest) (*Session, error) {
	return &Session{TransactionID: req.TransactionID}, nil
}

func (a *CODAdapter) CallbackTransactionID(cb Callback) (string, error) {
	return "", ErrNoCallback
}

func (a *CODAdapter) Verify(ctx context.Context, cb Callback) (*Verification, error) {
	return nil, ErrNoCallback
}
