package repository

import (
	"context"

	"github.com/baabuu/storefront/internal/domain/model"
)

// PaymentRepository persists payment attempts and owns the exactly-once
// finalization transitions.
type PaymentRepository interface {
	// Create records an INITIATED payment attempt before any external
	// session is handed to the client.
	Create(ctx context.Context, payment model.Payment) (*model.Payment, error)
	// GetByTransactionID resolves a callback to its local payment record.
	GetByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error)
	// Complete transitions INITIATED -> COMPLETED and the associated order
	// PENDING -> PAID in one transaction. Replays for an already COMPLETED
	// payment return the same order with applied=false and no side effects.
	// A payment whose order already reached a terminal state is not
	// completed; the call reports ErrNotEligible.
	Complete(ctx context.Context, transactionID, externalRef string) (order *model.Order, applied bool, err error)
	// Fail transitions INITIATED -> FAILED, releases the stock reserved for
	// the order, and cancels the order, all in one transaction. A payment
	// already FAILED or COMPLETED is left untouched (applied=false).
	Fail(ctx context.Context, transactionID string) (applied bool, err error)
}
