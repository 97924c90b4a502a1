package repository

import (
	"context"
	"time"

	"github.com/baabuu/storefront/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Place commits the order, its lines, the stock reservations for every
	// line, and the cart clear in a single transaction. Any short line
	// aborts the whole attempt with InsufficientStockError; no partial
	// reservation survives.
	Place(ctx context.Context, draft model.OrderDraft) (*model.Order, error)
	// GetByExternalID resolves the user-facing order identifier.
	GetByExternalID(ctx context.Context, externalID string) (*model.Order, error)
	// ListByUser returns orders newest first.
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	// Lines returns the immutable line snapshot of an order.
	Lines(ctx context.Context, orderID int64) ([]model.OrderLine, error)
	// TransitionWithRestock conditionally moves the order from one of the
	// given statuses to the target status and, in the same transaction,
	// releases the stock reserved for every order line. Reports whether the
	// transition happened; false means the order was not in an eligible state.
	TransitionWithRestock(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus) (bool, error)
	// MarkDeliveredDue flips PENDING orders whose delivery estimate has
	// elapsed to DELIVERED. Conditional update, safe to run concurrently
	// with itself. Returns the number of orders flipped.
	MarkDeliveredDue(ctx context.Context, now time.Time) (int64, error)
}
