package usecase

import (
	"context"
	"log/slog"
	"time"

	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
	"github.com/baabuu/storefront/internal/domain/repository"
)

// cancellableStatuses are the states an order can be cancelled from. Paid
// orders may still cancel before delivery; the refund happens out of band.
var cancellableStatuses = []model.OrderStatus{model.OrderStatusPending, model.OrderStatusPaid, model.OrderStatusDelivered}

// returnableStatuses are the states an order can be returned from.
var returnableStatuses = []model.OrderStatus{model.OrderStatusPending, model.OrderStatusDelivered}

// OrderUseCase encapsulates order lifecycle logic after placement.
type OrderUseCase struct {
	orders repository.OrderRepository
	// window is how long after the order date cancel and return stay
	// eligible.
	window time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, windowDays int, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{
		orders: orders,
		window: time.Duration(windowDays) * 24 * time.Hour,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns an order owned by the user. Orders belonging to other users
// are indistinguishable from missing ones.
func (u *OrderUseCase) Get(ctx context.Context, userID int64, externalID string) (*model.Order, error) {
	order, err := u.orders.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrOrderNotFound
	}
	return order, nil
}

// ListByUser returns the user's orders newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// Lines returns the immutable line snapshot of an order the user owns.
func (u *OrderUseCase) Lines(ctx context.Context, userID int64, externalID string) ([]model.OrderLine, error) {
	order, err := u.Get(ctx, userID, externalID)
	if err != nil {
		return nil, err
	}
	return u.orders.Lines(ctx, order.ID)
}

// Cancel cancels an order inside the eligibility window and releases its
// reserved stock. The status check and the restock run in one repository
// transaction, so a concurrent transition cannot double-release.
func (u *OrderUseCase) Cancel(ctx context.Context, userID int64, externalID string) error {
	return u.transition(ctx, userID, externalID, cancellableStatuses, model.OrderStatusCancelled)
}

// Return marks a pending or delivered order as returned inside the
// eligibility window and releases its stock back to inventory.
func (u *OrderUseCase) Return(ctx context.Context, userID int64, externalID string) error {
	return u.transition(ctx, userID, externalID, returnableStatuses, model.OrderStatusReturned)
}

// SweepDeliveries promotes pending orders whose delivery estimate elapsed.
func (u *OrderUseCase) SweepDeliveries(ctx context.Context) (int64, error) {
	return u.orders.MarkDeliveredDue(ctx, u.now())
}

func (u *OrderUseCase) transition(ctx context.Context, userID int64, externalID string, from []model.OrderStatus, to model.OrderStatus) error {
	order, err := u.Get(ctx, userID, externalID)
	if err != nil {
		return err
	}

	if u.now().Sub(order.OrderDate) > u.window {
		return domainErrors.ErrNotEligible
	}

	applied, err := u.orders.TransitionWithRestock(ctx, order.ID, from, to)
	if err != nil {
		return err
	}
	if !applied {
		return domainErrors.ErrNotEligible
	}

	u.logger.Info("order transitioned",
		slog.String("order", order.ExternalID),
		slog.String("from", string(order.Status)),
		slog.String("to", string(to)),
	)
	return nil
}
