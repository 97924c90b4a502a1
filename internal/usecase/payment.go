package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/baabuu/storefront/internal/adapter/gateway"
	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
	"github.com/baabuu/storefront/internal/domain/repository"
)

// PaymentUseCase owns payment initiation and callback reconciliation.
// Gateways are never trusted: every callback is verified through the
// method's adapter and the confirmed amount is compared against the
// locally recorded one before anything is finalized.
type PaymentUseCase struct {
	orders   repository.OrderRepository
	payments repository.PaymentRepository
	registry *gateway.Registry
	logger   *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(orders repository.OrderRepository, payments repository.PaymentRepository, registry *gateway.Registry, logger *slog.Logger) *PaymentUseCase {
	return &PaymentUseCase{
		orders:   orders,
		payments: payments,
		registry: registry,
		logger:   logger,
	}
}

// Initiate opens a payment session for a pending order the user owns.
// A fresh INITIATED payment record is committed before the gateway is
// contacted, so a callback can never arrive for an unknown transaction.
// Retrying initiation creates a superseding record; earlier INITIATED
// attempts simply never complete.
func (u *PaymentUseCase) Initiate(ctx context.Context, userID int64, orderExternalID string, method model.PaymentMethod) (*gateway.Session, error) {
	order, err := u.orders.GetByExternalID(ctx, orderExternalID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrOrderNotFound
	}
	if order.Status != model.OrderStatusPending {
		return nil, domainErrors.ErrNotEligible
	}

	adapter, ok := u.registry.Lookup(method)
	if !ok {
		return nil, domainErrors.ErrUnsupportedMethod
	}

	payment, err := u.payments.Create(ctx, model.Payment{
		OrderID:       order.ID,
		TransactionID: uuid.NewString(),
		Method:        method,
		Amount:        order.TotalAmount,
		Status:        model.PaymentStatusInitiated,
	})
	if err != nil {
		return nil, err
	}

	session, err := adapter.Prepare(ctx, gateway.PrepareRequest{
		OrderExternalID: order.ExternalID,
		TransactionID:   payment.TransactionID,
		Amount:          payment.Amount,
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("payment initiated",
		slog.String("order", order.ExternalID),
		slog.String("transaction_id", payment.TransactionID),
		slog.String("method", string(method)),
	)
	return session, nil
}

// HandleCallback reconciles a gateway confirmation. Outcomes:
//   - verified and amounts match: payment COMPLETED, order PAID;
//   - duplicate of an already settled transaction: same order, no effect;
//   - invalid signature, declined, or amount mismatch: payment FAILED,
//     stock released, order cancelled;
//   - gateway unreachable: nothing changes, the error is retryable.
func (u *PaymentUseCase) HandleCallback(ctx context.Context, method model.PaymentMethod, cb gateway.Callback) (*model.Order, error) {
	adapter, ok := u.registry.Lookup(method)
	if !ok {
		return nil, domainErrors.ErrUnsupportedMethod
	}

	txn, err := adapter.CallbackTransactionID(cb)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrSignatureInvalid, err)
	}

	payment, err := u.payments.GetByTransactionID(ctx, txn)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrSignatureInvalid
		}
		return nil, err
	}

	verification, err := adapter.Verify(ctx, cb)
	if err != nil {
		if errors.Is(err, domainErrors.ErrGatewayUnavailable) {
			return nil, err
		}
		return nil, u.reject(ctx, txn, err)
	}

	if verification.Amount != payment.Amount.Amount {
		mismatch := domainErrors.AmountMismatchError{
			Expected: payment.Amount.Amount,
			Got:      verification.Amount,
		}
		return nil, u.reject(ctx, txn, mismatch)
	}

	order, applied, err := u.payments.Complete(ctx, txn, verification.ExternalRef)
	if err != nil {
		return nil, err
	}
	if !applied {
		u.logger.Info("duplicate payment callback ignored",
			slog.String("transaction_id", txn),
		)
		return order, nil
	}

	u.logger.Info("payment completed",
		slog.String("order", order.ExternalID),
		slog.String("transaction_id", txn),
	)
	return order, nil
}

// reject fails the payment, releasing the order's stock reservation. The
// release is skipped when the payment already settled, protecting a paid
// order from late forged callbacks.
func (u *PaymentUseCase) reject(ctx context.Context, txn string, cause error) error {
	applied, err := u.payments.Fail(ctx, txn)
	if err != nil {
		u.logger.Error("payment failure not recorded",
			slog.String("transaction_id", txn),
			slog.String("error", err.Error()),
		)
		return err
	}
	if applied {
		u.logger.Warn("payment rejected",
			slog.String("transaction_id", txn),
			slog.String("cause", cause.Error()),
		)
	}
	return cause
}
