package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/baabuu/storefront/internal/adapter/gateway"
	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
	testhelpers "github.com/baabuu/storefront/internal/test"
)

type adapterStub struct {
	method    model.PaymentMethod
	prepareFn func(context.Context, gateway.PrepareRequest) (*gateway.Session, error)
	verifyFn  func(context.Context, gateway.Callback) (*gateway.Verification, error)
}

func (a *adapterStub) Method() model.PaymentMethod { return a.method }

func (a *adapterStub) Prepare(ctx context.Context, req gateway.PrepareRequest) (*gateway.Session, error) {
	if a.prepareFn != nil {
		return a.prepareFn(ctx, req)
	}
	return &gateway.Session{TransactionID: req.TransactionID}, nil
}

func (a *adapterStub) CallbackTransactionID(cb gateway.Callback) (string, error) {
	txn, ok := cb.Params["transaction_id"]
	if !ok {
		return "", errors.New("no transaction_id")
	}
	return txn, nil
}

func (a *adapterStub) Verify(ctx context.Context, cb gateway.Callback) (*gateway.Verification, error) {
	if a.verifyFn != nil {
		return a.verifyFn(ctx, cb)
	}
	return nil, gateway.ErrNoCallback
}

func pendingOrderRepo() *testhelpers.OrderRepositoryStub {
	return &testhelpers.OrderRepositoryStub{Orders: []model.Order{{
		ID:          1,
		ExternalID:  "AB12CD34EF56",
		UserID:      1,
		Status:      model.OrderStatusPending,
		TotalAmount: model.NewMoney(140000, model.CurrencyINR),
	}}}
}

func paymentFixture(orders *testhelpers.OrderRepositoryStub, payments *testhelpers.PaymentRepositoryStub, adapters ...gateway.Adapter) *PaymentUseCase {
	return NewPaymentUseCase(orders, payments, gateway.NewRegistry(adapters...), discardLogger())
}

func TestPaymentInitiateCreatesRecordBeforePrepare(t *testing.T) {
	payments := &testhelpers.PaymentRepositoryStub{}
	var prepared gateway.PrepareRequest
	adapter := &adapterStub{method: model.PaymentMethodQR, prepareFn: func(_ context.Context, req gateway.PrepareRequest) (*gateway.Session, error) {
		prepared = req
		if len(payments.Payments) != 1 {
			t.Fatal("payment record must exist before the gateway is contacted")
		}
		return &gateway.Session{TransactionID: req.TransactionID, RedirectURL: "https://gateway.example.com/pay"}, nil
	}}
	uc := paymentFixture(pendingOrderRepo(), payments, adapter)

	session, err := uc.Initiate(context.Background(), 1, "AB12CD34EF56", model.PaymentMethodQR)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.RedirectURL == "" {
		t.Fatal("expected redirect session")
	}
	if prepared.Amount.Amount != 140000 {
		t.Fatalf("expected order total forwarded, got %d", prepared.Amount.Amount)
	}
	if payments.Payments[0].Status != model.PaymentStatusInitiated {
		t.Fatalf("expected INITIATED payment, got %s", payments.Payments[0].Status)
	}
	if payments.Payments[0].TransactionID != prepared.TransactionID {
		t.Fatal("prepare must use the recorded transaction id")
	}
}

func TestPaymentInitiateForeignOrder(t *testing.T) {
	uc := paymentFixture(pendingOrderRepo(), &testhelpers.PaymentRepositoryStub{}, &adapterStub{method: model.PaymentMethodQR})

	if _, err := uc.Initiate(context.Background(), 99, "AB12CD34EF56", model.PaymentMethodQR); err != domainErrors.ErrOrderNotFound {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestPaymentInitiateNonPendingOrder(t *testing.T) {
	orders := pendingOrderRepo()
	orders.Orders[0].Status = model.OrderStatusPaid
	uc := paymentFixture(orders, &testhelpers.PaymentRepositoryStub{}, &adapterStub{method: model.PaymentMethodQR})

	if _, err := uc.Initiate(context.Background(), 1, "AB12CD34EF56", model.PaymentMethodQR); err != domainErrors.ErrNotEligible {
		t.Fatalf("expected not eligible, got %v", err)
	}
}

func TestPaymentInitiateUnconfiguredMethod(t *testing.T) {
	uc := paymentFixture(pendingOrderRepo(), &testhelpers.PaymentRepositoryStub{}, &adapterStub{method: model.PaymentMethodQR})

	if _, err := uc.Initiate(context.Background(), 1, "AB12CD34EF56", model.PaymentMethodWallet); err != domainErrors.ErrUnsupportedMethod {
		t.Fatalf("expected unsupported method, got %v", err)
	}
}

func initiatedPayment() model.Payment {
	return model.Payment{
		ID:            1,
		OrderID:       1,
		TransactionID: "txn-1",
		Method:        model.PaymentMethodQR,
		Amount:        model.NewMoney(140000, model.CurrencyINR),
		Status:        model.PaymentStatusInitiated,
	}
}

func qrCallbackFor(txn string) gateway.Callback {
	return gateway.Callback{Params: map[string]string{"transaction_id": txn}}
}

func TestPaymentCallbackCompletesOrder(t *testing.T) {
	payments := &testhelpers.PaymentRepositoryStub{Payments: []model.Payment{initiatedPayment()}}
	adapter := &adapterStub{method: model.PaymentMethodQR, verifyFn: func(context.Context, gateway.Callback) (*gateway.Verification, error) {
		return &gateway.Verification{TransactionID: "txn-1", Amount: 140000, ExternalRef: "ref-9"}, nil
	}}
	uc := paymentFixture(pendingOrderRepo(), payments, adapter)

	order, err := uc.HandleCallback(context.Background(), model.PaymentMethodQR, qrCallbackFor("txn-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusPaid {
		t.Fatalf("expected paid order, got %s", order.Status)
	}
	if len(payments.Completed) != 1 {
		t.Fatalf("expected one completion, got %d", len(payments.Completed))
	}
	if len(payments.Failed) != 0 {
		t.Fatal("no failure may be recorded on success")
	}
}

func TestPaymentCallbackDuplicateIsIdempotent(t *testing.T) {
	settled := initiatedPayment()
	settled.Status = model.PaymentStatusCompleted
	payments := &testhelpers.PaymentRepositoryStub{
		Payments: []model.Payment{settled},
		CompleteFn: func(context.Context, string, string) (*model.Order, bool, error) {
			return &model.Order{ID: 1, ExternalID: "AB12CD34EF56", Status: model.OrderStatusPaid}, false, nil
		},
	}
	adapter := &adapterStub{method: model.PaymentMethodQR, verifyFn: func(context.Context, gateway.Callback) (*gateway.Verification, error) {
		return &gateway.Verification{TransactionID: "txn-1", Amount: 140000}, nil
	}}
	uc := paymentFixture(pendingOrderRepo(), payments, adapter)

	order, err := uc.HandleCallback(context.Background(), model.PaymentMethodQR, qrCallbackFor("txn-1"))
	if err != nil {
		t.Fatalf("duplicate callback must succeed, got %v", err)
	}
	if order.Status != model.OrderStatusPaid {
		t.Fatalf("expected paid order, got %s", order.Status)
	}
}

func TestPaymentCallbackUnknownTransaction(t *testing.T) {
	uc := paymentFixture(pendingOrderRepo(), &testhelpers.PaymentRepositoryStub{}, &adapterStub{method: model.PaymentMethodQR})

	_, err := uc.HandleCallback(context.Background(), model.PaymentMethodQR, qrCallbackFor("txn-unknown"))
	if !errors.Is(err, domainErrors.ErrSignatureInvalid) {
		t.Fatalf("expected signature invalid, got %v", err)
	}
}

func TestPaymentCallbackInvalidSignatureFailsPayment(t *testing.T) {
	payments := &testhelpers.PaymentRepositoryStub{Payments: []model.Payment{initiatedPayment()}}
	adapter := &adapterStub{method: model.PaymentMethodQR, verifyFn: func(context.Context, gateway.Callback) (*gateway.Verification, error) {
		return nil, domainErrors.ErrSignatureInvalid
	}}
	uc := paymentFixture(pendingOrderRepo(), payments, adapter)

	_, err := uc.HandleCallback(context.Background(), model.PaymentMethodQR, qrCallbackFor("txn-1"))
	if !errors.Is(err, domainErrors.ErrSignatureInvalid) {
		t.Fatalf("expected signature invalid, got %v", err)
	}
	if len(payments.Failed) != 1 || payments.Failed[0] != "txn-1" {
		t.Fatalf("expected txn-1 failed, got %v", payments.Failed)
	}
}

func TestPaymentCallbackAmountMismatchFailsPayment(t *testing.T) {
	payments := &testhelpers.PaymentRepositoryStub{Payments: []model.Payment{initiatedPayment()}}
	adapter := &adapterStub{method: model.PaymentMethodQR, verifyFn: func(context.Context, gateway.Callback) (*gateway.Verification, error) {
		return &gateway.Verification{TransactionID: "txn-1", Amount: 100}, nil
	}}
	uc := paymentFixture(pendingOrderRepo(), payments, adapter)

	_, err := uc.HandleCallback(context.Background(), model.PaymentMethodQR, qrCallbackFor("txn-1"))
	var mismatch domainErrors.AmountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected amount mismatch, got %v", err)
	}
	if mismatch.Expected != 140000 || mismatch.Got != 100 {
		t.Fatalf("unexpected mismatch detail: %+v", mismatch)
	}
	if len(payments.Failed) != 1 {
		t.Fatal("mismatch must fail the payment")
	}
}

func TestPaymentCallbackGatewayUnavailableLeavesStateAlone(t *testing.T) {
	payments := &testhelpers.PaymentRepositoryStub{Payments: []model.Payment{initiatedPayment()}}
	adapter := &adapterStub{method: model.PaymentMethodQR, verifyFn: func(context.Context, gateway.Callback) (*gateway.Verification, error) {
		return nil, domainErrors.ErrGatewayUnavailable
	}}
	uc := paymentFixture(pendingOrderRepo(), payments, adapter)

	_, err := uc.HandleCallback(context.Background(), model.PaymentMethodQR, qrCallbackFor("txn-1"))
	if !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatalf("expected gateway unavailable, got %v", err)
	}
	if len(payments.Failed) != 0 || len(payments.Completed) != 0 {
		t.Fatal("retryable verification failure must not change payment state")
	}
}
