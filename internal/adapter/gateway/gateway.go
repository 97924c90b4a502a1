package gateway

import (
	"context"
	"errors"

	"github.com/baabuu/storefront/internal/domain/model"
)

// ErrNoCallback marks methods that settle synchronously and never receive
// a gateway callback.
var ErrNoCallback = errors.New("payment method has no gateway callback")

// PrepareRequest carries what an adapter needs to open a payment session.
// Amount is always the canonical base-currency total in minor units.
type PrepareRequest struct {
	OrderExternalID string
	TransactionID   string
	Amount          model.Money
}

// Session is the gateway-specific payload handed back to the client.
type Session struct {
	TransactionID string
	// ExternalRef is the gateway-side identifier when one is issued at
	// prepare time (wallet pidx, card intent id).
	ExternalRef string
	// RedirectURL is where the client must be sent; empty for synchronous
	// methods.
	RedirectURL string
	// Fields are method-specific values the client needs: signed form
	// fields for redirect methods, the client secret for card.
	Fields map[string]string
}

// Callback is a gateway confirmation as received on the webhook endpoint.
type Callback struct {
	Params map[string]string
	Body   []byte
}

// Verification is the adapter's judgement of a callback. Amount is in
// minor units, normalized from whatever formatting the gateway used.
type Verification struct {
	TransactionID string
	Amount        int64
	ExternalRef   string
}

// Adapter is the common contract every payment method implements.
// Verification failures are typed: ErrSignatureInvalid and
// AmountMismatchError are terminal, ErrGatewayUnavailable is retryable.
type Adapter interface {
	Method() model.PaymentMethod
	Prepare(ctx context.Context, req PrepareRequest) (*Session, error)
	// CallbackTransactionID extracts the local transaction identifier from
	// a callback without trusting anything else in the payload.
	CallbackTransactionID(cb Callback) (string, error)
	Verify(ctx context.Context, cb Callback) (*Verification, error)
}

// Registry dispatches on the explicit payment method enum.
type Registry struct {
	adapters map[model.PaymentMethod]Adapter
}

// NewRegistry indexes the given adapters by method.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[model.PaymentMethod]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Method()] = a
	}
	return r
}

// Lookup returns the adapter for a method.
func (r *Registry) Lookup(method model.PaymentMethod) (Adapter, bool) {
	a, ok := r.adapters[method]
	return a, ok
}
