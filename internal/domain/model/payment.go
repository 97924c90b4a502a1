package model

import "time"

// PaymentMethod enumerates the supported gateways. Dispatch always happens
// on this enum, never on the shape of an incoming request.
type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodQR     PaymentMethod = "qr"
	PaymentMethodCOD    PaymentMethod = "cod"
)

// ParsePaymentMethod validates a method string from a URL segment.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch m := PaymentMethod(raw); m {
	case PaymentMethodCard, PaymentMethodWallet, PaymentMethodQR, PaymentMethodCOD:
		return m, true
	}
	return "", false
}

// PaymentStatus describes a payment attempt lifecycle.
type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "INITIATED"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// Payment is one payment attempt for an order. A retry before completion
// creates a superseding INITIATED record; at most one record per order
// ever reaches COMPLETED.
type Payment struct {
	ID            int64
	OrderID       int64
	TransactionID string
	ExternalRef   string
	Method        PaymentMethod
	Amount        Money
	Status        PaymentStatus
	CreatedAt     time.Time
	CompletedAt   *time.Time
}
