package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus describes order lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusReturned  OrderStatus = "RETURNED"
)

// Terminal reports whether no further transition is permitted from the status.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// Order is the immutable record produced by checkout. Only Status and the
// payment reference change after creation. ExternalID is the only
// identifier exposed in URLs and emails.
type Order struct {
	ID               int64
	ExternalID       string
	UserID           int64
	Status           OrderStatus
	TotalAmount      Money
	ShippingCharge   Money
	ItemCount        int64
	PaymentMethod    PaymentMethod
	OrderDate        time.Time
	DeliveryEstimate time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderLine snapshots one cart line at purchase time. Decoupled from live
// catalog prices so historical orders stay accurate.
type OrderLine struct {
	ID        int64
	OrderID   int64
	Variant   VariantKey
	Quantity  int64
	UnitPrice Money
	LineTotal Money
}

// OrderDraft carries everything the storage layer needs to commit an
// order, its lines, the stock reservations, and the cart clear in one
// transaction.
type OrderDraft struct {
	ExternalID       string
	UserID           int64
	TotalAmount      Money
	ShippingCharge   Money
	PaymentMethod    PaymentMethod
	OrderDate        time.Time
	DeliveryEstimate time.Time
	Lines            []OrderLine
}

// NewOrderExternalID generates a collision-resistant order identifier for
// user-facing URLs. Sequential database ids are never exposed.
func NewOrderExternalID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}
