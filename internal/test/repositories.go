package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
)

// StockRepositoryStub keeps quantities in-memory for tests. The default
// TryReserve and Release are safe for concurrent use, mirroring the
// row-locked reservation the real store does.
type StockRepositoryStub struct {
	TryReserveFn func(context.Context, model.VariantKey, int64) error
	ReleaseFn    func(context.Context, model.VariantKey, int64) error

	mu         sync.Mutex
	Quantities map[model.VariantKey]int64
	Err        error
}

// NewStockRepositoryStub constructs stub with initialized quantities.
func NewStockRepositoryStub() *StockRepositoryStub {
	return &StockRepositoryStub{Quantities: make(map[model.VariantKey]int64)}
}

func (s *StockRepositoryStub) TryReserve(ctx context.Context, variant model.VariantKey, qty int64) error {
	if s.TryReserveFn != nil {
		return s.TryReserveFn(ctx, variant, qty)
	}
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	available, ok := s.Quantities[variant]
	if !ok {
		return domainErrors.ErrUnknownVariant
	}
	if available < qty {
		return domainErrors.InsufficientStockError{Variant: variant, Requested: qty, Available: available}
	}
	s.Quantities[variant] = available - qty
	return nil
}

func (s *StockRepositoryStub) Release(ctx context.Context, variant model.VariantKey, qty int64) error {
	if s.ReleaseFn != nil {
		return s.ReleaseFn(ctx, variant, qty)
	}
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Quantities[variant] += qty
	return nil
}

func (s *StockRepositoryStub) Quantity(ctx context.Context, variant model.VariantKey) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	available, ok := s.Quantities[variant]
	if !ok {
		return 0, domainErrors.ErrUnknownVariant
	}
	return available, nil
}

// CartRepositoryStub allows tests to customize cart behaviour.
type CartRepositoryStub struct {
	AddFn        func(context.Context, model.CartItem) (*model.CartItem, error)
	UpdateFn     func(context.Context, int64, int64, int64, string, string) error
	RemoveFn     func(context.Context, int64, int64) error
	ListByUserFn func(context.Context, int64) ([]model.CartItem, error)

	Items []model.CartItem
	Next  int64
}

func (s *CartRepositoryStub) Add(ctx context.Context, item model.CartItem) (*model.CartItem, error) {
	if s.AddFn != nil {
		return s.AddFn(ctx, item)
	}
	for i := range s.Items {
		if s.Items[i].UserID == item.UserID && s.Items[i].Variant == item.Variant {
			s.Items[i].Quantity += item.Quantity
			return &s.Items[i], nil
		}
	}
	s.Next++
	item.ID = s.Next
	s.Items = append(s.Items, item)
	return &item, nil
}

func (s *CartRepositoryStub) Update(ctx context.Context, userID, itemID, qty int64, size, color string) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, userID, itemID, qty, size, color)
	}
	for i := range s.Items {
		if s.Items[i].ID == itemID && s.Items[i].UserID == userID {
			s.Items[i].Quantity = qty
			s.Items[i].Variant.Size = size
			s.Items[i].Variant.Color = color
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *CartRepositoryStub) Remove(ctx context.Context, userID, itemID int64) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, userID, itemID)
	}
	for i := range s.Items {
		if s.Items[i].ID == itemID && s.Items[i].UserID == userID {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (s *CartRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.CartItem, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	var items []model.CartItem
	for _, item := range s.Items {
		if item.UserID == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

// OrderRepositoryStub allows tests to customize order behaviour.
type OrderRepositoryStub struct {
	PlaceFn                 func(context.Context, model.OrderDraft) (*model.Order, error)
	GetByExternalIDFn       func(context.Context, string) (*model.Order, error)
	ListByUserFn            func(context.Context, int64) ([]model.Order, error)
	LinesFn                 func(context.Context, int64) ([]model.OrderLine, error)
	TransitionWithRestockFn func(context.Context, int64, []model.OrderStatus, model.OrderStatus) (bool, error)
	MarkDeliveredDueFn      func(context.Context, time.Time) (int64, error)

	Placed      []model.OrderDraft
	Orders      []model.Order
	Transitions []OrderTransitionCall
}

// OrderTransitionCall records a TransitionWithRestock invocation.
type OrderTransitionCall struct {
	OrderID int64
	From    []model.OrderStatus
	To      model.OrderStatus
}

func (s *OrderRepositoryStub) Place(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	s.Placed = append(s.Placed, draft)
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, draft)
	}
	order := &model.Order{
		ID:               int64(len(s.Placed)),
		ExternalID:       draft.ExternalID,
		UserID:           draft.UserID,
		Status:           model.OrderStatusPending,
		TotalAmount:      draft.TotalAmount,
		ShippingCharge:   draft.ShippingCharge,
		PaymentMethod:    draft.PaymentMethod,
		OrderDate:        draft.OrderDate,
		DeliveryEstimate: draft.DeliveryEstimate,
	}
	for _, line := range draft.Lines {
		order.ItemCount += line.Quantity
	}
	s.Orders = append(s.Orders, *order)
	return order, nil
}

func (s *OrderRepositoryStub) GetByExternalID(ctx context.Context, externalID string) (*model.Order, error) {
	if s.GetByExternalIDFn != nil {
		return s.GetByExternalIDFn(ctx, externalID)
	}
	for i := range s.Orders {
		if s.Orders[i].ExternalID == externalID {
			return &s.Orders[i], nil
		}
	}
	return nil, domainErrors.ErrOrderNotFound
}

func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	var orders []model.Order
	for _, order := range s.Orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (s *OrderRepositoryStub) Lines(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	if s.LinesFn != nil {
		return s.LinesFn(ctx, orderID)
	}
	return nil, nil
}

func (s *OrderRepositoryStub) TransitionWithRestock(ctx context.Context, orderID int64, from []model.OrderStatus, to model.OrderStatus) (bool, error) {
	s.Transitions = append(s.Transitions, OrderTransitionCall{OrderID: orderID, From: from, To: to})
	if s.TransitionWithRestockFn != nil {
		return s.TransitionWithRestockFn(ctx, orderID, from, to)
	}
	for i := range s.Orders {
		if s.Orders[i].ID != orderID {
			continue
		}
		for _, status := range from {
			if s.Orders[i].Status == status {
				s.Orders[i].Status = to
				return true, nil
			}
		}
		return false, nil
	}
	return false, nil
}

func (s *OrderRepositoryStub) MarkDeliveredDue(ctx context.Context, now time.Time) (int64, error) {
	if s.MarkDeliveredDueFn != nil {
		return s.MarkDeliveredDueFn(ctx, now)
	}
	var flipped int64
	for i := range s.Orders {
		if s.Orders[i].Status == model.OrderStatusPending && !s.Orders[i].DeliveryEstimate.After(now) {
			s.Orders[i].Status = model.OrderStatusDelivered
			flipped++
		}
	}
	return flipped, nil
}

// PaymentRepositoryStub allows tests to customize payment behaviour.
type PaymentRepositoryStub struct {
	CreateFn             func(context.Context, model.Payment) (*model.Payment, error)
	GetByTransactionIDFn func(context.Context, string) (*model.Payment, error)
	CompleteFn           func(context.Context, string, string) (*model.Order, bool, error)
	FailFn               func(context.Context, string) (bool, error)

	Payments  []model.Payment
	Completed []string
	Failed    []string
}

func (s *PaymentRepositoryStub) Create(ctx context.Context, payment model.Payment) (*model.Payment, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, payment)
	}
	payment.ID = int64(len(s.Payments) + 1)
	s.Payments = append(s.Payments, payment)
	return &payment, nil
}

func (s *PaymentRepositoryStub) GetByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	if s.GetByTransactionIDFn != nil {
		return s.GetByTransactionIDFn(ctx, transactionID)
	}
	for i := range s.Payments {
		if s.Payments[i].TransactionID == transactionID {
			return &s.Payments[i], nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *PaymentRepositoryStub) Complete(ctx context.Context, transactionID, externalRef string) (*model.Order, bool, error) {
	s.Completed = append(s.Completed, transactionID)
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, transactionID, externalRef)
	}
	return &model.Order{Status: model.OrderStatusPaid}, true, nil
}

func (s *PaymentRepositoryStub) Fail(ctx context.Context, transactionID string) (bool, error) {
	s.Failed = append(s.Failed, transactionID)
	if s.FailFn != nil {
		return s.FailFn(ctx, transactionID)
	}
	return true, nil
}

// CatalogRepositoryStub serves prices and addresses from maps.
type CatalogRepositoryStub struct {
	VariantPriceFn    func(context.Context, model.VariantKey) (model.Money, error)
	DeliveryAddressFn func(context.Context, int64) (*model.Address, error)

	Prices    map[model.VariantKey]model.Money
	Addresses map[int64]*model.Address
}

// NewCatalogRepositoryStub constructs stub with initialized maps.
func NewCatalogRepositoryStub() *CatalogRepositoryStub {
	return &CatalogRepositoryStub{
		Prices:    make(map[model.VariantKey]model.Money),
		Addresses: make(map[int64]*model.Address),
	}
}

func (s *CatalogRepositoryStub) VariantPrice(ctx context.Context, variant model.VariantKey) (model.Money, error) {
	if s.VariantPriceFn != nil {
		return s.VariantPriceFn(ctx, variant)
	}
	price, ok := s.Prices[variant]
	if !ok {
		return model.Money{}, domainErrors.ErrUnknownVariant
	}
	return price, nil
}

func (s *CatalogRepositoryStub) DeliveryAddress(ctx context.Context, userID int64) (*model.Address, error) {
	if s.DeliveryAddressFn != nil {
		return s.DeliveryAddressFn(ctx, userID)
	}
	address, ok := s.Addresses[userID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return address, nil
}
