package dto

import (
	"time"

	"github.com/baabuu/storefront/internal/domain/model"
)

// PlaceOrderRequest is the payload of POST /api/checkout/place.
type PlaceOrderRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// OrderResponse is the order summary returned by checkout and listings.
type OrderResponse struct {
	OrderID          string    `json:"order_id"`
	Status           string    `json:"status"`
	Total            string    `json:"total"`
	Shipping         string    `json:"shipping"`
	Currency         string    `json:"currency"`
	ItemCount        int64     `json:"item_count"`
	PaymentMethod    string    `json:"payment_method"`
	OrderDate        time.Time `json:"order_date"`
	DeliveryEstimate time.Time `json:"delivery_estimate"`
}

// OrderLineResponse is one immutable order line.
type OrderLineResponse struct {
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// OrderDetailResponse is an order with its line snapshot.
type OrderDetailResponse struct {
	OrderResponse
	Lines []OrderLineResponse `json:"lines"`
}

// InsufficientStockResponse names the short variant so the client can
// adjust the cart.
type InsufficientStockResponse struct {
	Error     string `json:"error"`
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}

// NewOrderResponse maps an order.
func NewOrderResponse(order *model.Order) OrderResponse {
	return OrderResponse{
		OrderID:          order.ExternalID,
		Status:           string(order.Status),
		Total:            FormatMoney(order.TotalAmount),
		Shipping:         FormatMoney(order.ShippingCharge),
		Currency:         order.TotalAmount.Currency,
		ItemCount:        order.ItemCount,
		PaymentMethod:    string(order.PaymentMethod),
		OrderDate:        order.OrderDate,
		DeliveryEstimate: order.DeliveryEstimate,
	}
}

// NewOrderDetailResponse maps an order with lines.
func NewOrderDetailResponse(order *model.Order, lines []model.OrderLine) OrderDetailResponse {
	resp := OrderDetailResponse{
		OrderResponse: NewOrderResponse(order),
		Lines:         make([]OrderLineResponse, 0, len(lines)),
	}
	for _, line := range lines {
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ProductID: line.Variant.ProductID,
			Size:      line.Variant.Size,
			Color:     line.Variant.Color,
			Quantity:  line.Quantity,
			UnitPrice: FormatMoney(line.UnitPrice),
			LineTotal: FormatMoney(line.LineTotal),
		})
	}
	return resp
}
