package dto

import (
	"github.com/baabuu/storefront/internal/domain/model"
)

// AddCartItemRequest is the payload of POST /api/cart.
type AddCartItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest is the payload of PATCH /api/cart/:id.
type UpdateCartItemRequest struct {
	Quantity int64  `json:"quantity" binding:"required"`
	Size     string `json:"size" binding:"required"`
	Color    string `json:"color" binding:"required"`
}

// CartItemResponse is one cart line with display prices.
type CartItemResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// CartResponse aggregates the cart for GET /api/cart.
type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int64              `json:"item_count"`
	Subtotal  string             `json:"subtotal"`
	Shipping  string             `json:"shipping"`
	Total     string             `json:"total"`
	Currency  string             `json:"currency"`
}

// NewCartItemResponse maps a cart line.
func NewCartItemResponse(item model.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:        item.ID,
		ProductID: item.Variant.ProductID,
		Size:      item.Variant.Size,
		Color:     item.Variant.Color,
		Quantity:  item.Quantity,
		UnitPrice: FormatMoney(item.UnitPrice),
		LineTotal: FormatMoney(item.LineTotal()),
	}
}

// NewCartResponse maps a cart summary.
func NewCartResponse(summary *model.CartSummary) CartResponse {
	items := make([]CartItemResponse, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, NewCartItemResponse(item))
	}
	return CartResponse{
		Items:     items,
		ItemCount: summary.ItemCount,
		Subtotal:  FormatMoney(summary.Subtotal),
		Shipping:  FormatMoney(summary.Shipping),
		Total:     FormatMoney(summary.Total),
		Currency:  summary.Currency,
	}
}
