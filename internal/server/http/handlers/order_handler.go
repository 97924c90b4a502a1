package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/server/http/dto"
)

// OrderHandler exposes order history and lifecycle transitions.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	orders, err := h.facade.Orders(c.Request.Context(), userID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, dto.NewOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/order/:order_id.
func (h *OrderHandler) Get(c *gin.Context) {
	userID := CurrentUserID(c)
	order, lines, err := h.facade.Order(c.Request.Context(), userID, c.Param("order_id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrOrderNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.NewOrderDetailResponse(order, lines))
}

// Cancel handles POST /api/order/:order_id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.facade.CancelOrder)
}

// Return handles POST /api/order/:order_id/return.
func (h *OrderHandler) Return(c *gin.Context) {
	h.transition(c, h.facade.ReturnOrder)
}

func (h *OrderHandler) transition(c *gin.Context, op func(ctx context.Context, userID int64, externalID string) error) {
	userID := CurrentUserID(c)
	if err := op(c.Request.Context(), userID, c.Param("order_id")); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrOrderNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrNotEligible):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}
