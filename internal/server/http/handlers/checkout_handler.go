package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
	"github.com/baabuu/storefront/internal/server/http/dto"
)

// CheckoutHandler places orders from the current cart.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Place handles POST /api/checkout/place.
func (h *CheckoutHandler) Place(c *gin.Context) {
	userID := CurrentUserID(c)
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	method, ok := model.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), userID, method)
	if err != nil {
		var stockErr domainErrors.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			c.JSON(http.StatusConflict, dto.InsufficientStockResponse{
				Error:     "insufficient stock",
				ProductID: stockErr.Variant.ProductID,
				Size:      stockErr.Variant.Size,
				Color:     stockErr.Variant.Color,
				Requested: stockErr.Requested,
				Available: stockErr.Available,
			})
		case errors.Is(err, domainErrors.ErrEmptyCart):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrMissingAddress):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrUnknownVariant):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.NewOrderResponse(order))
}
