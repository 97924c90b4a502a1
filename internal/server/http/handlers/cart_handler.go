package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
	"github.com/baabuu/storefront/internal/server/http/dto"
)

// CartHandler manages cart endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(c *gin.Context) {
	userID := CurrentUserID(c)
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	variant := model.VariantKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color}
	item, err := h.facade.AddCartItem(c.Request.Context(), userID, variant, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidQuantity):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrUnknownVariant):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.NewCartItemResponse(*item))
}

// Update handles PATCH /api/cart/:id.
func (h *CartHandler) Update(c *gin.Context) {
	userID := CurrentUserID(c)
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.UpdateCartItem(c.Request.Context(), userID, itemID, req.Quantity, req.Size, req.Color); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidQuantity):
			c.Status(http.StatusBadRequest)
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.Status(http.StatusOK)
}

// Remove handles DELETE /api/cart/:id.
func (h *CartHandler) Remove(c *gin.Context) {
	userID := CurrentUserID(c)
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.RemoveCartItem(c.Request.Context(), userID, itemID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusNoContent)
}

// List handles GET /api/cart. The optional currency query converts
// display totals; on rate provider failure amounts stay in base currency.
func (h *CartHandler) List(c *gin.Context) {
	userID := CurrentUserID(c)
	summary, err := h.facade.Cart(c.Request.Context(), userID, c.Query("currency"))
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, dto.NewCartResponse(summary))
}
