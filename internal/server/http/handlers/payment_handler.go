package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/baabuu/storefront/internal/adapter/gateway"
	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
	"github.com/baabuu/storefront/internal/server/http/dto"
)

// PaymentHandler covers payment initiation and gateway callbacks.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

type initiatePaymentRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// Initiate handles POST /api/payment/:method/initiate.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	userID := CurrentUserID(c)
	method, ok := model.ParsePaymentMethod(c.Param("method"))
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	var req initiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	session, err := h.facade.InitiatePayment(c.Request.Context(), userID, req.OrderID, method)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrOrderNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrNotEligible):
			c.Status(http.StatusConflict)
		case errors.Is(err, domainErrors.ErrUnsupportedMethod):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrGatewayUnavailable):
			c.Status(http.StatusBadGateway)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.NewPaymentSessionResponse(session))
}

// Callback handles POST and GET /api/payment/:method/callback. Gateways
// vary in delivery: redirect flows come back as GET with query params,
// webhooks as POST with form fields or a JSON body.
func (h *PaymentHandler) Callback(c *gin.Context) {
	method, ok := model.ParsePaymentMethod(c.Param("method"))
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	order, err := h.facade.ProcessCallback(c.Request.Context(), method, collectCallback(c))
	if err != nil {
		var mismatch domainErrors.AmountMismatchError
		switch {
		case errors.Is(err, domainErrors.ErrSignatureInvalid),
			errors.Is(err, domainErrors.ErrPaymentDeclined),
			errors.As(err, &mismatch):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrGatewayUnavailable):
			c.Status(http.StatusBadGateway)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, dto.PaymentResultResponse{
		OrderID: order.ExternalID,
		Status:  string(order.Status),
	})
}

// collectCallback flattens query and form parameters and keeps the raw
// body for adapters that verify JSON payloads.
func collectCallback(c *gin.Context) gateway.Callback {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
	}

	if c.ContentType() == "application/x-www-form-urlencoded" {
		if vals, err := url.ParseQuery(string(body)); err == nil {
			for key, values := range vals {
				if len(values) > 0 {
					params[key] = values[0]
				}
			}
		}
	}

	return gateway.Callback{Params: params, Body: body}
}
