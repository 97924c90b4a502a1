package dto

import "github.com/baabuu/storefront/internal/adapter/gateway"

// PaymentSessionResponse is the payload of POST /api/payment/:method/initiate.
// Fields carry gateway-specific values: signed form fields for redirect
// methods, the client secret for card.
type PaymentSessionResponse struct {
	TransactionID string            `json:"transaction_id"`
	RedirectURL   string            `json:"redirect_url,omitempty"`
	Fields        map[string]string `json:"fields,omitempty"`
}

// PaymentResultResponse reports the reconciled order after a callback.
type PaymentResultResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// NewPaymentSessionResponse maps a gateway session.
func NewPaymentSessionResponse(session *gateway.Session) PaymentSessionResponse {
	return PaymentSessionResponse{
		TransactionID: session.TransactionID,
		RedirectURL:   session.RedirectURL,
		Fields:        session.Fields,
	}
}
