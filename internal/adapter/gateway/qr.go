package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
	"github.com/baabuu/storefront/internal/pkg/sign"
)

// signedFieldNames is the ordered field set covered by the redirect
// gateway's HMAC signature.
const signedFieldNames = "total_amount,transaction_uuid,product_code"

// QRConfig configures the redirect-based regional gateway.
type QRConfig struct {
	Address         string // form post target the client is redirected to
	Secret          string
	ProductCode     string
	CallbackBaseURL string
}

// QRAdapter implements the redirect flow: the client is sent to the
// gateway with a signed form, and the gateway confirms via a callback
// carrying a base64-encoded JSON payload plus a signature that is
// recomputed and compared here.
type QRAdapter struct {
	cfg    QRConfig
	logger *slog.Logger
}

// qrCallbackPayload mirrors the decoded callback JSON.
type qrCallbackPayload struct {
	TransactionUUID string `json:"transaction_uuid"`
	TotalAmount     string `json:"total_amount"`
	ProductCode     string `json:"product_code"`
	Status          string `json:"status"`
	Signature       string `json:"signature"`
	RefID           string `json:"ref_id"`
}

// NewQRAdapter constructs the redirect gateway adapter.
func NewQRAdapter(cfg QRConfig, logger *slog.Logger) *QRAdapter {
	return &QRAdapter{cfg: cfg, logger: logger}
}

func (a *QRAdapter) Method() model.PaymentMethod {
	return model.PaymentMethodQR
}

// Prepare builds the signed form field set the client posts to the gateway.
func (a *QRAdapter) Prepare(ctx context.Context, req PrepareRequest) (*Session, error) {
	amount := FormatAmount(req.Amount.Amount)
	signature := a.sign(amount, req.TransactionID)

	fields := map[string]string{
		"amount":                  amount,
		"tax_amount":              "0",
		"product_service_charge":  "0",
		"product_delivery_charge": "0",
		"total_amount":            amount,
		"transaction_uuid":        req.TransactionID,
		"product_code":            a.cfg.ProductCode,
		"success_url":             a.cfg.CallbackBaseURL + "/api/payment/qr/callback",
		"failure_url":             a.cfg.CallbackBaseURL + "/api/payment/qr/callback",
		"signed_field_names":      signedFieldNames,
		"signature":               signature,
	}

	return &Session{
		TransactionID: req.TransactionID,
		RedirectURL:   a.cfg.Address,
		Fields:        fields,
	}, nil
}

// CallbackTransactionID decodes the callback payload just far enough to
// identify the local transaction. Nothing else is trusted at this point.
func (a *QRAdapter) CallbackTransactionID(cb Callback) (string, error) {
	payload, err := a.decode(cb)
	if err != nil {
		return "", err
	}
	if payload.TransactionUUID == "" {
		return "", fmt.Errorf("callback without transaction_uuid")
	}
	return payload.TransactionUUID, nil
}

// Verify recomputes the signature over normalized fields and checks the
// gateway-reported status. The amount inside the signature message is
// normalized to the canonical representation first, so "100" and "100.0"
// sign identically.
func (a *QRAdapter) Verify(ctx context.Context, cb Callback) (*Verification, error) {
	payload, err := a.decode(cb)
	if err != nil {
		return nil, err
	}

	if payload.TransactionUUID == "" || payload.TotalAmount == "" || payload.ProductCode == "" || payload.Signature == "" {
		return nil, fmt.Errorf("%w: incomplete callback payload", domainErrors.ErrSignatureInvalid)
	}

	minor, err := NormalizeAmount(payload.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrSignatureInvalid, err)
	}

	expected := a.sign(FormatAmount(minor), payload.TransactionUUID)
	if !sign.Equal(expected, payload.Signature) {
		a.logger.Error("qr signature mismatch",
			slog.String("transaction_id", payload.TransactionUUID),
			slog.String("total_amount", payload.TotalAmount),
		)
		return nil, domainErrors.ErrSignatureInvalid
	}

	if payload.Status != "COMPLETE" {
		return nil, fmt.Errorf("%w: gateway status %s", domainErrors.ErrPaymentDeclined, payload.Status)
	}

	return &Verification{
		TransactionID: payload.TransactionUUID,
		Amount:        minor,
		ExternalRef:   payload.RefID,
	}, nil
}

func (a *QRAdapter) decode(cb Callback) (*qrCallbackPayload, error) {
	encoded, ok := cb.Params["data"]
	if !ok || encoded == "" {
		return nil, fmt.Errorf("callback without data parameter")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode callback payload: %w", err)
	}

	var payload qrCallbackPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse callback payload: %w", err)
	}
	return &payload, nil
}

func (a *QRAdapter) sign(amount, transactionID string) string {
	message := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		amount, transactionID, a.cfg.ProductCode)
	return sign.HMACSHA256([]byte(a.cfg.Secret), message)
}
