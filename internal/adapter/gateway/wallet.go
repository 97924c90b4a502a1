package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
)

// WalletConfig configures the wallet gateway (server-side initiate plus
// server-side lookup verification).
type WalletConfig struct {
	Address         string
	Secret          string
	CallbackBaseURL string
}

// WalletAdapter issues a payment session via the gateway's initiate
// endpoint and verifies callbacks with an authoritative lookup call
// rather than trusting callback parameters.
type WalletAdapter struct {
	baseURL    *url.URL
	secret     string
	callback   string
	httpClient *http.Client
	logger     *slog.Logger
}

type walletInitiateRequest struct {
	ReturnURL         string `json:"return_url"`
	WebsiteURL        string `json:"website_url"`
	Amount            int64  `json:"amount"`
	PurchaseOrderID   string `json:"purchase_order_id"`
	PurchaseOrderName string `json:"purchase_order_name"`
}

type walletInitiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
}

type walletLookupRequest struct {
	Pidx string `json:"pidx"`
}

type walletLookupResponse struct {
	Pidx          string `json:"pidx"`
	Status        string `json:"status"`
	TotalAmount   int64  `json:"total_amount"`
	TransactionID string `json:"transaction_id"`
}

// NewWalletAdapter constructs the wallet adapter.
func NewWalletAdapter(cfg WalletConfig, logger *slog.Logger) (*WalletAdapter, error) {
	parsed, err := url.Parse(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("parse wallet gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("wallet gateway url must be absolute")
	}
	return &WalletAdapter{
		baseURL:  parsed,
		secret:   cfg.Secret,
		callback: cfg.CallbackBaseURL + "/api/payment/wallet/callback",
		logger:   logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (a *WalletAdapter) Method() model.PaymentMethod {
	return model.PaymentMethodWallet
}

// Prepare opens a payment session at the gateway. The wallet API works in
// minor units natively, so the amount passes through unscaled.
func (a *WalletAdapter) Prepare(ctx context.Context, req PrepareRequest) (*Session, error) {
	body := walletInitiateRequest{
		ReturnURL:         a.callback,
		WebsiteURL:        a.callback,
		Amount:            req.Amount.Amount,
		PurchaseOrderID:   req.TransactionID,
		PurchaseOrderName: "Order " + req.OrderExternalID,
	}

	var resp walletInitiateResponse
	if err := a.post(ctx, "/api/epayment/initiate/", body, &resp); err != nil {
		return nil, err
	}
	if resp.Pidx == "" || resp.PaymentURL == "" {
		return nil, fmt.Errorf("%w: initiate response missing pidx", domainErrors.ErrGatewayUnavailable)
	}

	return &Session{
		TransactionID: req.TransactionID,
		ExternalRef:   resp.Pidx,
		RedirectURL:   resp.PaymentURL,
	}, nil
}

func (a *WalletAdapter) CallbackTransactionID(cb Callback) (string, error) {
	txn, ok := cb.Params["purchase_order_id"]
	if !ok || txn == "" {
		return "", fmt.Errorf("callback without purchase_order_id")
	}
	return txn, nil
}

// Verify performs the authoritative status lookup. Pending statuses are
// retryable; refused statuses are terminal.
func (a *WalletAdapter) Verify(ctx context.Context, cb Callback) (*Verification, error) {
	pidx, ok := cb.Params["pidx"]
	if !ok || pidx == "" {
		return nil, fmt.Errorf("%w: callback without pidx", domainErrors.ErrSignatureInvalid)
	}

	txn, err := a.CallbackTransactionID(cb)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrSignatureInvalid, err)
	}

	var resp walletLookupResponse
	if err := a.post(ctx, "/api/epayment/lookup/", walletLookupRequest{Pidx: pidx}, &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case "Completed":
		return &Verification{
			TransactionID: txn,
			Amount:        resp.TotalAmount,
			ExternalRef:   resp.TransactionID,
		}, nil
	case "Pending", "Initiated":
		return nil, fmt.Errorf("%w: lookup status %s", domainErrors.ErrGatewayUnavailable, resp.Status)
	default:
		a.logger.Warn("wallet payment refused",
			slog.String("transaction_id", txn),
			slog.String("status", resp.Status),
		)
		return nil, fmt.Errorf("%w: lookup status %s", domainErrors.ErrPaymentDeclined, resp.Status)
	}
}

func (a *WalletAdapter) post(ctx context.Context, path string, body, out any) error {
	endpoint := *a.baseURL
	endpoint.Path = path

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Key "+a.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domainErrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %s", domainErrors.ErrGatewayUnavailable, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		a.logger.Error("wallet request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return fmt.Errorf("wallet gateway error: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
