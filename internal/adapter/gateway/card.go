package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"encoding/json"

	domainErrors "github.com/baabuu/storefront/internal/domain/errors"
	"github.com/baabuu/storefront/internal/domain/model"
)

// CardConfig configures the token-based card gateway.
type CardConfig struct {
	Address string
	Secret  string
}

// CardAdapter implements the token flow: Prepare creates a payment intent
// server-side and hands the client secret to the browser; Verify retrieves
// the intent and confirms it reached a terminal successful state.
type CardAdapter struct {
	baseURL    *url.URL
	secret     string
	httpClient *http.Client
	logger     *slog.Logger
}

type cardIntent struct {
	ID             string `json:"id"`
	ClientSecret   string `json:"client_secret"`
	Status         string `json:"status"`
	AmountReceived int64  `json:"amount_received"`
	Metadata       struct {
		TransactionID string `json:"transaction_id"`
	} `json:"metadata"`
}

// NewCardAdapter constructs the card adapter.
func NewCardAdapter(cfg CardConfig, logger *slog.Logger) (*CardAdapter, error) {
	parsed, err := url.Parse(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("parse card gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("card gateway url must be absolute")
	}
	return &CardAdapter{
		baseURL: parsed,
		secret:  cfg.Secret,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (a *CardAdapter) Method() model.PaymentMethod {
	return model.PaymentMethodCard
}

// Prepare creates an intent for the canonical minor-unit amount.
func (a *CardAdapter) Prepare(ctx context.Context, req PrepareRequest) (*Session, error) {
	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", req.Amount.Amount))
	form.Set("currency", strings.ToLower(req.Amount.Currency))
	form.Set("metadata[transaction_id]", req.TransactionID)

	intent, err := a.do(ctx, http.MethodPost, "/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	return &Session{
		TransactionID: req.TransactionID,
		ExternalRef:   intent.ID,
		Fields: map[string]string{
			"client_secret": intent.ClientSecret,
		},
	}, nil
}

func (a *CardAdapter) CallbackTransactionID(cb Callback) (string, error) {
	txn, ok := cb.Params["transaction_id"]
	if !ok || txn == "" {
		return "", fmt.Errorf("callback without transaction_id")
	}
	return txn, nil
}

// Verify retrieves the intent named in the callback and checks it
// succeeded for the transaction it claims to settle.
func (a *CardAdapter) Verify(ctx context.Context, cb Callback) (*Verification, error) {
	intentID, ok := cb.Params["payment_intent_id"]
	if !ok || intentID == "" {
		return nil, fmt.Errorf("%w: callback without payment_intent_id", domainErrors.ErrSignatureInvalid)
	}

	txn, err := a.CallbackTransactionID(cb)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrSignatureInvalid, err)
	}

	intent, err := a.do(ctx, http.MethodGet, "/v1/payment_intents/"+intentID, nil)
	if err != nil {
		return nil, err
	}

	if intent.Metadata.TransactionID != txn {
		a.logger.Error("card intent transaction mismatch",
			slog.String("transaction_id", txn),
			slog.String("intent_transaction_id", intent.Metadata.TransactionID),
		)
		return nil, domainErrors.ErrSignatureInvalid
	}

	switch intent.Status {
	case "succeeded":
		return &Verification{
			TransactionID: txn,
			Amount:        intent.AmountReceived,
			ExternalRef:   intent.ID,
		}, nil
	case "processing", "requires_action", "requires_confirmation":
		return nil, fmt.Errorf("%w: intent status %s", domainErrors.ErrGatewayUnavailable, intent.Status)
	default:
		return nil, fmt.Errorf("%w: intent status %s", domainErrors.ErrPaymentDeclined, intent.Status)
	}
}

func (a *CardAdapter) do(ctx context.Context, method, path string, body io.Reader) (*cardIntent, error) {
	endpoint := *a.baseURL
	endpoint.Path = path

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrGatewayUnavailable, resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		a.logger.Error("card request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(raw)))
		return nil, fmt.Errorf("card gateway error: %s", resp.Status)
	}

	var intent cardIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
