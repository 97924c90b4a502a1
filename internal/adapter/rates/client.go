package rates

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ErrRateUnavailable signals the provider could not deliver a rate.
// Callers fall back to base-currency display; this is a documented
// degraded mode, not a fatal error.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// Source exposes a single currency pair lookup.
type Source interface {
	Rate(ctx context.Context, base, quote string) (decimal.Decimal, error)
}

// HTTPClient queries an external rate provider over HTTP.
type HTTPClient struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors the provider's JSON payload: {"data":{"USD":0.01203}}.
type response struct {
	Data map[string]float64 `json:"data"`
}

// NewHTTPClient creates a rate client with a bounded timeout.
func NewHTTPClient(baseURL, apiKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse rates url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("rates url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Rate fetches the base->quote conversion rate.
func (c *HTTPClient) Rate(ctx context.Context, base, quote string) (decimal.Decimal, error) {
	endpoint := *c.baseURL
	endpoint.Path = "/v1/latest"
	query := endpoint.Query()
	query.Set("apikey", c.apiKey)
	query.Set("base_currency", base)
	query.Set("currencies", quote)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("rate request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return decimal.Zero, fmt.Errorf("%w: %s", ErrRateUnavailable, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrRateUnavailable, err)
	}

	var data response
	if err := json.Unmarshal(body, &data); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrRateUnavailable, err)
	}

	rate, ok := data.Data[quote]
	if !ok || rate <= 0 {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", ErrRateUnavailable, quote)
	}

	return decimal.NewFromFloat(rate), nil
}
