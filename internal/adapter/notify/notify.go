package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/baabuu/storefront/internal/domain/model"
)

// WebhookNotifier delivers order confirmations to an external endpoint,
// typically a mail relay. Delivery is best-effort: callers log failures
// and never roll an order back over a lost confirmation.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

type orderPlacedEvent struct {
	Event            string `json:"event"`
	OrderID          string `json:"order_id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Total            string `json:"total"`
	ItemCount        int64  `json:"item_count"`
	PaymentMethod    string `json:"payment_method"`
	DeliveryEstimate string `json:"delivery_estimate"`
}

// NewWebhookNotifier constructs a notifier posting to the given URL.
func NewWebhookNotifier(url string, logger *slog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		logger: logger,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// OrderPlaced posts a confirmation event for a freshly committed order.
func (n *WebhookNotifier) OrderPlaced(ctx context.Context, order *model.Order, address *model.Address) error {
	event := orderPlacedEvent{
		Event:            "order_placed",
		OrderID:          order.ExternalID,
		Email:            address.Email,
		Name:             address.FirstName + " " + address.LastName,
		Total:            order.TotalAmount.String(),
		ItemCount:        order.ItemCount,
		PaymentMethod:    string(order.PaymentMethod),
		DeliveryEstimate: order.DeliveryEstimate.Format("2006-01-02"),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notify webhook: %s", resp.Status)
	}
	return nil
}
