package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"catering/internal/domain/booking"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Webhook posts each booking as JSON to an automation endpoint.
type Webhook struct {
	url        string
	httpClient *http.Client
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Notify treats any 2xx as success unless the body says otherwise.
func (w *Webhook) Notify(ctx context.Context, n booking.Notification) (booking.NotifyResult, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return booking.NotifyResult{}, fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return booking.NotifyResult{}, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Booking-Reference", n.BookingReference)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return booking.NotifyResult{}, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return booking.NotifyResult{Success: false, Error: fmt.Sprintf("webhook returned status %d", resp.StatusCode)}, nil
	}

	var res booking.NotifyResult
	if len(bytes.TrimSpace(raw)) == 0 || json.Unmarshal(raw, &res) != nil {
		return booking.NotifyResult{Success: true}, nil
	}
	return res, nil
}
