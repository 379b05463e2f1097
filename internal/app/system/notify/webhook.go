// Package notify delivers outbound notifications for content events:
// webhooks registered per tenant and lead notification emails.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

// DefaultTimeout bounds a single webhook delivery.
const DefaultTimeout = 10 * time.Second

// Dispatcher posts event payloads to registered webhook endpoints.
// Delivery is best effort: failures are logged, never retried, and
// never block the write path that triggered them.
type Dispatcher struct {
	docs   docstore.Store
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// New builds a dispatcher. A non-positive timeout selects DefaultTimeout.
func New(docs docstore.Store, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		docs:   docs,
		client: &http.Client{Timeout: timeout},
		logger: logger,
		now:    time.Now,
	}
}

// SendWebhook posts one event payload to a URL. The body is
// {"event": ..., "timestamp": RFC3339, "data": ...}.
func (d *Dispatcher) SendWebhook(ctx context.Context, url, eventType string, data map[string]any) error {
	body, err := json.Marshal(map[string]any{
		"event":     eventType,
		"timestamp": d.now().UTC().Format(time.RFC3339),
		"data":      data,
	})
	if err != nil {
		return fmt.Errorf("notify: marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "stratasite-webhook/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notify: webhook endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// DispatchRegistered loads the tenant's active webhooks for an event
// type and fires each one. Returns how many deliveries succeeded.
func (d *Dispatcher) DispatchRegistered(ctx context.Context, tenantID, eventType string, data map[string]any) int {
	docs, err := d.docs.QueryCollection(ctx, docstore.Path(tenantID, docstore.CollWebhooks), docstore.Query{
		Filters: map[string]any{"event_type": eventType, "active": true},
	})
	if err != nil {
		d.logger.Warn("webhook lookup failed",
			zap.String("tenant", tenantID),
			zap.String("event", eventType),
			zap.Error(err))
		return 0
	}

	delivered := 0
	for _, doc := range docs {
		var hook models.Webhook
		if err := docstore.Decode(doc, &hook); err != nil {
			d.logger.Warn("bad webhook document", zap.String("tenant", tenantID), zap.Error(err))
			continue
		}
		if err := d.SendWebhook(ctx, hook.URL, eventType, data); err != nil {
			d.logger.Warn("webhook delivery failed",
				zap.String("tenant", tenantID),
				zap.String("event", eventType),
				zap.String("url", hook.URL),
				zap.Error(err))
			continue
		}
		delivered++
		d.markFired(ctx, tenantID, hook.ID)
	}
	return delivered
}

// markFired stamps last_fired on a webhook. Failure here is harmless.
func (d *Dispatcher) markFired(ctx context.Context, tenantID, hookID string) {
	if hookID == "" {
		return
	}
	err := d.docs.SetDocument(ctx, docstore.Path(tenantID, docstore.CollWebhooks), hookID,
		docstore.Doc{"last_fired": d.now().UTC()}, true)
	if err != nil {
		d.logger.Debug("webhook last_fired update failed", zap.String("tenant", tenantID), zap.Error(err))
	}
}
