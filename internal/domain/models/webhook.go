// internal/domain/models/webhook.go
package models

import "time"

// Webhook registers an outbound notification URL for one lifecycle event of
// one tenant. Dispatch is fire-and-forget: failures are logged, never retried.
type Webhook struct {
	ID        string     `bson:"_id,omitempty" json:"id,omitempty"`
	EventType string     `bson:"event_type" json:"event_type"`
	URL       string     `bson:"url" json:"url"`
	Active    bool       `bson:"active" json:"active"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	LastFired *time.Time `bson:"last_fired,omitempty" json:"last_fired,omitempty"`
}
