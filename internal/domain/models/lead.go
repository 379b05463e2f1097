// internal/domain/models/lead.go
package models

import "time"

// Lead is one contact-form submission captured for a tenant. The field set
// is whatever the page's contactForm block declared, so values are kept as
// a free-form map alongside submission metadata.
type Lead struct {
	ID          string            `bson:"_id,omitempty" json:"id,omitempty"`
	FormID      string            `bson:"form_id,omitempty" json:"form_id,omitempty"` // block id of the contactForm
	PageSlug    string            `bson:"page_slug,omitempty" json:"page_slug,omitempty"`
	Fields      map[string]string `bson:"fields" json:"fields"`
	UserAgent   string            `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	RemoteIP    string            `bson:"remote_ip,omitempty" json:"remote_ip,omitempty"`
	SubmittedAt time.Time         `bson:"submitted_at" json:"submitted_at"`
}
