// internal/domain/models/listing.go
package models

import "time"

// Listing statuses.
const (
	ListingStatusDraft     = "draft"
	ListingStatusPublished = "published"
	ListingStatusArchived  = "archived"
)

// Listing is a tenant-scoped content record (a vehicle, product, service,
// etc.) surfaced by the listingsGrid block. Listings are queried by equality
// filters plus a single-field sort and limit, and never across tenants.
type Listing struct {
	ID          string         `bson:"_id,omitempty" json:"id,omitempty"`
	Status      string         `bson:"status" json:"status"`
	Category    string         `bson:"category,omitempty" json:"category,omitempty"`
	Title       string         `bson:"title" json:"title"`
	Subtitle    string         `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64        `bson:"price,omitempty" json:"price,omitempty"`
	Attributes  map[string]any `bson:"attributes,omitempty" json:"attributes,omitempty"`
	MainImage   string         `bson:"main_image,omitempty" json:"main_image,omitempty"`
	Media       []MediaRef     `bson:"media,omitempty" json:"media,omitempty"`
	CreatedAt   time.Time      `bson:"created_at" json:"created_at"`
}

// MediaRef points at a hosted image or file for a listing.
type MediaRef struct {
	URL  string `bson:"url" json:"url"`
	Kind string `bson:"kind,omitempty" json:"kind,omitempty"` // "image", "video", ...
	Alt  string `bson:"alt,omitempty" json:"alt,omitempty"`
}

// Image returns the best available image URL for the listing: the main
// image when set, otherwise the first media entry. Empty when neither exists.
func (l *Listing) Image() string {
	if l.MainImage != "" {
		return l.MainImage
	}
	for _, m := range l.Media {
		if m.URL != "" {
			return m.URL
		}
	}
	return ""
}
