// internal/domain/models/page.go
package models

import "time"

// Page statuses.
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

// Page is an editable content page belonging to one tenant, identified by
// (tenantID, slug). A page is an ordered list of typed blocks; only pages
// with status "published" are ever served to anonymous readers.
type Page struct {
	Slug      string     `bson:"slug" json:"slug"`
	Status    string     `bson:"status" json:"status"` // "draft" or "published"
	Meta      PageMeta   `bson:"meta,omitempty" json:"meta,omitempty"`
	Nav       NavEntry   `bson:"nav,omitempty" json:"nav,omitempty"`
	Blocks    []Block    `bson:"blocks,omitempty" json:"blocks,omitempty"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// PageMeta holds the head metadata for a page.
type PageMeta struct {
	Title       string `bson:"title,omitempty" json:"title,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	OGImage     string `bson:"og_image,omitempty" json:"og_image,omitempty"`
}

// NavEntry controls a page's placement in the site navigation.
type NavEntry struct {
	Label     string `bson:"label,omitempty" json:"label,omitempty"`
	Order     int    `bson:"order" json:"order"`
	ShowInNav bool   `bson:"show_in_nav" json:"show_in_nav"`
}

// Block is one typed unit of page content. Type must name a definition in
// the block registry; Props must satisfy that definition's schema. Blocks
// render in array order, and one block's failure never aborts its siblings.
type Block struct {
	ID    string         `bson:"id" json:"id"`
	Type  string         `bson:"type" json:"type"`
	Props map[string]any `bson:"props,omitempty" json:"props,omitempty"`
}

// NavItem is one computed entry of a tenant's site navigation, derived
// from the published pages that opt into the nav.
type NavItem struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
	Order int    `json:"order"`
}

// IsPublished reports whether the page may be shown to anonymous readers.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// HomeSlug is the slug served for the site root path.
const HomeSlug = "home"
