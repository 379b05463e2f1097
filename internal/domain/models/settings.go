// internal/domain/models/settings.go
package models

import "time"

// PublicSettings is the per-tenant branding and contact record. There is
// exactly one settings document per tenant; it is read on every page render
// (through the cache) and written only through the admin API.
type PublicSettings struct {
	Name     string `bson:"name" json:"name"`
	Tagline  string `bson:"tagline,omitempty" json:"tagline,omitempty"`
	Logo     string `bson:"logo,omitempty" json:"logo,omitempty"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"` // E.164, e.g. +543794286684
	Email    string `bson:"email,omitempty" json:"email,omitempty"`
	Address1 string `bson:"address1,omitempty" json:"address1,omitempty"`
	Address2 string `bson:"address2,omitempty" json:"address2,omitempty"`

	Links SocialLinks `bson:"links,omitempty" json:"links,omitempty"`

	// Theme maps CSS variable names to values, e.g. "--color-primary": "#E50914".
	Theme map[string]string `bson:"theme,omitempty" json:"theme,omitempty"`

	// Features holds per-tenant feature flags, e.g. "notify_lead_email": true.
	Features map[string]bool `bson:"features,omitempty" json:"features,omitempty"`

	// AdminPasswordHash is the bcrypt hash for the tenant's admin login.
	// Never serialized to JSON.
	AdminPasswordHash string `bson:"admin_password_hash,omitempty" json:"-"`

	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// SocialLinks holds outbound contact/social URLs for a tenant.
type SocialLinks struct {
	WhatsApp  string `bson:"whatsapp,omitempty" json:"whatsapp,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Website   string `bson:"website,omitempty" json:"website,omitempty"`
}

// FeatureEnabled reports whether a feature flag is set for this tenant.
func (s *PublicSettings) FeatureEnabled(name string) bool {
	if s == nil || s.Features == nil {
		return false
	}
	return s.Features[name]
}

// ThemeColor returns a theme variable, or fallback when unset.
func (s *PublicSettings) ThemeColor(variable, fallback string) string {
	if s == nil || s.Theme == nil {
		return fallback
	}
	if v, ok := s.Theme[variable]; ok && v != "" {
		return v
	}
	return fallback
}

// DefaultSiteName is used when a tenant has no settings document yet.
const DefaultSiteName = "Sitio"

// DefaultPrimaryColor is the fallback for the "--color-primary" theme variable.
const DefaultPrimaryColor = "#E50914"
