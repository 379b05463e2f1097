// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request body size limits.
// AppConfig is where everything specific to this application lives:
// tenant routing, the content cache, upload signing, and outbound
// notification settings.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Tenant routing configuration
	TenantHosts   string // Host-to-tenant map, e.g. "acme.com=acme,www.acme.com=acme"
	DefaultTenant string // Tenant served when the host is unmapped (blank disables the fallback)

	// Per-tenant content cache
	CacheTTL time.Duration // How long settings/pages/listings stay cached (default: 5m)

	// Admin session configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for admin sessions (default: stratasite-admin)
	SessionMaxAge time.Duration // Maximum session cookie lifetime (default: 24h)

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// Cloudinary direct-upload signing (blank disables upload signing)
	CloudinaryCloud  string // Cloudinary cloud name
	CloudinaryKey    string // Cloudinary API key
	CloudinarySecret string // Cloudinary API secret

	// Email/SMTP configuration for lead notifications
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@example.com)
	MailFromName string // From display name (e.g., StrataSite)

	// Outbound webhook delivery
	WebhookTimeout time.Duration // Per-delivery HTTP timeout (default: 10s)

	// Base URL for absolute links in notifications
	BaseURL string // e.g., "https://example.com" or "http://localhost:8080"

	// Demo tenant seeding (blank disables seeding)
	SeedTenant   string // Tenant id to seed with demo content on startup
	SeedPassword string // Admin password for the seeded tenant
}
