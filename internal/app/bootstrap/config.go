// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/tenant"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
// Change this constant when forking stratasite for a new project.
const EnvVarPrefix = "STRATASITE"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, tenant_hosts, etc.
//   - Environment variables: STRATASITE_MONGO_URI, STRATASITE_TENANT_HOSTS, etc.
//   - Command-line flags: --mongo_uri, --tenant_hosts, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "stratasite", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Tenant routing
	{Name: "tenant_hosts", Default: "", Desc: "Host-to-tenant map, e.g. 'acme.com=acme,www.acme.com=acme'"},
	{Name: "default_tenant", Default: "", Desc: "Tenant served for unmapped hosts (blank disables fallback)"},

	// Content cache
	{Name: "cache_ttl", Default: "5m", Desc: "Per-tenant content cache TTL (e.g., 5m, 30s)"},

	// Admin sessions
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "stratasite-admin", Desc: "Admin session cookie name"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	// Cloudinary upload signing
	{Name: "cloudinary_cloud", Default: "", Desc: "Cloudinary cloud name (blank disables upload signing)"},
	{Name: "cloudinary_key", Default: "", Desc: "Cloudinary API key"},
	{Name: "cloudinary_secret", Default: "", Desc: "Cloudinary API secret"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank disables email)"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@example.com", Desc: "From email address"},
	{Name: "mail_from_name", Default: "StrataSite", Desc: "From display name"},

	// Outbound webhooks
	{Name: "webhook_timeout", Default: "10s", Desc: "Per-delivery webhook HTTP timeout"},

	// Base URL for absolute links in notifications
	{Name: "base_url", Default: "http://localhost:8080", Desc: "Base URL for links in notifications"},

	// Demo tenant seeding
	{Name: "seed_tenant", Default: "", Desc: "Tenant id to seed with demo content on startup (blank disables)"},
	{Name: "seed_password", Default: "", Desc: "Admin password for the seeded tenant"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, STRATASITE_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		TenantHosts:   appValues.String("tenant_hosts"),
		DefaultTenant: appValues.String("default_tenant"),

		CacheTTL: appValues.Duration("cache_ttl", 5*time.Minute),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		CSRFKey: appValues.String("csrf_key"),

		CloudinaryCloud:  appValues.String("cloudinary_cloud"),
		CloudinaryKey:    appValues.String("cloudinary_key"),
		CloudinarySecret: appValues.String("cloudinary_secret"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		WebhookTimeout: appValues.Duration("webhook_timeout", 10*time.Second),

		BaseURL: appValues.String("base_url"),

		SeedTenant:   appValues.String("seed_tenant"),
		SeedPassword: appValues.String("seed_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if _, err := tenant.ParseHostMap(appCfg.TenantHosts); err != nil {
		logger.Error("invalid tenant_hosts", zap.Error(err))
		return fmt.Errorf("invalid tenant_hosts: %w", err)
	}

	// Cloudinary credentials come as a set; a partial set is a
	// misconfiguration, not a disabled feature.
	cloudinarySet := 0
	for _, v := range []string{appCfg.CloudinaryCloud, appCfg.CloudinaryKey, appCfg.CloudinarySecret} {
		if v != "" {
			cloudinarySet++
		}
	}
	if cloudinarySet != 0 && cloudinarySet != 3 {
		return fmt.Errorf("cloudinary config incomplete: cloudinary_cloud, cloudinary_key, and cloudinary_secret must all be set together")
	}

	if appCfg.SeedTenant != "" && appCfg.SeedPassword == "" {
		return fmt.Errorf("seed_tenant is set but seed_password is empty")
	}

	return nil
}
