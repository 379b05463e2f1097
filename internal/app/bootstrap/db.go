// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/stratasite/internal/app/blocks"
	"github.com/dalemusser/stratasite/internal/app/render"
	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/store/tenantcache"
	"github.com/dalemusser/stratasite/internal/app/system/events"
	"github.com/dalemusser/stratasite/internal/app/system/indexes"
	"github.com/dalemusser/stratasite/internal/app/system/mailer"
	"github.com/dalemusser/stratasite/internal/app/system/notify"
	"github.com/dalemusser/stratasite/internal/app/system/tenant"
	"github.com/dalemusser/stratasite/internal/app/system/uploadsign"
	"github.com/dalemusser/stratasite/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and builds the shared backend dependencies.
//
// WAFFLE calls this after configuration is loaded but before EnsureSchema
// and Startup. Besides the database connection itself, the document store,
// content cache, event bus, tenant resolver, and page assembler are all
// created here so that Startup and BuildHandler operate on the same
// instances.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	// Configure MongoDB connection pool
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return DBDeps{}, err
	}

	db := client.Database(appCfg.MongoDatabase)

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)

	docs := docstore.NewMongo(db, logger)
	cache := tenantcache.New(docs, appCfg.CacheTTL, logger)
	bus := events.New(logger)

	// Host-to-tenant routing. ValidateConfig already rejected malformed
	// maps, so the error here is unreachable in practice.
	hosts, err := tenant.ParseHostMap(appCfg.TenantHosts)
	if err != nil {
		return DBDeps{}, err
	}
	resolver := tenant.NewStatic(hosts, logger)
	logger.Info("tenant routing configured",
		zap.Int("mapped_hosts", len(hosts)),
		zap.String("default_tenant", appCfg.DefaultTenant),
	)

	registry := blocks.Builtin()
	assembler := render.New(registry, cache, logger)

	dispatcher := notify.New(docs, appCfg.WebhookTimeout, logger)

	signer := uploadsign.New(uploadsign.Config{
		CloudName: appCfg.CloudinaryCloud,
		APIKey:    appCfg.CloudinaryKey,
		APISecret: appCfg.CloudinarySecret,
	})
	if signer.Enabled() {
		logger.Info("Cloudinary upload signing enabled", zap.String("cloud", appCfg.CloudinaryCloud))
	}

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)
	if mail.Enabled() {
		logger.Info("email mailer enabled",
			zap.String("host", appCfg.MailSMTPHost),
			zap.Int("port", appCfg.MailSMTPPort),
		)
	}

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Docs:          docs,
		Cache:         cache,
		Bus:           bus,
		Resolver:      resolver,
		Registry:      registry,
		Assembler:     assembler,
		Dispatcher:    dispatcher,
		Signer:        signer,
		Mailer:        mail,
	}, nil
}

// EnsureSchema sets up collections and indexes.
//
// This runs after ConnectDB succeeds but before Startup and before the
// HTTP handler is built. The context has a timeout based on
// coreCfg.IndexBootTimeout, so long-running work should respect context
// cancellation.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	// Ensure collections exist and attach JSON-Schema validators.
	// This runs first so indexes can be created on existing collections.
	logger.Info("ensuring collections and validators")
	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure validators", zap.Error(err))
		return err
	}

	// Ensure database indexes for query performance.
	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}

	logger.Info("database schema ensured successfully")
	return nil
}
