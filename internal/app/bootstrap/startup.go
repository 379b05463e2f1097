// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/stratasite/internal/app/system/events"
	"github.com/dalemusser/stratasite/internal/app/system/mailer"
	"github.com/dalemusser/stratasite/internal/app/system/seeding"
	"github.com/dalemusser/stratasite/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// notifyTimeout bounds the out-of-band work a single event triggers
// (webhook deliveries plus the lead email).
const notifyTimeout = 30 * time.Second

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// This is the place for one-time initialization that depends on having live
// database connections and fully loaded configuration:
//   - Seed the demo tenant when configured
//   - Subscribe webhook delivery and lead emails to the event bus
//   - Start the background task runner (cache sweeping)
//
// Returning a non-nil error aborts startup and prevents the server from
// starting.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SeedTenant != "" {
		if err := seeding.SeedDemoTenant(ctx, deps.Docs, appCfg.SeedTenant, appCfg.SeedPassword, logger); err != nil {
			logger.Error("failed to seed demo tenant", zap.String("tenant", appCfg.SeedTenant), zap.Error(err))
			return err
		}
	}

	subscribeNotifications(deps, logger)

	startTaskRunner(deps, logger)

	return nil
}

// subscribeNotifications wires the event bus to outbound delivery. The bus
// runs handlers synchronously inside the request that emitted the event, so
// anything that touches the network moves to a goroutine here.
func subscribeNotifications(deps DBDeps, logger *zap.Logger) {
	dispatch := func(eventType string, payload events.Payload) {
		tenantID, _ := payload["tenantId"].(string)
		if tenantID == "" {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			deps.Dispatcher.DispatchRegistered(ctx, tenantID, eventType, payload)
		}()
	}
	for _, ev := range []string{events.PagePublished, events.FormSubmitted, events.ListingUpdated} {
		deps.Bus.On(ev, dispatch)
	}

	// Lead notification email, gated per tenant by the notify_lead_email
	// feature flag.
	deps.Bus.On(events.FormSubmitted, func(_ string, payload events.Payload) {
		if !deps.Mailer.Enabled() {
			return
		}
		tenantID, _ := payload["tenantId"].(string)
		fields, _ := payload["fields"].(map[string]string)
		pageSlug, _ := payload["pageSlug"].(string)
		if tenantID == "" {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()

			settings, err := deps.Cache.Settings(ctx, tenantID)
			if err != nil {
				logger.Warn("lead email skipped: settings unavailable",
					zap.String("tenant", tenantID), zap.Error(err))
				return
			}
			if !settings.FeatureEnabled("notify_lead_email") || settings.Email == "" {
				return
			}

			email := mailer.LeadNotification(settings.Name, pageSlug, fields)
			email.To = settings.Email
			if err := deps.Mailer.Send(email); err != nil {
				logger.Warn("lead email send failed",
					zap.String("tenant", tenantID),
					zap.String("to", settings.Email),
					zap.Error(err))
			}
		}()
	})
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(deps DBDeps, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	// Drop expired cache entries so memory tracks the working set.
	taskRunner.Register(tasks.CacheSweepJob(deps.Cache, logger))

	taskRunner.Start()
}
