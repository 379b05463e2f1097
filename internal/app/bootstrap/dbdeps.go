// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/stratasite/internal/app/blocks"
	"github.com/dalemusser/stratasite/internal/app/render"
	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/store/tenantcache"
	"github.com/dalemusser/stratasite/internal/app/system/events"
	"github.com/dalemusser/stratasite/internal/app/system/mailer"
	"github.com/dalemusser/stratasite/internal/app/system/notify"
	"github.com/dalemusser/stratasite/internal/app/system/tenant"
	"github.com/dalemusser/stratasite/internal/app/system/uploadsign"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to subsequent lifecycle
// hooks: EnsureSchema, Startup, BuildHandler, and Shutdown. Everything
// built here is shared between Startup (event subscriptions, background
// jobs) and BuildHandler (HTTP wiring), so the single instances created
// in ConnectDB are the ones the whole app uses.
//
// The Shutdown hook is responsible for closing connections gracefully
// when the application terminates.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Docs is the tenant-scoped document store backed by MongoDatabase.
	Docs docstore.Store

	// Cache fronts Docs for the public render path.
	Cache *tenantcache.Cache

	// Bus carries content lifecycle events (page.published, etc.).
	Bus *events.Bus

	// Resolver maps request hosts to tenant ids.
	Resolver *tenant.Resolver

	// Registry holds the built-in block palette.
	Registry *blocks.Registry

	// Assembler renders pages from blocks.
	Assembler *render.Assembler

	// Dispatcher delivers registered webhooks for bus events.
	Dispatcher *notify.Dispatcher

	// Signer issues Cloudinary direct-upload tickets (may be disabled).
	Signer *uploadsign.Signer

	// Mailer sends lead notification emails (may be disabled).
	Mailer *mailer.Mailer
}
