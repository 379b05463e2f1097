// Package adminapi is the session-authenticated JSON API tenant admins
// use to edit their site: pages, settings, listings, webhooks, leads,
// and signed upload tickets.
//
// Every route requires an admin session for the tenant the request's
// host (or override) resolves to. Writes invalidate the tenant cache so
// the public site picks them up immediately, and emit lifecycle events
// for webhook dispatch.
package adminapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/blocks"
	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/store/tenantcache"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/events"
	"github.com/dalemusser/stratasite/internal/app/system/tenant"
	"github.com/dalemusser/stratasite/internal/app/system/uploadsign"
)

// maxBodyBytes caps an admin API request body. Pages with many blocks
// fit comfortably; bulk media does not belong here.
const maxBodyBytes = 1 << 20

// Handler implements the admin JSON API.
type Handler struct {
	docs          docstore.Store
	cache         *tenantcache.Cache
	registry      *blocks.Registry
	bus           *events.Bus
	signer        *uploadsign.Signer
	resolver      *tenant.Resolver
	defaultTenant string
	logger        *zap.Logger
	now           func() time.Time
}

// NewHandler creates the adminapi Handler.
func NewHandler(docs docstore.Store, cache *tenantcache.Cache, registry *blocks.Registry, bus *events.Bus, signer *uploadsign.Signer, resolver *tenant.Resolver, defaultTenant string, logger *zap.Logger) *Handler {
	return &Handler{
		docs:          docs,
		cache:         cache,
		registry:      registry,
		bus:           bus,
		signer:        signer,
		resolver:      resolver,
		defaultTenant: defaultTenant,
		logger:        logger,
		now:           time.Now,
	}
}

// Routes returns the admin API router, mounted under /api/admin.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(auth.RequireAdmin(h.tenantOf))

	r.Get("/pages", h.listPages)
	r.Get("/pages/{slug}", h.getPage)
	r.Put("/pages/{slug}", h.savePage)
	r.Post("/pages/{slug}/publish", h.publishPage)
	r.Post("/pages/{slug}/unpublish", h.unpublishPage)
	r.Delete("/pages/{slug}", h.deletePage)

	r.Get("/settings", h.getSettings)
	r.Put("/settings", h.saveSettings)
	r.Put("/settings/password", h.changePassword)

	r.Get("/listings", h.listListings)
	r.Post("/listings", h.createListing)
	r.Put("/listings/{id}", h.updateListing)
	r.Delete("/listings/{id}", h.deleteListing)

	r.Get("/leads", h.listLeads)

	r.Get("/webhooks", h.listWebhooks)
	r.Post("/webhooks", h.createWebhook)
	r.Delete("/webhooks/{id}", h.deleteWebhook)

	r.Get("/blocks", h.listBlockTypes)

	r.Post("/uploads/sign", h.signUpload)

	return r
}

// tenantOf resolves the tenant an admin request addresses. RequireAdmin
// compares it against the session's tenant claim.
func (h *Handler) tenantOf(r *http.Request) string {
	tenantID, ok := h.resolver.Resolve(r.Context(), r.Host, r.URL.Query().Get(tenant.OverrideParam))
	if !ok {
		return h.defaultTenant
	}
	return tenantID
}
