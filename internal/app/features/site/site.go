// internal/app/features/site/site.go
package site

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/render"
	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/store/tenantcache"
	"github.com/dalemusser/stratasite/internal/app/system/tenant"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
)

// Handler serves the public site for every tenant.
type Handler struct {
	resolver      *tenant.Resolver
	cache         *tenantcache.Cache
	assembler     *render.Assembler
	defaultTenant string
	logger        *zap.Logger
}

// NewHandler creates the public site Handler. defaultTenant, when
// non-empty, catches hosts that resolve to no tenant (single-tenant
// deployments and bare IP access).
func NewHandler(resolver *tenant.Resolver, cache *tenantcache.Cache, assembler *render.Assembler, defaultTenant string, logger *zap.Logger) *Handler {
	return &Handler{
		resolver:      resolver,
		cache:         cache,
		assembler:     assembler,
		defaultTenant: defaultTenant,
		logger:        logger,
	}
}

// Routes returns the catch-all router for public pages.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/*", h.showPage)
	return r
}

// PageVM is the view model for a rendered public page.
type PageVM struct {
	Title       string
	Description string
	OGImage     string
	SiteName    string
	ThemeCSS    template.CSS
	Body        template.HTML
	Nav         []models.NavItem
	Settings    *models.PublicSettings
	Year        int
}

func (h *Handler) showPage(w http.ResponseWriter, r *http.Request) {
	status, vm := h.build(r)
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "site/page", vm)
}

// build resolves the tenant and assembles the view model for a request.
// It never fails: anything that cannot be served degrades to a
// placeholder page with the matching status code.
func (h *Handler) build(r *http.Request) (int, PageVM) {
	ctx := r.Context()

	tenantID, ok := h.resolver.Resolve(ctx, r.Host, r.URL.Query().Get(tenant.OverrideParam))
	if !ok {
		tenantID = h.defaultTenant
	}
	if tenantID == "" {
		h.logger.Info("no tenant for host", zap.String("host", r.Host))
		return http.StatusNotFound, h.viewModel(ctx, "", nil, render.RenderUnconfigured())
	}

	settings, err := h.cache.Settings(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			h.logger.Error("settings load failed", zap.String("tenant", tenantID), zap.Error(err))
		}
		return http.StatusOK, h.viewModel(ctx, tenantID, nil, render.RenderUnconfigured())
	}

	slug, ok := slugFromPath(r.URL.Path)
	if !ok {
		return http.StatusNotFound, h.viewModel(ctx, tenantID, settings, render.RenderNotFound(settings))
	}

	page, err := h.cache.Page(ctx, tenantID, slug)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			h.logger.Error("page load failed",
				zap.String("tenant", tenantID),
				zap.String("slug", slug),
				zap.Error(err))
		}
		return http.StatusNotFound, h.viewModel(ctx, tenantID, settings, render.RenderNotFound(settings))
	}

	out := h.assembler.RenderPage(ctx, tenantID, page, settings)
	return http.StatusOK, h.viewModel(ctx, tenantID, settings, out)
}

func (h *Handler) viewModel(ctx context.Context, tenantID string, settings *models.PublicSettings, out render.Output) PageVM {
	siteName := models.DefaultSiteName
	if settings != nil && settings.Name != "" {
		siteName = settings.Name
	}

	var nav []models.NavItem
	if tenantID != "" && settings != nil {
		var err error
		nav, err = h.cache.Nav(ctx, tenantID)
		if err != nil {
			h.logger.Warn("nav load failed", zap.String("tenant", tenantID), zap.Error(err))
			nav = nil
		}
	}

	return PageVM{
		Title:       out.Meta.Title,
		Description: out.Meta.Description,
		OGImage:     out.Meta.OGImage,
		SiteName:    siteName,
		ThemeCSS:    themeCSS(settings),
		Body:        out.HTML,
		Nav:         nav,
		Settings:    settings,
		Year:        time.Now().Year(),
	}
}

// slugFromPath maps a request path to a page slug. The root path serves
// the home page; nested paths are not pages.
func slugFromPath(path string) (string, bool) {
	slug := strings.Trim(path, "/")
	if slug == "" {
		return models.HomeSlug, true
	}
	if strings.Contains(slug, "/") {
		return "", false
	}
	return slug, true
}

// themeCSS renders a tenant's theme variables as a :root rule. Variables
// are emitted in sorted order so output is stable.
func themeCSS(settings *models.PublicSettings) template.CSS {
	vars := map[string]string{
		"--color-primary": settings.ThemeColor("--color-primary", models.DefaultPrimaryColor),
	}
	if settings != nil {
		for k, v := range settings.Theme {
			if strings.HasPrefix(k, "--") && v != "" {
				vars[k] = v
			}
		}
	}

	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root{")
	for _, k := range names {
		b.WriteString(k)
		b.WriteString(":")
		b.WriteString(vars[k])
		b.WriteString(";")
	}
	b.WriteString("}")
	return template.CSS(b.String())
}
