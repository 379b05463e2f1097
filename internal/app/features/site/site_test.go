package site

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/blocks"
	"github.com/dalemusser/stratasite/internal/app/render"
	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/store/tenantcache"
	"github.com/dalemusser/stratasite/internal/app/system/tenant"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/stratasite/internal/testutil"
)

func newTestHandler(t *testing.T, docs *testutil.MemDocs, defaultTenant string) *Handler {
	t.Helper()
	logger := zap.NewNop()
	cache := tenantcache.New(docs, time.Minute, logger)
	assembler := render.New(blocks.Builtin(), cache, logger)
	resolver := tenant.NewStatic(map[string]string{"acme.example.com": "acme"}, logger)
	return NewHandler(resolver, cache, assembler, defaultTenant, logger)
}

func seedSite(t *testing.T, docs *testutil.MemDocs, tenantID string) {
	t.Helper()
	docs.SeedModel(t, docstore.Path(tenantID, docstore.CollSettings), docstore.SettingsDocID, models.PublicSettings{
		Name:  "Acme Propiedades",
		Theme: map[string]string{"--color-primary": "#336699"},
	})
	docs.SeedModel(t, docstore.Path(tenantID, docstore.CollPages), models.HomeSlug, models.Page{
		Slug:   models.HomeSlug,
		Status: models.PageStatusPublished,
		Meta:   models.PageMeta{Title: "Inicio"},
		Blocks: []models.Block{
			{ID: "b1", Type: "richText", Props: map[string]any{"content": "<p>Bienvenidos</p>"}},
		},
	})
}

func TestBuild_ServesPublishedHomePage(t *testing.T) {
	docs := testutil.NewMemDocs()
	seedSite(t, docs, "acme")
	h := newTestHandler(t, docs, "")

	r := httptest.NewRequest("GET", "http://acme.example.com/", nil)
	status, vm := h.build(r)

	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if vm.Title != "Inicio | Acme Propiedades" {
		t.Errorf("Title = %q", vm.Title)
	}
	if vm.SiteName != "Acme Propiedades" {
		t.Errorf("SiteName = %q", vm.SiteName)
	}
	if !strings.Contains(string(vm.Body), "Bienvenidos") {
		t.Errorf("Body missing block content: %s", vm.Body)
	}
	if !strings.Contains(string(vm.ThemeCSS), "--color-primary:#336699") {
		t.Errorf("ThemeCSS = %q", vm.ThemeCSS)
	}
}

func TestBuild_UnknownSlugIs404(t *testing.T) {
	docs := testutil.NewMemDocs()
	seedSite(t, docs, "acme")
	h := newTestHandler(t, docs, "")

	r := httptest.NewRequest("GET", "http://acme.example.com/no-existe", nil)
	status, vm := h.build(r)

	if status != 404 {
		t.Fatalf("status = %d, want 404", status)
	}
	if !strings.Contains(string(vm.Body), "Página no encontrada") {
		t.Errorf("Body = %s", vm.Body)
	}
	// Branding from settings still applies to the 404 page.
	if vm.SiteName != "Acme Propiedades" {
		t.Errorf("SiteName = %q", vm.SiteName)
	}
}

func TestBuild_UnmappedHostWithoutDefaultTenant(t *testing.T) {
	docs := testutil.NewMemDocs()
	h := newTestHandler(t, docs, "")

	r := httptest.NewRequest("GET", "http://otro.example.com/", nil)
	status, vm := h.build(r)

	if status != 404 {
		t.Fatalf("status = %d, want 404", status)
	}
	if !strings.Contains(string(vm.Body), "Sitio en construcción") {
		t.Errorf("Body = %s", vm.Body)
	}
}

func TestBuild_UnmappedHostFallsBackToDefaultTenant(t *testing.T) {
	docs := testutil.NewMemDocs()
	seedSite(t, docs, "acme")
	h := newTestHandler(t, docs, "acme")

	r := httptest.NewRequest("GET", "http://127.0.0.1/", nil)
	status, vm := h.build(r)

	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if vm.SiteName != "Acme Propiedades" {
		t.Errorf("SiteName = %q", vm.SiteName)
	}
}

func TestBuild_OverrideParamWins(t *testing.T) {
	docs := testutil.NewMemDocs()
	seedSite(t, docs, "otro")
	h := newTestHandler(t, docs, "")

	r := httptest.NewRequest("GET", "http://acme.example.com/?client=otro", nil)
	status, vm := h.build(r)

	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	// Only tenant "otro" has data, so reaching settings at all proves
	// the override beat the host mapping.
	if vm.Settings == nil {
		t.Fatalf("Settings = nil, body: %s", vm.Body)
	}
}

func TestBuild_TenantWithoutSettingsGetsPlaceholder(t *testing.T) {
	docs := testutil.NewMemDocs()
	h := newTestHandler(t, docs, "")

	r := httptest.NewRequest("GET", "http://acme.example.com/", nil)
	status, vm := h.build(r)

	if status != 200 {
		t.Fatalf("status = %d, want 200", status)
	}
	if !strings.Contains(string(vm.Body), "Sitio en construcción") {
		t.Errorf("Body = %s", vm.Body)
	}
}

func TestBuild_NavListsPublishedOptInPages(t *testing.T) {
	docs := testutil.NewMemDocs()
	seedSite(t, docs, "acme")
	docs.SeedModel(t, docstore.Path("acme", docstore.CollPages), "contacto", models.Page{
		Slug:   "contacto",
		Status: models.PageStatusPublished,
		Nav:    models.NavEntry{Label: "Contacto", Order: 1, ShowInNav: true},
	})
	h := newTestHandler(t, docs, "")

	r := httptest.NewRequest("GET", "http://acme.example.com/", nil)
	_, vm := h.build(r)

	if len(vm.Nav) != 1 || vm.Nav[0].Slug != "contacto" {
		t.Errorf("Nav = %+v", vm.Nav)
	}
}

func TestSlugFromPath(t *testing.T) {
	tests := []struct {
		path string
		slug string
		ok   bool
	}{
		{"/", models.HomeSlug, true},
		{"", models.HomeSlug, true},
		{"/contacto", "contacto", true},
		{"/contacto/", "contacto", true},
		{"/a/b", "", false},
	}
	for _, tt := range tests {
		slug, ok := slugFromPath(tt.path)
		if slug != tt.slug || ok != tt.ok {
			t.Errorf("slugFromPath(%q) = (%q, %v), want (%q, %v)", tt.path, slug, ok, tt.slug, tt.ok)
		}
	}
}

func TestThemeCSS_DefaultsWhenUnset(t *testing.T) {
	css := string(themeCSS(nil))
	if !strings.Contains(css, "--color-primary:"+models.DefaultPrimaryColor) {
		t.Errorf("themeCSS(nil) = %q", css)
	}

	css = string(themeCSS(&models.PublicSettings{Theme: map[string]string{
		"--color-primary": "#112233",
		"--color-accent":  "#445566",
		"not-a-variable":  "ignored",
	}}))
	if !strings.Contains(css, "--color-primary:#112233") {
		t.Errorf("themeCSS override missing: %q", css)
	}
	if !strings.Contains(css, "--color-accent:#445566") {
		t.Errorf("themeCSS accent missing: %q", css)
	}
	if strings.Contains(css, "not-a-variable") {
		t.Errorf("non-variable key leaked: %q", css)
	}
}
