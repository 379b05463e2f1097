// Package render assembles published pages into HTML. The assembler
// walks a page's blocks in order, rendering each through the block
// registry, and contains every failure to its own fragment so one bad
// block never blanks a page.
package render

import (
	"context"
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/blocks"
	"github.com/dalemusser/stratasite/internal/app/store/tenantcache"
	"github.com/dalemusser/stratasite/internal/app/system/imageurl"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

// EmptyListingsMessage is shown when a grid query matches nothing.
const EmptyListingsMessage = "No hay elementos disponibles en este momento."

// PlaceholderImage is used for listings that have no media.
const PlaceholderImage = "/static/img/placeholder.svg"

// Meta is the head metadata for a rendered page.
type Meta struct {
	Title       string
	Description string
	OGImage     string
}

// Output is a fully rendered page body plus its head metadata.
type Output struct {
	HTML template.HTML
	Meta Meta
}

// Assembler renders pages block by block.
type Assembler struct {
	registry *blocks.Registry
	cache    *tenantcache.Cache
	logger   *zap.Logger
}

// New builds an assembler over a block registry and the tenant cache.
func New(registry *blocks.Registry, cache *tenantcache.Cache, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{registry: registry, cache: cache, logger: logger}
}

// RenderPage renders every block of a page, in order. Blocks that fail,
// panic, or name an unregistered type contribute an inert error
// fragment in their slot; the rest of the page renders normally.
func (a *Assembler) RenderPage(ctx context.Context, tenantID string, page *models.Page, settings *models.PublicSettings) Output {
	var b strings.Builder
	rctx := blocks.RenderContext{TenantID: tenantID, PageSlug: page.Slug, Settings: settings}

	for _, block := range page.Blocks {
		b.WriteString(a.renderBlock(ctx, rctx, block))
	}

	return Output{
		HTML: template.HTML(b.String()),
		Meta: assembleMeta(page, settings),
	}
}

func (a *Assembler) renderBlock(ctx context.Context, rctx blocks.RenderContext, block models.Block) (out string) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("block renderer panicked",
				zap.String("tenant", rctx.TenantID),
				zap.String("block_type", block.Type),
				zap.String("block_id", block.ID),
				zap.Any("panic", r))
			out = blocks.ErrorFragment(block.Type, "error interno")
		}
	}()

	def, ok := a.registry.Get(block.Type)
	if !ok {
		a.logger.Warn("unknown block type",
			zap.String("tenant", rctx.TenantID),
			zap.String("block_type", block.Type))
		return blocks.UnknownTypeFragment(block.Type)
	}

	props := def.Schema.ApplyDefaults(block.Props)

	// Pages normally pass validation when saved, but documents can reach
	// the store without going through the admin API (seeding, manual
	// edits). Invalid props render as an error fragment, never as broken
	// markup.
	if res := def.Schema.ValidateProps(props); !res.IsValid {
		a.logger.Warn("block props failed validation",
			zap.String("tenant", rctx.TenantID),
			zap.String("block_type", block.Type),
			zap.String("block_id", block.ID),
			zap.Any("errors", res.Errors))
		return blocks.ErrorFragment(block.Type, propsFailureReason(res))
	}

	// The listings grid is the one block that needs data beyond its own
	// props, so the assembler renders it against the tenant cache.
	if block.Type == "listingsGrid" {
		return a.renderListingsGrid(ctx, rctx, props)
	}

	html, err := def.Render(rctx, props)
	if err != nil {
		a.logger.Warn("block render failed",
			zap.String("tenant", rctx.TenantID),
			zap.String("block_type", block.Type),
			zap.String("block_id", block.ID),
			zap.Error(err))
		return blocks.ErrorFragment(block.Type, err.Error())
	}
	return html
}

// propsFailureReason summarizes a validation result for the error
// fragment. The alphabetically first failing field keeps the message
// stable for a given document.
func propsFailureReason(res blocks.Result) string {
	keys := make([]string, 0, len(res.Errors))
	for k := range res.Errors {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "propiedades inválidas"
	}
	sort.Strings(keys)
	return fmt.Sprintf("propiedades inválidas (%s: %s)", keys[0], res.Errors[keys[0]])
}

func (a *Assembler) renderListingsGrid(ctx context.Context, rctx blocks.RenderContext, props map[string]any) string {
	q := tenantcache.ListingsQuery{
		Category:  blocks.Str(props, "category", ""),
		SortField: blocks.Str(props, "sortField", "created_at"),
		Limit:     int64(blocks.Num(props, "limit", 12)),
	}
	// Newest first for the default sort; price and title read naturally
	// ascending.
	q.Descending = q.SortField == "created_at"

	listings, err := a.cache.Listings(ctx, rctx.TenantID, q)
	if err != nil {
		a.logger.Warn("listings load failed",
			zap.String("tenant", rctx.TenantID),
			zap.Error(err))
		return blocks.ErrorFragment("listingsGrid", "no se pudieron cargar los listados")
	}

	var b strings.Builder
	b.WriteString(`<section class="section-listings"><div class="container">`)
	if title := blocks.Str(props, "title", ""); title != "" {
		b.WriteString(`<h2 class="section-title">` + esc(title) + `</h2>`)
	}
	if len(listings) == 0 {
		b.WriteString(`<p class="listings-empty">` + EmptyListingsMessage + `</p>`)
	} else {
		b.WriteString(`<div class="listings-grid">`)
		for i := range listings {
			writeListingCard(&b, &listings[i])
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></section>`)
	return b.String()
}

func writeListingCard(b *strings.Builder, l *models.Listing) {
	img := l.Image()
	if img == "" {
		img = PlaceholderImage
	} else {
		img = imageurl.Rewrite(img, imageurl.Card)
	}

	b.WriteString(`<article class="listing-card">`)
	b.WriteString(`<img src="` + esc(img) + `" alt="` + esc(l.Title) + `" loading="lazy">`)
	b.WriteString(`<h3>` + esc(l.Title) + `</h3>`)
	if l.Subtitle != "" {
		b.WriteString(`<p class="listing-subtitle">` + esc(l.Subtitle) + `</p>`)
	}
	if l.Description != "" {
		b.WriteString(`<p class="listing-description">` + esc(l.Description) + `</p>`)
	}
	if l.Price > 0 {
		b.WriteString(`<p class="listing-price">` + esc(FormatPrice(l.Price)) + `</p>`)
	}
	b.WriteString(`</article>`)
}

func assembleMeta(page *models.Page, settings *models.PublicSettings) Meta {
	siteName := models.DefaultSiteName
	tagline, logo := "", ""
	if settings != nil {
		if settings.Name != "" {
			siteName = settings.Name
		}
		tagline = settings.Tagline
		logo = settings.Logo
	}

	m := Meta{Title: siteName, Description: tagline, OGImage: logo}
	if page.Meta.Title != "" {
		m.Title = page.Meta.Title + " | " + siteName
	}
	if page.Meta.Description != "" {
		m.Description = page.Meta.Description
	}
	if page.Meta.OGImage != "" {
		m.OGImage = page.Meta.OGImage
	}
	return m
}

// RenderNotFound produces the body for an unknown or unpublished slug.
func RenderNotFound(settings *models.PublicSettings) Output {
	siteName := models.DefaultSiteName
	if settings != nil && settings.Name != "" {
		siteName = settings.Name
	}
	body := `<section class="section-notfound"><div class="container">` +
		`<h1>Página no encontrada</h1>` +
		`<p>La página que buscás no existe o ya no está disponible.</p>` +
		`<a class="btn btn-primary" href="/">Volver al inicio</a>` +
		`</div></section>`
	return Output{
		HTML: template.HTML(body),
		Meta: Meta{Title: fmt.Sprintf("Página no encontrada | %s", siteName)},
	}
}

// RenderUnconfigured produces the body for a resolved tenant that has
// no settings document yet.
func RenderUnconfigured() Output {
	body := `<section class="section-unconfigured"><div class="container">` +
		`<h1>Sitio en construcción</h1>` +
		`<p>Este sitio todavía no fue configurado.</p>` +
		`</div></section>`
	return Output{
		HTML: template.HTML(body),
		Meta: Meta{Title: "Sitio en construcción"},
	}
}

func esc(s string) string { return html.EscapeString(s) }
