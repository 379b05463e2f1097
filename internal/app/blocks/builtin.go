package blocks

import (
	"fmt"
	"strings"

	"github.com/dalemusser/stratasite/internal/app/system/fieldval"
	"github.com/dalemusser/stratasite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratasite/internal/app/system/imageurl"
)

// Builtin returns a registry populated with every standard block type.
func Builtin() *Registry {
	r := NewRegistry()
	for _, def := range builtinDefs() {
		// Builtin types are unique by construction.
		_ = r.Register(def)
	}
	return r
}

func builtinDefs() []Definition {
	return []Definition{
		{
			Type:        "hero",
			Label:       "Hero",
			Icon:        "image",
			Description: "Cabecera con imagen de fondo y llamada a la acción",
			Category:    "encabezados",
			Schema: Schema{
				"title":    {Type: FieldString, Required: true, MaxLength: 120},
				"subtitle": {Type: FieldString, MaxLength: 240},
				"image":    {Type: FieldImage},
				"ctaText":  {Type: FieldString, MaxLength: 60},
				"ctaLink":  {Type: FieldURL},
			},
			Render: renderHero,
		},
		{
			Type:        "banner",
			Label:       "Banner",
			Icon:        "megaphone",
			Description: "Franja de anuncio",
			Category:    "encabezados",
			Schema: Schema{
				"text": {Type: FieldString, Required: true, MaxLength: 200},
				"link": {Type: FieldURL},
			},
			Render: renderBanner,
		},
		{
			Type:        "richText",
			Label:       "Texto",
			Icon:        "align-left",
			Description: "Bloque de texto enriquecido",
			Category:    "contenido",
			Schema: Schema{
				"content": {Type: FieldRichText, Required: true},
			},
			Render: renderRichText,
		},
		{
			Type:        "servicesGrid",
			Label:       "Servicios",
			Icon:        "grid",
			Description: "Grilla de servicios o productos",
			Category:    "contenido",
			Schema: Schema{
				"title": {Type: FieldString, MaxLength: 120},
				"items": {Type: FieldArray, Required: true, ItemsSchema: Schema{
					"title":       {Type: FieldString, Required: true, MaxLength: 80},
					"description": {Type: FieldString, MaxLength: 300},
					"icon":        {Type: FieldString, MaxLength: 40},
				}},
			},
			Render: renderServicesGrid,
		},
		{
			Type:        "testimonials",
			Label:       "Testimonios",
			Icon:        "quote",
			Description: "Opiniones de clientes",
			Category:    "contenido",
			Schema: Schema{
				"title": {Type: FieldString, MaxLength: 120},
				"items": {Type: FieldArray, Required: true, ItemsSchema: Schema{
					"name":   {Type: FieldString, Required: true, MaxLength: 80},
					"text":   {Type: FieldString, Required: true, MaxLength: 500},
					"role":   {Type: FieldString, MaxLength: 80},
					"avatar": {Type: FieldImage},
				}},
			},
			Render: renderTestimonials,
		},
		{
			Type:        "faq",
			Label:       "Preguntas frecuentes",
			Icon:        "help-circle",
			Description: "Lista desplegable de preguntas y respuestas",
			Category:    "contenido",
			Schema: Schema{
				"title": {Type: FieldString, MaxLength: 120},
				"items": {Type: FieldArray, Required: true, ItemsSchema: Schema{
					"question": {Type: FieldString, Required: true, MaxLength: 200},
					"answer":   {Type: FieldString, Required: true, MaxLength: 1000},
				}},
			},
			Render: renderFAQ,
		},
		{
			Type:        "callToAction",
			Label:       "Llamada a la acción",
			Icon:        "zap",
			Description: "Sección destacada con botón",
			Category:    "conversión",
			Schema: Schema{
				"title":      {Type: FieldString, Required: true, MaxLength: 120},
				"text":       {Type: FieldString, MaxLength: 300},
				"buttonText": {Type: FieldString, MaxLength: 60, Default: "Contactanos"},
				"buttonLink": {Type: FieldURL},
			},
			Render: renderCallToAction,
		},
		{
			Type:        "socialLinks",
			Label:       "Redes sociales",
			Icon:        "share-2",
			Description: "Enlaces a redes sociales del sitio",
			Category:    "conversión",
			Schema: Schema{
				"title": {Type: FieldString, MaxLength: 120},
			},
			Render: renderSocialLinks,
		},
		{
			Type:        "listingsGrid",
			Label:       "Listado",
			Icon:        "layout-grid",
			Description: "Grilla de publicaciones del catálogo",
			Category:    "catálogo",
			Schema: Schema{
				"title":     {Type: FieldString, MaxLength: 120},
				"category":  {Type: FieldString, MaxLength: 60},
				"limit":     {Type: FieldNumber, Min: fptr(1), Max: fptr(50), Default: float64(12)},
				"sortField": {Type: FieldEnum, Enum: []string{"created_at", "price", "title"}, Default: "created_at"},
			},
			Render: renderListingsGrid,
		},
		{
			Type:        "contactForm",
			Label:       "Formulario de contacto",
			Icon:        "mail",
			Description: "Formulario configurable que guarda consultas",
			Category:    "conversión",
			Schema: Schema{
				"title":      {Type: FieldString, MaxLength: 120},
				"formId":     {Type: FieldString, MaxLength: 60, Default: "contact"},
				"submitText": {Type: FieldString, MaxLength: 60, Default: "Enviar"},
				"fields": {Type: FieldArray, Required: true, ItemsSchema: Schema{
					"name":     {Type: FieldString, Required: true, MaxLength: 40},
					"label":    {Type: FieldString, MaxLength: 80},
					"type":     {Type: FieldEnum, Required: true, Enum: []string{"string", "email", "url", "number", "textarea"}},
					"required": {Type: FieldBool},
				}},
			},
			Render: renderContactForm,
		},
	}
}

func fptr(f float64) *float64 { return &f }

func renderHero(ctx RenderContext, props map[string]any) (string, error) {
	title := Str(props, "title", "")
	if title == "" {
		return "", fmt.Errorf("hero: falta title")
	}

	var b strings.Builder
	b.WriteString(`<section class="section-hero"`)
	if img := Str(props, "image", ""); img != "" {
		b.WriteString(` style="background-image:url('` + esc(imageurl.Rewrite(img, imageurl.Hero)) + `')"`)
	}
	b.WriteString(`><div class="container">`)
	b.WriteString(`<h1>` + esc(title) + `</h1>`)
	if sub := Str(props, "subtitle", ""); sub != "" {
		b.WriteString(`<p class="hero-subtitle">` + esc(sub) + `</p>`)
	}
	if text := Str(props, "ctaText", ""); text != "" {
		link := Str(props, "ctaLink", "#")
		b.WriteString(`<a class="btn btn-primary" href="` + esc(link) + `">` + esc(text) + `</a>`)
	}
	b.WriteString(`</div></section>`)
	return b.String(), nil
}

func renderBanner(ctx RenderContext, props map[string]any) (string, error) {
	text := Str(props, "text", "")
	if text == "" {
		return "", fmt.Errorf("banner: falta text")
	}

	var b strings.Builder
	b.WriteString(`<div class="section-banner">`)
	if link := Str(props, "link", ""); link != "" {
		b.WriteString(`<a href="` + esc(link) + `">` + esc(text) + `</a>`)
	} else {
		b.WriteString(`<span>` + esc(text) + `</span>`)
	}
	b.WriteString(`</div>`)
	return b.String(), nil
}

func renderRichText(ctx RenderContext, props map[string]any) (string, error) {
	content := Str(props, "content", "")
	return `<section class="section-richtext"><div class="container">` +
		string(htmlsanitize.PrepareForDisplay(content)) +
		`</div></section>`, nil
}

func renderServicesGrid(ctx RenderContext, props map[string]any) (string, error) {
	var b strings.Builder
	b.WriteString(`<section class="section-services"><div class="container">`)
	writeSectionTitle(&b, props)
	b.WriteString(`<div class="services-grid">`)
	for _, item := range Items(props, "items") {
		b.WriteString(`<div class="service-card">`)
		if icon := Str(item, "icon", ""); icon != "" {
			b.WriteString(`<span class="service-icon" data-icon="` + esc(icon) + `"></span>`)
		}
		b.WriteString(`<h3>` + esc(Str(item, "title", "")) + `</h3>`)
		if desc := Str(item, "description", ""); desc != "" {
			b.WriteString(`<p>` + esc(desc) + `</p>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></div></section>`)
	return b.String(), nil
}

func renderTestimonials(ctx RenderContext, props map[string]any) (string, error) {
	var b strings.Builder
	b.WriteString(`<section class="section-testimonials"><div class="container">`)
	writeSectionTitle(&b, props)
	b.WriteString(`<div class="testimonials-grid">`)
	for _, item := range Items(props, "items") {
		b.WriteString(`<figure class="testimonial-card">`)
		if avatar := Str(item, "avatar", ""); avatar != "" {
			b.WriteString(`<img class="testimonial-avatar" src="` + esc(imageurl.Rewrite(avatar, imageurl.Card)) + `" alt="` + esc(Str(item, "name", "")) + `">`)
		}
		b.WriteString(`<blockquote>` + esc(Str(item, "text", "")) + `</blockquote>`)
		b.WriteString(`<figcaption>` + esc(Str(item, "name", "")))
		if role := Str(item, "role", ""); role != "" {
			b.WriteString(`<span class="testimonial-role">` + esc(role) + `</span>`)
		}
		b.WriteString(`</figcaption></figure>`)
	}
	b.WriteString(`</div></div></section>`)
	return b.String(), nil
}

func renderFAQ(ctx RenderContext, props map[string]any) (string, error) {
	var b strings.Builder
	b.WriteString(`<section class="section-faq"><div class="container">`)
	writeSectionTitle(&b, props)
	for _, item := range Items(props, "items") {
		b.WriteString(`<details class="faq-item"><summary>` + esc(Str(item, "question", "")) + `</summary>`)
		b.WriteString(`<p>` + esc(Str(item, "answer", "")) + `</p></details>`)
	}
	b.WriteString(`</div></section>`)
	return b.String(), nil
}

func renderCallToAction(ctx RenderContext, props map[string]any) (string, error) {
	title := Str(props, "title", "")
	if title == "" {
		return "", fmt.Errorf("callToAction: falta title")
	}

	var b strings.Builder
	b.WriteString(`<section class="section-cta"><div class="container">`)
	b.WriteString(`<h2>` + esc(title) + `</h2>`)
	if text := Str(props, "text", ""); text != "" {
		b.WriteString(`<p>` + esc(text) + `</p>`)
	}
	link := Str(props, "buttonLink", "/contacto")
	b.WriteString(`<a class="btn btn-primary" href="` + esc(link) + `">` + esc(Str(props, "buttonText", "Contactanos")) + `</a>`)
	b.WriteString(`</div></section>`)
	return b.String(), nil
}

func renderSocialLinks(ctx RenderContext, props map[string]any) (string, error) {
	var b strings.Builder
	b.WriteString(`<section class="section-social"><div class="container">`)
	writeSectionTitle(&b, props)
	b.WriteString(`<div class="social-links">`)
	if ctx.Settings != nil {
		links := ctx.Settings.Links
		for _, l := range []struct{ name, url string }{
			{"whatsapp", links.WhatsApp},
			{"instagram", links.Instagram},
			{"facebook", links.Facebook},
			{"website", links.Website},
		} {
			if l.url == "" {
				continue
			}
			b.WriteString(`<a class="social-link social-` + l.name + `" href="` + esc(l.url) + `" target="_blank" rel="noopener">` + l.name + `</a>`)
		}
	}
	b.WriteString(`</div></div></section>`)
	return b.String(), nil
}

// renderListingsGrid emits the section shell only. The page assembler
// fills the grid from the listings cache, since rendering catalog data
// needs a store lookup a plain block renderer does not get.
func renderListingsGrid(ctx RenderContext, props map[string]any) (string, error) {
	var b strings.Builder
	b.WriteString(`<section class="section-listings"><div class="container">`)
	writeSectionTitle(&b, props)
	b.WriteString(`<div class="listings-grid"></div>`)
	b.WriteString(`</div></section>`)
	return b.String(), nil
}

func renderContactForm(ctx RenderContext, props map[string]any) (string, error) {
	var b strings.Builder
	b.WriteString(`<section class="section-contact"><div class="container">`)
	writeSectionTitle(&b, props)
	b.WriteString(`<form class="contact-form" method="post" action="/api/contact">`)
	b.WriteString(`<input type="hidden" name="_form" value="` + esc(Str(props, "formId", "contact")) + `">`)
	if ctx.PageSlug != "" {
		b.WriteString(`<input type="hidden" name="_page" value="` + esc(ctx.PageSlug) + `">`)
	}
	b.WriteString(`<input type="text" name="_honey" class="contact-honey" tabindex="-1" autocomplete="off" aria-hidden="true">`)
	for _, f := range Items(props, "fields") {
		name := Str(f, "name", "")
		if name == "" {
			continue
		}
		label := Str(f, "label", name)
		req := ""
		if Flag(f, "required", false) {
			req = ` required`
		}
		b.WriteString(`<label>` + esc(label))
		switch Str(f, "type", "string") {
		case "textarea":
			b.WriteString(`<textarea name="` + esc(name) + `"` + req + `></textarea>`)
		case "email":
			b.WriteString(`<input type="email" name="` + esc(name) + `"` + req + `>`)
		case "number":
			b.WriteString(`<input type="number" name="` + esc(name) + `"` + req + `>`)
		case "url":
			b.WriteString(`<input type="url" name="` + esc(name) + `"` + req + `>`)
		default:
			b.WriteString(`<input type="text" name="` + esc(name) + `"` + req + `>`)
		}
		b.WriteString(`</label>`)
	}
	b.WriteString(`<button type="submit" class="btn btn-primary">` + esc(Str(props, "submitText", "Enviar")) + `</button>`)
	b.WriteString(`</form></div></section>`)
	return b.String(), nil
}

func writeSectionTitle(b *strings.Builder, props map[string]any) {
	if title := Str(props, "title", ""); title != "" {
		b.WriteString(`<h2 class="section-title">` + esc(title) + `</h2>`)
	}
}

// FormRules converts a contactForm block's field config into validation
// rules for submitted form data. Textarea fields validate as strings.
func FormRules(props map[string]any) map[string]fieldval.Rule {
	rules := make(map[string]fieldval.Rule)
	for _, f := range Items(props, "fields") {
		name := Str(f, "name", "")
		if name == "" {
			continue
		}
		kind := Str(f, "type", "string")
		if kind == "textarea" {
			kind = fieldval.KindString
		}
		rules[name] = fieldval.Rule{
			Type:     kind,
			Required: Flag(f, "required", false),
		}
	}
	return rules
}
