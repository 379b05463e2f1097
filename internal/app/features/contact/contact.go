// internal/app/features/contact/contact.go
package contact

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/blocks"
	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/store/tenantcache"
	"github.com/dalemusser/stratasite/internal/app/system/events"
	"github.com/dalemusser/stratasite/internal/app/system/fieldval"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/network"
	"github.com/dalemusser/stratasite/internal/app/system/tenant"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

// maxBodyBytes caps a contact submission. Forms are small; anything
// bigger is abuse.
const maxBodyBytes = 64 << 10

// SuccessMessage is returned to the visitor after a stored submission.
const SuccessMessage = "¡Listo! Recibimos tu mensaje. Te respondemos a la brevedad."

// Handler accepts public contact-form submissions.
type Handler struct {
	resolver      *tenant.Resolver
	cache         *tenantcache.Cache
	docs          docstore.Store
	bus           *events.Bus
	defaultTenant string
	logger        *zap.Logger
	now           func() time.Time
}

// NewHandler creates the contact Handler.
func NewHandler(resolver *tenant.Resolver, cache *tenantcache.Cache, docs docstore.Store, bus *events.Bus, defaultTenant string, logger *zap.Logger) *Handler {
	return &Handler{
		resolver:      resolver,
		cache:         cache,
		docs:          docs,
		bus:           bus,
		defaultTenant: defaultTenant,
		logger:        logger,
		now:           time.Now,
	}
}

// Routes returns the router for the public contact endpoint.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.submit)
	return r
}

// submission is a parsed contact post, from either a JSON body or a
// regular form post.
type submission struct {
	PageSlug string
	FormID   string
	Honey    string
	Fields   map[string]string
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := h.resolver.Resolve(ctx, r.Host, r.URL.Query().Get(tenant.OverrideParam))
	if !ok {
		tenantID = h.defaultTenant
	}
	if tenantID == "" {
		jsonutil.NotFound(w, "Sitio no encontrado")
		return
	}

	sub, err := parseSubmission(w, r)
	if err != nil {
		jsonutil.BadRequest(w, "No se pudo leer el formulario")
		return
	}

	// A filled honeypot means a bot. Pretend success and store nothing.
	if sub.Honey != "" {
		jsonutil.OK(w, map[string]any{"ok": true, "message": SuccessMessage})
		return
	}

	if sub.PageSlug == "" {
		sub.PageSlug = models.HomeSlug
	}

	page, err := h.cache.Page(ctx, tenantID, sub.PageSlug)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			jsonutil.NotFound(w, "Página no encontrada")
			return
		}
		h.logger.Error("contact page load failed",
			zap.String("tenant", tenantID),
			zap.String("slug", sub.PageSlug),
			zap.Error(err))
		jsonutil.InternalError(w, "No pudimos enviar el formulario. Intentá nuevamente en unos minutos.")
		return
	}

	form, ok := findForm(page, sub.FormID)
	if !ok {
		jsonutil.BadRequest(w, "Formulario desconocido")
		return
	}

	rules := blocks.FormRules(form.Props)
	data := make(map[string]any, len(sub.Fields))
	for k, v := range sub.Fields {
		data[k] = v
	}
	res := fieldval.ValidateFields(data, rules)
	if !res.IsValid {
		jsonutil.ValidationError(w, res.Errors)
		return
	}

	// Keep only the fields the form declares; anything else in the post
	// is noise.
	fields := make(map[string]string, len(rules))
	for name := range rules {
		if v, ok := sub.Fields[name]; ok {
			fields[name] = strings.TrimSpace(v)
		}
	}

	lead := models.Lead{
		FormID:      blocks.Str(form.Props, "formId", "contact"),
		PageSlug:    sub.PageSlug,
		Fields:      fields,
		UserAgent:   r.UserAgent(),
		RemoteIP:    network.ClientIP(r),
		SubmittedAt: h.now().UTC(),
	}
	doc, err := docstore.Encode(lead)
	if err != nil {
		h.logger.Error("lead encode failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "No pudimos enviar el formulario. Intentá nuevamente en unos minutos.")
		return
	}
	leadID, err := h.docs.AddDocument(ctx, docstore.Path(tenantID, docstore.CollLeads), doc)
	if err != nil {
		h.logger.Error("lead store failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "No pudimos enviar el formulario. Intentá nuevamente en unos minutos.")
		return
	}

	h.bus.Emit(events.FormSubmitted, events.Payload{
		"tenantId": tenantID,
		"leadId":   leadID,
		"pageSlug": sub.PageSlug,
		"formId":   lead.FormID,
		"fields":   fields,
	})

	jsonutil.OK(w, map[string]any{"ok": true, "message": SuccessMessage})
}

// parseSubmission reads a contact post. The rendered form posts
// urlencoded; API clients may post JSON instead.
func parseSubmission(w http.ResponseWriter, r *http.Request) (submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Page   string            `json:"page"`
			Form   string            `json:"form"`
			Honey  string            `json:"_honey"`
			Fields map[string]string `json:"fields"`
		}
		if err := jsonutil.Decode(r, &body); err != nil {
			return submission{}, err
		}
		if body.Fields == nil {
			body.Fields = map[string]string{}
		}
		return submission{PageSlug: body.Page, FormID: body.Form, Honey: body.Honey, Fields: body.Fields}, nil
	}

	if err := r.ParseForm(); err != nil {
		return submission{}, err
	}
	sub := submission{
		PageSlug: r.PostForm.Get("_page"),
		FormID:   r.PostForm.Get("_form"),
		Honey:    r.PostForm.Get("_honey"),
		Fields:   make(map[string]string),
	}
	for name, values := range r.PostForm {
		if strings.HasPrefix(name, "_") || len(values) == 0 {
			continue
		}
		sub.Fields[name] = values[0]
	}
	return sub, nil
}

// findForm locates the contactForm block a submission targets. An empty
// form id matches the page's first contact form.
func findForm(page *models.Page, formID string) (models.Block, bool) {
	for _, b := range page.Blocks {
		if b.Type != "contactForm" {
			continue
		}
		if formID == "" || formID == blocks.Str(b.Props, "formId", "contact") || formID == b.ID {
			return b, true
		}
	}
	return models.Block{}, false
}
