// internal/app/features/adminapi/pages.go
package adminapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/system/events"
	"github.com/dalemusser/stratasite/internal/app/system/inputval"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

func (h *Handler) listPages(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)

	docs, err := h.docs.QueryCollection(r.Context(), docstore.Path(tenantID, docstore.CollPages), docstore.Query{
		OrderBy: "slug",
	})
	if err != nil {
		h.logger.Error("page list failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	pages := make([]models.Page, 0, len(docs))
	for _, d := range docs {
		var p models.Page
		if err := docstore.Decode(d, &p); err != nil {
			h.logger.Error("page decode failed", zap.String("tenant", tenantID), zap.Error(err))
			jsonutil.InternalError(w, "Error interno")
			return
		}
		pages = append(pages, p)
	}
	jsonutil.OK(w, map[string]any{"pages": pages})
}

func (h *Handler) getPage(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)
	slug := chi.URLParam(r, "slug")

	page, err := h.loadPage(r, tenantID, slug)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			jsonutil.NotFound(w, "Página no encontrada")
			return
		}
		h.logger.Error("page load failed", zap.String("tenant", tenantID), zap.String("slug", slug), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}
	jsonutil.OK(w, page)
}

type savePageInput struct {
	Status string          `json:"status" validate:"required,oneof=draft published" label:"Estado"`
	Meta   models.PageMeta `json:"meta"`
	Nav    models.NavEntry `json:"nav"`
	Blocks []models.Block  `json:"blocks"`
}

func (h *Handler) savePage(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)
	slug := chi.URLParam(r, "slug")

	if !inputval.IsValidSlug(slug) {
		jsonutil.ValidationError(w, map[string]string{"slug": "Slug inválido"})
		return
	}

	var in savePageInput
	if err := jsonutil.DecodeLimited(w, r, &in, maxBodyBytes); err != nil {
		jsonutil.BadRequest(w, "Cuerpo inválido")
		return
	}

	if res := inputval.Validate(&in); res.HasErrors() {
		jsonutil.ValidationError(w, res.Fields())
		return
	}
	if fields := h.validateBlocks(in.Blocks); len(fields) > 0 {
		jsonutil.ValidationError(w, fields)
		return
	}

	// Blocks added by the editor arrive without ids.
	for i := range in.Blocks {
		if in.Blocks[i].ID == "" {
			in.Blocks[i].ID = uuid.NewString()
		}
	}

	now := h.now().UTC()
	page := models.Page{
		Slug:      slug,
		Status:    in.Status,
		Meta:      in.Meta,
		Nav:       in.Nav,
		Blocks:    in.Blocks,
		UpdatedAt: &now,
	}
	doc, err := docstore.Encode(page)
	if err != nil {
		h.logger.Error("page encode failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}
	if err := h.docs.SetDocument(r.Context(), docstore.Path(tenantID, docstore.CollPages), slug, doc, false); err != nil {
		h.logger.Error("page save failed", zap.String("tenant", tenantID), zap.String("slug", slug), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	h.cache.InvalidatePage(tenantID, slug)
	if page.IsPublished() {
		h.emitPagePublished(tenantID, slug)
	}

	h.logger.Info("page saved",
		zap.String("tenant", tenantID),
		zap.String("slug", slug),
		zap.String("status", page.Status),
		zap.Int("blocks", len(page.Blocks)))
	jsonutil.OK(w, page)
}

func (h *Handler) publishPage(w http.ResponseWriter, r *http.Request) {
	h.setPageStatus(w, r, models.PageStatusPublished)
}

func (h *Handler) unpublishPage(w http.ResponseWriter, r *http.Request) {
	h.setPageStatus(w, r, models.PageStatusDraft)
}

func (h *Handler) setPageStatus(w http.ResponseWriter, r *http.Request, status string) {
	tenantID := h.tenantOf(r)
	slug := chi.URLParam(r, "slug")

	if _, err := h.loadPage(r, tenantID, slug); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			jsonutil.NotFound(w, "Página no encontrada")
			return
		}
		h.logger.Error("page load failed", zap.String("tenant", tenantID), zap.String("slug", slug), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	now := h.now().UTC()
	patch := docstore.Doc{"status": status, "updated_at": now}
	if err := h.docs.SetDocument(r.Context(), docstore.Path(tenantID, docstore.CollPages), slug, patch, true); err != nil {
		h.logger.Error("page status change failed", zap.String("tenant", tenantID), zap.String("slug", slug), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	h.cache.InvalidatePage(tenantID, slug)
	if status == models.PageStatusPublished {
		h.emitPagePublished(tenantID, slug)
	}

	h.logger.Info("page status changed",
		zap.String("tenant", tenantID),
		zap.String("slug", slug),
		zap.String("status", status))
	jsonutil.OK(w, map[string]any{"slug": slug, "status": status})
}

func (h *Handler) deletePage(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)
	slug := chi.URLParam(r, "slug")

	err := h.docs.DeleteDocument(r.Context(), docstore.Path(tenantID, docstore.CollPages), slug)
	if err != nil {
		h.logger.Error("page delete failed", zap.String("tenant", tenantID), zap.String("slug", slug), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	h.cache.InvalidatePage(tenantID, slug)
	h.logger.Info("page deleted", zap.String("tenant", tenantID), zap.String("slug", slug))
	jsonutil.NoContent(w)
}

func (h *Handler) loadPage(r *http.Request, tenantID, slug string) (*models.Page, error) {
	doc, err := h.docs.GetDocument(r.Context(), docstore.Path(tenantID, docstore.CollPages), slug)
	if err != nil {
		return nil, err
	}
	var p models.Page
	if err := docstore.Decode(doc, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// validateBlocks checks every block's type and props against the
// registry. Errors are keyed blocks.N.field so the editor can point at
// the offending block.
func (h *Handler) validateBlocks(blks []models.Block) map[string]string {
	fields := make(map[string]string)
	for i, b := range blks {
		def, ok := h.registry.Get(b.Type)
		if !ok {
			fields[fmt.Sprintf("blocks.%d.type", i)] = "Tipo de bloque desconocido: " + b.Type
			continue
		}
		res := def.Schema.ValidateProps(b.Props)
		for field, msg := range res.Errors {
			fields[fmt.Sprintf("blocks.%d.%s", i, field)] = msg
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (h *Handler) emitPagePublished(tenantID, slug string) {
	h.bus.Emit(events.PagePublished, events.Payload{
		"tenantId": tenantID,
		"slug":     slug,
	})
}
