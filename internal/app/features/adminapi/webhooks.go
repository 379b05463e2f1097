// internal/app/features/adminapi/webhooks.go
package adminapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/system/inputval"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

func (h *Handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)

	docs, err := h.docs.QueryCollection(r.Context(), docstore.Path(tenantID, docstore.CollWebhooks), docstore.Query{
		OrderBy: "created_at",
	})
	if err != nil {
		h.logger.Error("webhook list failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	hooks := make([]models.Webhook, 0, len(docs))
	for _, d := range docs {
		var wh models.Webhook
		if err := docstore.Decode(d, &wh); err != nil {
			h.logger.Error("webhook decode failed", zap.String("tenant", tenantID), zap.Error(err))
			jsonutil.InternalError(w, "Error interno")
			return
		}
		hooks = append(hooks, wh)
	}
	jsonutil.OK(w, map[string]any{"webhooks": hooks})
}

type createWebhookInput struct {
	EventType string `json:"event_type" validate:"required,oneof=page.published form.submitted listing.updated" label:"Evento"`
	URL       string `json:"url" validate:"required,httpurl" label:"URL"`
}

func (h *Handler) createWebhook(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)

	var in createWebhookInput
	if err := jsonutil.DecodeLimited(w, r, &in, maxBodyBytes); err != nil {
		jsonutil.BadRequest(w, "Cuerpo inválido")
		return
	}
	if res := inputval.Validate(&in); res.HasErrors() {
		jsonutil.ValidationError(w, res.Fields())
		return
	}

	hook := models.Webhook{
		EventType: in.EventType,
		URL:       in.URL,
		Active:    true,
		CreatedAt: h.now().UTC(),
	}
	doc, err := docstore.Encode(hook)
	if err != nil {
		h.logger.Error("webhook encode failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}
	id, err := h.docs.AddDocument(r.Context(), docstore.Path(tenantID, docstore.CollWebhooks), doc)
	if err != nil {
		h.logger.Error("webhook create failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}
	hook.ID = id

	h.logger.Info("webhook registered",
		zap.String("tenant", tenantID),
		zap.String("event", hook.EventType),
		zap.String("url", hook.URL))
	jsonutil.Created(w, hook)
}

func (h *Handler) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)
	id := chi.URLParam(r, "id")

	err := h.docs.DeleteDocument(r.Context(), docstore.Path(tenantID, docstore.CollWebhooks), id)
	if err != nil {
		h.logger.Error("webhook delete failed", zap.String("tenant", tenantID), zap.String("id", id), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	h.logger.Info("webhook deleted", zap.String("tenant", tenantID), zap.String("id", id))
	jsonutil.NoContent(w)
}
