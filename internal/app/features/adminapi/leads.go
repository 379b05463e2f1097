// internal/app/features/adminapi/leads.go
package adminapi

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

// defaultLeadLimit bounds a lead listing when the client does not ask
// for a specific page size.
const defaultLeadLimit = 50

func (h *Handler) listLeads(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)

	limit := int64(defaultLeadLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 500 {
			jsonutil.BadRequest(w, "Límite inválido")
			return
		}
		limit = n
	}

	docs, err := h.docs.QueryCollection(r.Context(), docstore.Path(tenantID, docstore.CollLeads), docstore.Query{
		OrderBy:    "submitted_at",
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		h.logger.Error("lead list failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	leads := make([]models.Lead, 0, len(docs))
	for _, d := range docs {
		var l models.Lead
		if err := docstore.Decode(d, &l); err != nil {
			h.logger.Error("lead decode failed", zap.String("tenant", tenantID), zap.Error(err))
			jsonutil.InternalError(w, "Error interno")
			return
		}
		leads = append(leads, l)
	}
	jsonutil.OK(w, map[string]any{"leads": leads})
}
