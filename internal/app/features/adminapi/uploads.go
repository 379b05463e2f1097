// internal/app/features/adminapi/uploads.go
package adminapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
)

// paletteEntry is one block type as shown in the editor's picker.
type paletteEntry struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// listBlockTypes returns the block palette for the page editor.
func (h *Handler) listBlockTypes(w http.ResponseWriter, r *http.Request) {
	defs := h.registry.Available()
	out := make([]paletteEntry, 0, len(defs))
	for _, d := range defs {
		out = append(out, paletteEntry{
			Type:        d.Type,
			Label:       d.Label,
			Icon:        d.Icon,
			Description: d.Description,
			Category:    d.Category,
		})
	}
	jsonutil.OK(w, map[string]any{"blocks": out})
}

// signUpload issues a short-lived signed upload ticket so the editor can
// push images straight to the image host, scoped to the tenant's folder.
func (h *Handler) signUpload(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)

	if h.signer == nil || !h.signer.Enabled() {
		jsonutil.Error(w, http.StatusServiceUnavailable, "Subida de imágenes no configurada")
		return
	}

	ticket, err := h.signer.Issue(tenantID)
	if err != nil {
		h.logger.Error("upload sign failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}
	jsonutil.OK(w, ticket)
}
