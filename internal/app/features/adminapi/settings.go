// internal/app/features/adminapi/settings.go
package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/inputval"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)

	doc, err := h.docs.GetDocument(r.Context(), docstore.Path(tenantID, docstore.CollSettings), docstore.SettingsDocID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			jsonutil.NotFound(w, "Configuración no encontrada")
			return
		}
		h.logger.Error("settings load failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}
	var settings models.PublicSettings
	if err := docstore.Decode(doc, &settings); err != nil {
		h.logger.Error("settings decode failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}
	// The hash never leaves the server; the json tag already hides it,
	// clearing it here keeps that true even if the tag changes.
	settings.AdminPasswordHash = ""
	jsonutil.OK(w, settings)
}

type saveSettingsInput struct {
	Name     string `json:"name" validate:"required,max=120" label:"Nombre"`
	Tagline  string `json:"tagline" validate:"max=200" label:"Eslogan"`
	Logo     string `json:"logo" label:"Logo"`
	Phone    string `json:"phone" validate:"max=20" label:"Teléfono"`
	Email    string `json:"email" validate:"omitempty,email" label:"Email"`
	Address1 string `json:"address1" validate:"max=200" label:"Dirección"`
	Address2 string `json:"address2" validate:"max=200" label:"Dirección 2"`

	Links    models.SocialLinks `json:"links"`
	Theme    map[string]string  `json:"theme"`
	Features map[string]bool    `json:"features"`
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)

	var in saveSettingsInput
	if err := jsonutil.DecodeLimited(w, r, &in, maxBodyBytes); err != nil {
		jsonutil.BadRequest(w, "Cuerpo inválido")
		return
	}

	if res := inputval.Validate(&in); res.HasErrors() {
		jsonutil.ValidationError(w, res.Fields())
		return
	}
	if fields := validateTheme(in.Theme); len(fields) > 0 {
		jsonutil.ValidationError(w, fields)
		return
	}

	now := h.now().UTC()
	settings := models.PublicSettings{
		Name:      in.Name,
		Tagline:   in.Tagline,
		Logo:      in.Logo,
		Phone:     in.Phone,
		Email:     in.Email,
		Address1:  in.Address1,
		Address2:  in.Address2,
		Links:     in.Links,
		Theme:     in.Theme,
		Features:  in.Features,
		UpdatedAt: &now,
	}
	doc, err := docstore.Encode(settings)
	if err != nil {
		h.logger.Error("settings encode failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}
	// Merge write: the password hash lives in the same document and must
	// survive a settings save.
	if err := h.docs.SetDocument(r.Context(), docstore.Path(tenantID, docstore.CollSettings), docstore.SettingsDocID, doc, true); err != nil {
		h.logger.Error("settings save failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	h.cache.Invalidate(tenantID)
	h.logger.Info("settings saved", zap.String("tenant", tenantID))
	jsonutil.OK(w, settings)
}

type changePasswordInput struct {
	Password string `json:"password" validate:"required,min=10,max=72" label:"Contraseña"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	tenantID := h.tenantOf(r)

	var in changePasswordInput
	if err := jsonutil.DecodeLimited(w, r, &in, maxBodyBytes); err != nil {
		jsonutil.BadRequest(w, "Cuerpo inválido")
		return
	}
	if res := inputval.Validate(&in); res.HasErrors() {
		jsonutil.ValidationError(w, res.Fields())
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		h.logger.Error("password hash failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	now := h.now().UTC()
	patch := docstore.Doc{"admin_password_hash": hash, "updated_at": now}
	if err := h.docs.SetDocument(r.Context(), docstore.Path(tenantID, docstore.CollSettings), docstore.SettingsDocID, patch, true); err != nil {
		h.logger.Error("password save failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	h.logger.Info("admin password changed", zap.String("tenant", tenantID))
	jsonutil.OK(w, map[string]any{"ok": true})
}

// validateTheme checks that color variables hold hex colors. Other
// variables (fonts, spacing) pass through as-is.
func validateTheme(theme map[string]string) map[string]string {
	fields := make(map[string]string)
	for k, v := range theme {
		if !strings.HasPrefix(k, "--") {
			fields["theme."+k] = "Las variables de tema empiezan con --"
			continue
		}
		if strings.HasPrefix(k, "--color") && !inputval.IsValidHexColor(v) {
			fields["theme."+k] = "Color hexadecimal inválido"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
