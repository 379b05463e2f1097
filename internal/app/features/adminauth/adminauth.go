// internal/app/features/adminauth/adminauth.go
package adminauth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/jsonutil"
	"github.com/dalemusser/stratasite/internal/app/system/tenant"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

// maxLoginBody caps a login request body.
const maxLoginBody = 4 << 10

// Handler implements the tenant admin login and logout endpoints.
type Handler struct {
	resolver      *tenant.Resolver
	docs          docstore.Store
	sessionMgr    *auth.SessionManager
	defaultTenant string
	logger        *zap.Logger
}

// NewHandler creates the adminauth Handler.
func NewHandler(resolver *tenant.Resolver, docs docstore.Store, sessionMgr *auth.SessionManager, defaultTenant string, logger *zap.Logger) *Handler {
	return &Handler{
		resolver:      resolver,
		docs:          docs,
		sessionMgr:    sessionMgr,
		defaultTenant: defaultTenant,
		logger:        logger,
	}
}

// Routes returns the login/logout router, mounted under /admin.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	return r
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := h.resolver.Resolve(ctx, r.Host, r.URL.Query().Get(tenant.OverrideParam))
	if !ok {
		tenantID = h.defaultTenant
	}
	if tenantID == "" {
		jsonutil.NotFound(w, "Sitio no encontrado")
		return
	}

	var body struct {
		Password string `json:"password"`
	}
	if err := jsonutil.DecodeLimited(w, r, &body, maxLoginBody); err != nil {
		jsonutil.BadRequest(w, "Cuerpo inválido")
		return
	}
	if body.Password == "" {
		jsonutil.BadRequest(w, "Contraseña requerida")
		return
	}

	// Credentials are always checked against the store, never the cache,
	// so a password change takes effect immediately.
	doc, err := h.docs.GetDocument(ctx, docstore.Path(tenantID, docstore.CollSettings), docstore.SettingsDocID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			jsonutil.Unauthorized(w, "Credenciales inválidas")
			return
		}
		h.logger.Error("settings load failed on login", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}
	var settings models.PublicSettings
	if err := docstore.Decode(doc, &settings); err != nil {
		h.logger.Error("settings decode failed on login", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	if settings.AdminPasswordHash == "" || !auth.VerifyPassword(settings.AdminPasswordHash, body.Password) {
		h.logger.Info("failed admin login", zap.String("tenant", tenantID))
		jsonutil.Unauthorized(w, "Credenciales inválidas")
		return
	}

	if err := h.sessionMgr.CreateSession(w, r, tenantID); err != nil {
		h.logger.Error("session create failed", zap.String("tenant", tenantID), zap.Error(err))
		jsonutil.InternalError(w, "Error interno")
		return
	}

	h.logger.Info("admin login", zap.String("tenant", tenantID))
	jsonutil.OK(w, map[string]any{"ok": true, "tenantId": tenantID})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessionMgr.DestroySession(w, r)
	jsonutil.OK(w, map[string]any{"ok": true})
}
