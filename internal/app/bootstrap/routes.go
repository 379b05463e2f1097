// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	adminapifeature "github.com/dalemusser/stratasite/internal/app/features/adminapi"
	adminauthfeature "github.com/dalemusser/stratasite/internal/app/features/adminauth"
	contactfeature "github.com/dalemusser/stratasite/internal/app/features/contact"
	healthfeature "github.com/dalemusser/stratasite/internal/app/features/health"
	sitefeature "github.com/dalemusser/stratasite/internal/app/features/site"
	appresources "github.com/dalemusser/stratasite/internal/app/resources"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: the shared backends bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// Route map:
//   - /health, /healthz, /readyz, /livez: probes
//   - /static/*: embedded public assets
//   - /admin/login, /admin/logout: tenant admin session endpoints
//   - /api/admin/*: tenant admin JSON API (session auth, no CSRF)
//   - /api/contact: public contact form submission
//   - /*: the public rendered site, resolved per host
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Session middleware: loads admin claims into context if logged in.
	// Public site requests simply have no session, which is fine.
	r.Use(sessionMgr.LoadClaims)

	// CSRF protection middleware with path-based exemption for JSON routes.
	// Cookie name is "stratasite_csrf" to avoid collisions with other
	// services on the same domain.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("stratasite_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	csrfProtect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	// Wrap CSRF middleware to skip the JSON surfaces:
	//   - /api/*: the admin API is session-authenticated JSON called from
	//     JS, and /api/contact receives plain HTML form posts from tenant
	//     domains that cannot share a CSRF cookie with this service.
	//   - /admin/login, /admin/logout: JSON session endpoints; login has
	//     no session yet, and logout is harmless to replay.
	csrfMiddleware := func(next http.Handler) http.Handler {
		csrfHandler := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			path := req.URL.Path
			if strings.HasPrefix(path, "/api/") || path == "/admin/login" || path == "/admin/logout" {
				next.ServeHTTP(w, req)
				return
			}
			csrfHandler.ServeHTTP(w, req)
		})
	}
	r.Use(csrfMiddleware)

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Cache, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Embedded public assets (base stylesheet for rendered sites)
	r.Handle("/static/*", appresources.AssetsHandler("/static"))

	// Tenant admin session endpoints
	adminAuthHandler := adminauthfeature.NewHandler(deps.Resolver, deps.Docs, sessionMgr, appCfg.DefaultTenant, logger)
	r.Mount("/admin", adminauthfeature.Routes(adminAuthHandler))

	// Tenant admin JSON API (session auth enforced inside the feature)
	adminAPIHandler := adminapifeature.NewHandler(
		deps.Docs,
		deps.Cache,
		deps.Registry,
		deps.Bus,
		deps.Signer,
		deps.Resolver,
		appCfg.DefaultTenant,
		logger,
	)
	r.Mount("/api/admin", adminapifeature.Routes(adminAPIHandler))

	// Public contact form submission
	contactHandler := contactfeature.NewHandler(deps.Resolver, deps.Cache, deps.Docs, deps.Bus, appCfg.DefaultTenant, logger)
	r.Mount("/api/contact", contactfeature.Routes(contactHandler))

	// The public rendered site. Mounted last so every unmatched path is
	// resolved against the tenant's pages.
	siteHandler := sitefeature.NewHandler(deps.Resolver, deps.Cache, deps.Assembler, appCfg.DefaultTenant, logger)
	r.Mount("/", sitefeature.Routes(siteHandler))

	return r, nil
}
