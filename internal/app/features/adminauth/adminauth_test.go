package adminauth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/app/system/auth"
	"github.com/dalemusser/stratasite/internal/app/system/tenant"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/stratasite/internal/testutil"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

func newTestHandler(t *testing.T, docs *testutil.MemDocs) (*Handler, *auth.SessionManager) {
	t.Helper()
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager(testSessionKey, "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager() = %v", err)
	}
	resolver := tenant.NewStatic(map[string]string{"acme.example.com": "acme"}, logger)
	return NewHandler(resolver, docs, sessionMgr, "", logger), sessionMgr
}

func seedAdmin(t *testing.T, docs *testutil.MemDocs, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() = %v", err)
	}
	docs.SeedModel(t, docstore.Path("acme", docstore.CollSettings), docstore.SettingsDocID, models.PublicSettings{
		Name:              "Acme",
		AdminPasswordHash: hash,
	})
}

func postLogin(h *Handler, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest("POST", "http://acme.example.com/login", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	Routes(h).ServeHTTP(w, r)
	return w
}

func TestLogin_CorrectPasswordSetsSession(t *testing.T) {
	docs := testutil.NewMemDocs()
	seedAdmin(t, docs, "hunter2-pero-largo")
	h, sessionMgr := newTestHandler(t, docs)

	w := postLogin(h, `{"password":"hunter2-pero-largo"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionMgr.SessionName() {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("no session cookie set")
	}

	// The cookie round-trips into admin claims for the right tenant.
	r2 := httptest.NewRequest("GET", "http://acme.example.com/", nil)
	r2.AddCookie(sessionCookie)
	var claims auth.Claims
	var found bool
	sessionMgr.LoadClaims(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		claims, found = auth.CurrentClaims(r)
	})).ServeHTTP(httptest.NewRecorder(), r2)

	if !found || !claims.IsAdmin || claims.TenantID != "acme" {
		t.Errorf("claims = %+v found=%v", claims, found)
	}
}

func TestLogin_WrongPasswordIs401(t *testing.T) {
	docs := testutil.NewMemDocs()
	seedAdmin(t, docs, "la-correcta")
	h, _ := newTestHandler(t, docs)

	w := postLogin(h, `{"password":"la-incorrecta"}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("no cookie should be set on failed login")
	}
}

func TestLogin_TenantWithoutSettingsIs401(t *testing.T) {
	docs := testutil.NewMemDocs()
	h, _ := newTestHandler(t, docs)

	w := postLogin(h, `{"password":"lo-que-sea"}`)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestLogin_EmptyPasswordIs400(t *testing.T) {
	docs := testutil.NewMemDocs()
	seedAdmin(t, docs, "la-correcta")
	h, _ := newTestHandler(t, docs)

	w := postLogin(h, `{}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLogin_UnmappedHostIs404(t *testing.T) {
	docs := testutil.NewMemDocs()
	h, _ := newTestHandler(t, docs)

	r := httptest.NewRequest("POST", "http://otro.example.com/login", strings.NewReader(`{"password":"x"}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	Routes(h).ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	docs := testutil.NewMemDocs()
	seedAdmin(t, docs, "hunter2-pero-largo")
	h, sessionMgr := newTestHandler(t, docs)

	r := httptest.NewRequest("POST", "http://acme.example.com/logout", nil)
	w := httptest.NewRecorder()
	Routes(h).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionMgr.SessionName() && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout should expire the session cookie")
	}
}
