package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef" // 32 chars

func TestNewSessionManager_KeyPolicy(t *testing.T) {
	logger := zap.NewNop()

	if _, err := NewSessionManager("", "", time.Hour, false, logger); err == nil {
		t.Error("empty key should be rejected")
	}
	if _, err := NewSessionManager("short", "", time.Hour, true, logger); err == nil {
		t.Error("weak key should be rejected in secure mode")
	}
	if _, err := NewSessionManager("short", "", time.Hour, false, logger); err != nil {
		t.Errorf("weak key in dev mode = %v, want warn-and-allow", err)
	}
	if _, err := NewSessionManager("change-me-change-me-change-me-keys", "", time.Hour, true, logger); err == nil {
		t.Error("default-looking key should be rejected in secure mode")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	sm, err := NewSessionManager(testKey, "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager() = %v", err)
	}

	// Log in: create the session and capture the cookie.
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	if err := sm.CreateSession(rec, r, "acme"); err != nil {
		t.Fatalf("CreateSession() = %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie set")
	}

	// Next request: LoadClaims should surface the claims.
	var got Claims
	var found bool
	handler := sm.LoadClaims(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = CurrentClaims(r)
	}))
	r2 := httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil)
	for _, c := range cookies {
		r2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), r2)

	if !found || !got.IsAdmin || got.TenantID != "acme" {
		t.Errorf("claims = %+v, found=%v", got, found)
	}
}

func TestLoadClaims_AnonymousWithoutCookie(t *testing.T) {
	sm, _ := NewSessionManager(testKey, "", time.Hour, false, zap.NewNop())

	var found bool
	handler := sm.LoadClaims(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = CurrentClaims(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if found {
		t.Error("anonymous request should carry no claims")
	}
}

func TestRequireAdmin(t *testing.T) {
	mw := RequireAdmin(func(r *http.Request) string { return "acme" })
	ok := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { ok = true }))

	// No claims: 401.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil))
	if rec.Code != http.StatusUnauthorized || ok {
		t.Errorf("no claims: code=%d ok=%v", rec.Code, ok)
	}

	// Admin of another tenant: 403.
	rec = httptest.NewRecorder()
	r := WithTestClaims(httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil), Claims{IsAdmin: true, TenantID: "otro"})
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden || ok {
		t.Errorf("wrong tenant: code=%d ok=%v", rec.Code, ok)
	}

	// Matching tenant admin: pass.
	rec = httptest.NewRecorder()
	r = WithTestClaims(httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil), Claims{IsAdmin: true, TenantID: "acme"})
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK || !ok {
		t.Errorf("matching tenant: code=%d ok=%v", rec.Code, ok)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3guro-y-largo")
	if err != nil {
		t.Fatalf("HashPassword() = %v", err)
	}
	if !VerifyPassword(hash, "s3guro-y-largo") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "otra") {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("", "x") || VerifyPassword(hash, "") {
		t.Error("empty hash or password must never verify")
	}
}
