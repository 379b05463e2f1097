package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/stratasite/internal/testutil"
)

func TestSendWebhook_PostsJSONPayload(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := New(testutil.NewMemDocs(), time.Second, zap.NewNop())
	d.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	err := d.SendWebhook(context.Background(), srv.URL, "page.published", map[string]any{
		"tenantId": "acme",
		"slug":     "home",
	})
	if err != nil {
		t.Fatalf("SendWebhook() = %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	var payload struct {
		Event     string         `json:"event"`
		Timestamp string         `json:"timestamp"`
		Data      map[string]any `json:"data"`
	}
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload.Event != "page.published" {
		t.Errorf("event = %q", payload.Event)
	}
	if payload.Timestamp != "2026-03-01T12:00:00Z" {
		t.Errorf("timestamp = %q", payload.Timestamp)
	}
	if payload.Data["slug"] != "home" {
		t.Errorf("data = %v", payload.Data)
	}
}

func TestSendWebhook_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := New(testutil.NewMemDocs(), time.Second, zap.NewNop())
	if err := d.SendWebhook(context.Background(), srv.URL, "page.published", nil); err == nil {
		t.Error("502 response should be an error")
	}
}

func TestDispatchRegistered_FiresMatchingActiveHooks(t *testing.T) {
	hits := make(map[string]int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits[r.URL.Path]++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	docs := testutil.NewMemDocs()
	path := docstore.Path("acme", docstore.CollWebhooks)
	docs.SeedModel(t, path, "w1", models.Webhook{ID: "w1", EventType: "page.published", URL: srv.URL + "/uno", Active: true})
	docs.SeedModel(t, path, "w2", models.Webhook{ID: "w2", EventType: "page.published", URL: srv.URL + "/inactivo", Active: false})
	docs.SeedModel(t, path, "w3", models.Webhook{ID: "w3", EventType: "form.submitted", URL: srv.URL + "/otro-evento", Active: true})

	d := New(docs, time.Second, zap.NewNop())
	delivered := d.DispatchRegistered(context.Background(), "acme", "page.published", map[string]any{"slug": "home"})
	if delivered != 1 {
		t.Errorf("DispatchRegistered() = %d, want 1", delivered)
	}
	if hits["/uno"] != 1 {
		t.Errorf("active matching hook hits = %d, want 1", hits["/uno"])
	}
	if hits["/inactivo"] != 0 || hits["/otro-evento"] != 0 {
		t.Errorf("non-matching hooks were fired: %v", hits)
	}
}

func TestDispatchRegistered_FailureDoesNotStopOthers(t *testing.T) {
	var okHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/falla" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		okHits++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	docs := testutil.NewMemDocs()
	path := docstore.Path("acme", docstore.CollWebhooks)
	docs.SeedModel(t, path, "w1", models.Webhook{ID: "w1", EventType: "listing.updated", URL: srv.URL + "/falla", Active: true})
	docs.SeedModel(t, path, "w2", models.Webhook{ID: "w2", EventType: "listing.updated", URL: srv.URL + "/ok", Active: true})

	d := New(docs, time.Second, zap.NewNop())
	delivered := d.DispatchRegistered(context.Background(), "acme", "listing.updated", nil)
	if delivered != 1 {
		t.Errorf("DispatchRegistered() = %d, want 1", delivered)
	}
	if okHits != 1 {
		t.Errorf("healthy hook hits = %d, want 1", okHits)
	}
}
