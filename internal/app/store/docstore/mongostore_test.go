package docstore_test

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/dalemusser/stratasite/internal/testutil"
)

func TestMongo_SetGetDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := docstore.NewMongo(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()
	path := docstore.Path("acme", docstore.CollPages)

	doc, err := docstore.Encode(models.Page{Slug: "home", Status: models.PageStatusPublished})
	if err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	if err := store.SetDocument(ctx, path, "home", doc, false); err != nil {
		t.Fatalf("SetDocument() = %v", err)
	}

	got, err := store.GetDocument(ctx, path, "home")
	if err != nil {
		t.Fatalf("GetDocument() = %v", err)
	}
	var page models.Page
	if err := docstore.Decode(got, &page); err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if page.Slug != "home" || !page.IsPublished() {
		t.Errorf("round trip = %+v", page)
	}

	if err := store.DeleteDocument(ctx, path, "home"); err != nil {
		t.Fatalf("DeleteDocument() = %v", err)
	}
	if _, err := store.GetDocument(ctx, path, "home"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("GetDocument(deleted) = %v, want ErrNotFound", err)
	}
}

func TestMongo_GetMissingIsNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := docstore.NewMongo(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetDocument(ctx, docstore.Path("acme", docstore.CollPages), "nope")
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("GetDocument() = %v, want ErrNotFound", err)
	}
}

func TestMongo_TenantIsolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := docstore.NewMongo(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc, _ := docstore.Encode(models.Page{Slug: "home", Status: models.PageStatusPublished})
	if err := store.SetDocument(ctx, docstore.Path("acme", docstore.CollPages), "home", doc, false); err != nil {
		t.Fatalf("SetDocument() = %v", err)
	}

	// Same id, different tenant: invisible.
	if _, err := store.GetDocument(ctx, docstore.Path("otro", docstore.CollPages), "home"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("cross-tenant GetDocument() = %v, want ErrNotFound", err)
	}

	docs, err := store.QueryCollection(ctx, docstore.Path("otro", docstore.CollPages), docstore.Query{})
	if err != nil {
		t.Fatalf("QueryCollection() = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("cross-tenant query returned %d docs", len(docs))
	}
}

func TestMongo_QueryFilterSortLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := docstore.NewMongo(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()
	path := docstore.Path("acme", docstore.CollListings)

	seed := []models.Listing{
		{Status: models.ListingStatusPublished, Category: "autos", Title: "A", Price: 300},
		{Status: models.ListingStatusPublished, Category: "autos", Title: "B", Price: 100},
		{Status: models.ListingStatusPublished, Category: "motos", Title: "C", Price: 200},
		{Status: models.ListingStatusDraft, Category: "autos", Title: "D", Price: 50},
	}
	for _, l := range seed {
		doc, err := docstore.Encode(l)
		if err != nil {
			t.Fatalf("Encode() = %v", err)
		}
		if _, err := store.AddDocument(ctx, path, doc); err != nil {
			t.Fatalf("AddDocument() = %v", err)
		}
	}

	docs, err := store.QueryCollection(ctx, path, docstore.Query{
		Filters: map[string]any{"status": models.ListingStatusPublished, "category": "autos"},
		OrderBy: "price",
		Limit:   10,
	})
	if err != nil {
		t.Fatalf("QueryCollection() = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("query returned %d docs, want 2", len(docs))
	}
	var first, second models.Listing
	if err := docstore.Decode(docs[0], &first); err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if err := docstore.Decode(docs[1], &second); err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if first.Title != "B" || second.Title != "A" {
		t.Errorf("ascending price order = %q, %q", first.Title, second.Title)
	}

	limited, err := store.QueryCollection(ctx, path, docstore.Query{Limit: 1})
	if err != nil {
		t.Fatalf("QueryCollection(limit) = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: %d docs", len(limited))
	}
}

func TestMongo_SetMergePreservesOtherFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := docstore.NewMongo(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()
	path := docstore.Path("acme", docstore.CollSettings)

	doc, _ := docstore.Encode(models.PublicSettings{Name: "Acme", Tagline: "Desde 1994"})
	if err := store.SetDocument(ctx, path, docstore.SettingsDocID, doc, false); err != nil {
		t.Fatalf("SetDocument() = %v", err)
	}

	if err := store.SetDocument(ctx, path, docstore.SettingsDocID, docstore.Doc{"name": "Acme SRL"}, true); err != nil {
		t.Fatalf("SetDocument(merge) = %v", err)
	}

	got, err := store.GetDocument(ctx, path, docstore.SettingsDocID)
	if err != nil {
		t.Fatalf("GetDocument() = %v", err)
	}
	var s models.PublicSettings
	if err := docstore.Decode(got, &s); err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if s.Name != "Acme SRL" || s.Tagline != "Desde 1994" {
		t.Errorf("merge result = %+v", s)
	}
}
