// Package docstore abstracts the document store behind the tenant data
// layer. Collections are addressed by tenant-prefixed paths of the form
// "clients/{tenantID}/{collection}", and the store never sees a query that
// is not scoped to one tenant.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// Doc is a raw document as stored. Callers decode it into a typed model
// with Decode before use.
type Doc map[string]any

// Query describes a collection query: equality filters, a single-field
// sort, and a result limit. This is the full query surface the data layer
// needs; there are no range filters or joins.
type Query struct {
	Filters    map[string]any
	OrderBy    string
	Descending bool
	Limit      int64
}

// Store is the async key/value and query interface over the document store.
type Store interface {
	GetDocument(ctx context.Context, collectionPath, id string) (Doc, error)
	QueryCollection(ctx context.Context, collectionPath string, q Query) ([]Doc, error)
	SetDocument(ctx context.Context, collectionPath, id string, data Doc, merge bool) error
	AddDocument(ctx context.Context, collectionPath string, data Doc) (string, error)
	DeleteDocument(ctx context.Context, collectionPath, id string) error
}

// Collection kinds under each tenant prefix.
const (
	CollPages    = "pages"
	CollSettings = "settings"
	CollListings = "listings"
	CollLeads    = "leads"
	CollWebhooks = "webhooks"
)

// SettingsDocID is the fixed document id of a tenant's public settings.
// One settings document per tenant.
const SettingsDocID = "public"

// Path builds a tenant-scoped collection path.
func Path(tenantID, collection string) string {
	return "clients/" + tenantID + "/" + collection
}

// SplitPath parses a "clients/{tenantID}/{collection}" path.
func SplitPath(collectionPath string) (tenantID, collection string, err error) {
	parts := strings.Split(collectionPath, "/")
	if len(parts) != 3 || parts[0] != "clients" || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("docstore: invalid collection path %q", collectionPath)
	}
	return parts[1], parts[2], nil
}

// Encode converts a tagged model struct into a Doc via a BSON round trip,
// so the same representation works for the Mongo adapter and the in-memory
// store used in tests.
func Encode(v any) (Doc, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	var d Doc
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	return d, nil
}

// Decode converts a Doc into a tagged model struct.
func Decode(d Doc, v any) error {
	raw, err := bson.Marshal(d)
	if err != nil {
		return fmt.Errorf("docstore: decode: %w", err)
	}
	if err := bson.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("docstore: decode: %w", err)
	}
	return nil
}
