// Package testutil provides test doubles and helpers, including an
// in-memory document store used by cache and handler tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemDocs is an in-memory docstore.Store. It counts calls per operation and
// can be made to fail or block, so tests can verify cache hit/miss behavior,
// error handling, and single-flight coalescing.
type MemDocs struct {
	mu    sync.Mutex
	colls map[string]map[string]docstore.Doc // path -> id -> doc
	calls map[string]int

	// FailWith, when non-nil, makes every operation return this error.
	FailWith error

	// OnFetch, when set, runs before each GetDocument/QueryCollection
	// outside the store lock. Tests use it to hold fetches open.
	OnFetch func()
}

// NewMemDocs creates an empty in-memory document store.
func NewMemDocs() *MemDocs {
	return &MemDocs{
		colls: make(map[string]map[string]docstore.Doc),
		calls: make(map[string]int),
	}
}

// Seed stores a document directly, bypassing call counting.
func (m *MemDocs) Seed(collectionPath, id string, doc docstore.Doc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll := m.colls[collectionPath]
	if coll == nil {
		coll = make(map[string]docstore.Doc)
		m.colls[collectionPath] = coll
	}
	coll[id] = cloneDoc(doc)
}

// SeedModel encodes a tagged struct and stores it.
func (m *MemDocs) SeedModel(t interface{ Fatalf(string, ...any) }, collectionPath, id string, v any) {
	doc, err := docstore.Encode(v)
	if err != nil {
		t.Fatalf("encode seed doc: %v", err)
	}
	m.Seed(collectionPath, id, doc)
}

// Calls returns how many times an operation ran. Keys are
// "get:{path}/{id}", "query:{path}", "set:{path}/{id}", "add:{path}",
// and "delete:{path}/{id}".
func (m *MemDocs) Calls(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[key]
}

func (m *MemDocs) record(key string) {
	m.mu.Lock()
	m.calls[key]++
	m.mu.Unlock()
}

// GetDocument implements docstore.Store.
func (m *MemDocs) GetDocument(ctx context.Context, collectionPath, id string) (docstore.Doc, error) {
	m.record("get:" + collectionPath + "/" + id)
	if m.OnFetch != nil {
		m.OnFetch()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	doc, ok := m.colls[collectionPath][id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return cloneDoc(doc), nil
}

// QueryCollection implements docstore.Store.
func (m *MemDocs) QueryCollection(ctx context.Context, collectionPath string, q docstore.Query) ([]docstore.Doc, error) {
	m.record("query:" + collectionPath)
	if m.OnFetch != nil {
		m.OnFetch()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	var out []docstore.Doc
	for id, doc := range m.colls[collectionPath] {
		if matches(doc, q.Filters) {
			d := cloneDoc(doc)
			if _, ok := d["_id"]; !ok {
				d["_id"] = id
			}
			out = append(out, d)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			less := compareValues(lookupField(out[i], q.OrderBy), lookupField(out[j], q.OrderBy)) < 0
			if q.Descending {
				return !less
			}
			return less
		})
	}
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// SetDocument implements docstore.Store.
func (m *MemDocs) SetDocument(ctx context.Context, collectionPath, id string, data docstore.Doc, merge bool) error {
	m.record("set:" + collectionPath + "/" + id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	coll := m.colls[collectionPath]
	if coll == nil {
		coll = make(map[string]docstore.Doc)
		m.colls[collectionPath] = coll
	}
	if merge {
		existing, ok := coll[id]
		if !ok {
			existing = docstore.Doc{}
		}
		for k, v := range data {
			if k == "_id" {
				continue
			}
			existing[k] = v
		}
		coll[id] = existing
		return nil
	}
	coll[id] = cloneDoc(data)
	return nil
}

// AddDocument implements docstore.Store.
func (m *MemDocs) AddDocument(ctx context.Context, collectionPath string, data docstore.Doc) (string, error) {
	m.record("add:" + collectionPath)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return "", m.FailWith
	}
	coll := m.colls[collectionPath]
	if coll == nil {
		coll = make(map[string]docstore.Doc)
		m.colls[collectionPath] = coll
	}
	id := uuid.NewString()
	doc := cloneDoc(data)
	doc["_id"] = id
	coll[id] = doc
	return id, nil
}

// DeleteDocument implements docstore.Store.
func (m *MemDocs) DeleteDocument(ctx context.Context, collectionPath, id string) error {
	m.record("delete:" + collectionPath + "/" + id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	delete(m.colls[collectionPath], id)
	return nil
}

func cloneDoc(d docstore.Doc) docstore.Doc {
	out := make(docstore.Doc, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func matches(doc docstore.Doc, filters map[string]any) bool {
	for field, want := range filters {
		if compareValues(lookupField(doc, field), want) != 0 {
			return false
		}
	}
	return true
}

// lookupField resolves a dotted field path through nested documents,
// matching the store's filter semantics.
func lookupField(doc docstore.Doc, field string) any {
	cur := any(doc)
	for _, part := range strings.Split(field, ".") {
		switch m := cur.(type) {
		case docstore.Doc:
			cur = m[part]
		case map[string]any:
			cur = m[part]
		default:
			return nil
		}
	}
	return cur
}

// compareValues orders two document values, normalizing the numeric and
// time representations BSON round trips produce.
func compareValues(a, b any) int {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(toString(a), toString(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case primitive.DateTime:
		return float64(n), true
	case time.Time:
		return float64(n.UnixMilli()), true
	default:
		return 0, false
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
