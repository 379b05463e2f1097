// Package tenantcache is the read path for tenant content. It caches
// settings, pages, and listing queries per tenant with a TTL, collapses
// concurrent loads of the same key into a single store fetch, and
// remembers not-found results so repeated misses do not hammer the store.
//
// Failed loads are never cached. A store outage must not poison the
// cache for the full TTL.
package tenantcache

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/stratasite/internal/app/store/docstore"
	"github.com/dalemusser/stratasite/internal/domain/models"
)

// DefaultTTL is how long cached tenant data stays fresh.
const DefaultTTL = 5 * time.Minute

type entry struct {
	value    any
	negative bool
	expires  time.Time
}

type flight struct {
	done  chan struct{}
	value any
	err   error
}

// Cache serves tenant content from memory, loading through the document
// store on miss.
type Cache struct {
	docs   docstore.Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]entry
	flights map[string]*flight
}

// New builds a cache over the given store. A non-positive ttl selects
// DefaultTTL.
func New(docs docstore.Store, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		docs:    docs,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]entry),
		flights: make(map[string]*flight),
	}
}

func settingsKey(tenantID string) string { return "settings:" + tenantID }

func pageKey(tenantID, slug string) string { return "page:" + tenantID + ":" + slug }

func listingsKey(tenantID, sig string) string { return "listings:" + tenantID + ":" + sig }

func navKey(tenantID string) string { return "nav:" + tenantID }

// Settings returns the tenant's public settings. A tenant with no
// settings document is unconfigured; that miss is cached and surfaces
// as docstore.ErrNotFound.
func (c *Cache) Settings(ctx context.Context, tenantID string) (*models.PublicSettings, error) {
	v, err := c.getOrLoad(ctx, settingsKey(tenantID), func(ctx context.Context) (any, error) {
		doc, err := c.docs.GetDocument(ctx, docstore.Path(tenantID, docstore.CollSettings), docstore.SettingsDocID)
		if err != nil {
			return nil, err
		}
		var s models.PublicSettings
		if err := docstore.Decode(doc, &s); err != nil {
			return nil, err
		}
		return &s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.PublicSettings), nil
}

// Page returns a published page by slug. Draft pages are invisible on
// the read path and report docstore.ErrNotFound, exactly like a page
// that does not exist. That verdict is cached.
func (c *Cache) Page(ctx context.Context, tenantID, slug string) (*models.Page, error) {
	v, err := c.getOrLoad(ctx, pageKey(tenantID, slug), func(ctx context.Context) (any, error) {
		doc, err := c.docs.GetDocument(ctx, docstore.Path(tenantID, docstore.CollPages), slug)
		if err != nil {
			return nil, err
		}
		var p models.Page
		if err := docstore.Decode(doc, &p); err != nil {
			return nil, err
		}
		if !p.IsPublished() {
			return nil, docstore.ErrNotFound
		}
		return &p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Page), nil
}

// Nav returns the tenant's navigation entries: published pages that opt
// into the nav, ordered by their declared position. A page whose nav
// entry has no label falls back to its meta title, then its slug.
func (c *Cache) Nav(ctx context.Context, tenantID string) ([]models.NavItem, error) {
	v, err := c.getOrLoad(ctx, navKey(tenantID), func(ctx context.Context) (any, error) {
		docs, err := c.docs.QueryCollection(ctx, docstore.Path(tenantID, docstore.CollPages), docstore.Query{
			Filters: map[string]any{
				"status":          models.PageStatusPublished,
				"nav.show_in_nav": true,
			},
			OrderBy: "nav.order",
		})
		if err != nil {
			return nil, err
		}
		items := make([]models.NavItem, 0, len(docs))
		for _, d := range docs {
			var p models.Page
			if err := docstore.Decode(d, &p); err != nil {
				return nil, err
			}
			label := p.Nav.Label
			if label == "" {
				label = p.Meta.Title
			}
			if label == "" {
				label = p.Slug
			}
			items = append(items, models.NavItem{Label: label, Slug: p.Slug, Order: p.Nav.Order})
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.NavItem), nil
}

// ListingsQuery selects published listings for a grid block. The
// published-only filter is implicit and cannot be overridden.
type ListingsQuery struct {
	Category   string
	SortField  string
	Descending bool
	Limit      int64
}

// Signature returns a canonical cache key fragment for the query, so
// equivalent queries written in any order share one cache entry.
func (q ListingsQuery) Signature() string {
	parts := []string{
		"cat=" + q.Category,
		"sort=" + q.SortField,
		"desc=" + strconv.FormatBool(q.Descending),
		"limit=" + strconv.FormatInt(q.Limit, 10),
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

// Listings returns published listings matching the query.
func (c *Cache) Listings(ctx context.Context, tenantID string, q ListingsQuery) ([]models.Listing, error) {
	v, err := c.getOrLoad(ctx, listingsKey(tenantID, q.Signature()), func(ctx context.Context) (any, error) {
		filters := map[string]any{"status": models.ListingStatusPublished}
		if q.Category != "" {
			filters["category"] = q.Category
		}
		docs, err := c.docs.QueryCollection(ctx, docstore.Path(tenantID, docstore.CollListings), docstore.Query{
			Filters:    filters,
			OrderBy:    q.SortField,
			Descending: q.Descending,
			Limit:      q.Limit,
		})
		if err != nil {
			return nil, err
		}
		out := make([]models.Listing, 0, len(docs))
		for _, d := range docs {
			var l models.Listing
			if err := docstore.Decode(d, &l); err != nil {
				return nil, err
			}
			out = append(out, l)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Listing), nil
}

// getOrLoad returns the cached value for key, or loads it. Concurrent
// callers for the same missing key share one load: the first caller
// fetches, the rest wait on its result. Not-found results are cached as
// negative entries; any other error is returned uncached.
func (c *Cache) getOrLoad(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expires) {
		c.mu.Unlock()
		if e.negative {
			return nil, docstore.ErrNotFound
		}
		return e.value, nil
	}
	if f, ok := c.flights[key]; ok {
		c.mu.Unlock()
		select {
		case <-f.done:
			return f.value, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f := &flight{done: make(chan struct{})}
	c.flights[key] = f
	c.mu.Unlock()

	value, err := load(ctx)
	f.value, f.err = value, err
	close(f.done)

	c.mu.Lock()
	delete(c.flights, key)
	switch {
	case err == nil:
		c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
	case errors.Is(err, docstore.ErrNotFound):
		c.entries[key] = entry{negative: true, expires: c.now().Add(c.ttl)}
	}
	c.mu.Unlock()

	return value, err
}

// Invalidate drops every cached entry for a tenant. Admin writes call
// this so the public site reflects changes immediately instead of after
// TTL expiry. Returns the number of entries removed.
func (c *Cache) Invalidate(tenantID string) int {
	// Page and listing keys end the tenant segment with a colon, so
	// prefix matching cannot bleed into another tenant's keys.
	prefixes := []string{pageKey(tenantID, ""), listingsKey(tenantID, "")}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, k := range []string{settingsKey(tenantID), navKey(tenantID)} {
		if _, ok := c.entries[k]; ok {
			delete(c.entries, k)
			removed++
		}
	}
	for key := range c.entries {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				delete(c.entries, key)
				removed++
				break
			}
		}
	}
	return removed
}

// InvalidatePage drops a single page entry. The nav entry goes with it,
// since a page edit can change its nav placement.
func (c *Cache) InvalidatePage(tenantID, slug string) {
	c.mu.Lock()
	delete(c.entries, pageKey(tenantID, slug))
	delete(c.entries, navKey(tenantID))
	c.mu.Unlock()
}

// InvalidateListings drops all listing query entries for a tenant.
// Listing writes cannot know which cached query signatures they affect,
// so the whole family goes.
func (c *Cache) InvalidateListings(tenantID string) {
	prefix := listingsKey(tenantID, "")
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Sweep removes expired entries and returns how many were dropped.
// A background job calls this so idle tenants do not pin memory.
func (c *Cache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of live cache entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
