// Package tenant maps request hostnames to tenant ids. Every public
// request passes through Resolve, so results are memoized per host,
// misses included, and concurrent lookups for the same host share one
// underlying resolution.
package tenant

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// OverrideParam is the query parameter that forces a tenant id,
// used in development and previews.
const OverrideParam = "client"

// ErrUnknownHost is returned by lookups for hosts with no mapping.
var ErrUnknownHost = fmt.Errorf("tenant: unknown host")

// LookupFunc resolves a normalized hostname to a tenant id. It returns
// ErrUnknownHost for hosts that have no tenant.
type LookupFunc func(ctx context.Context, host string) (string, error)

// Resolver memoizes hostname resolution.
type Resolver struct {
	lookup LookupFunc
	logger *zap.Logger

	mu      sync.Mutex
	results map[string]result // normalized host -> verdict, misses included
	flights map[string]*flight
}

type result struct {
	tenantID string
	found    bool
}

type flight struct {
	done chan struct{}
	res  result
	err  error
}

// New builds a resolver over an arbitrary lookup source.
func New(lookup LookupFunc, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		lookup:  lookup,
		logger:  logger,
		results: make(map[string]result),
		flights: make(map[string]*flight),
	}
}

// NewStatic builds a resolver over a fixed hostname map, the normal
// production configuration. Map keys are normalized on the way in.
func NewStatic(hosts map[string]string, logger *zap.Logger) *Resolver {
	normalized := make(map[string]string, len(hosts))
	for host, tenantID := range hosts {
		normalized[NormalizeHost(host)] = tenantID
	}
	return New(func(_ context.Context, host string) (string, error) {
		tenantID, ok := normalized[host]
		if !ok {
			return "", ErrUnknownHost
		}
		return tenantID, nil
	}, logger)
}

// NormalizeHost lowercases a hostname and strips any port.
func NormalizeHost(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.ToLower(strings.TrimSpace(host))
}

// Resolve returns the tenant id for a request host. A non-empty
// override wins outright. Lookup failures other than an unknown host
// are logged and yield absent without being memoized.
func (r *Resolver) Resolve(ctx context.Context, host, override string) (string, bool) {
	if override != "" {
		return override, true
	}

	key := NormalizeHost(host)
	if key == "" {
		return "", false
	}

	r.mu.Lock()
	if res, ok := r.results[key]; ok {
		r.mu.Unlock()
		return res.tenantID, res.found
	}
	if f, ok := r.flights[key]; ok {
		r.mu.Unlock()
		select {
		case <-f.done:
			if f.err != nil {
				return "", false
			}
			return f.res.tenantID, f.res.found
		case <-ctx.Done():
			return "", false
		}
	}
	f := &flight{done: make(chan struct{})}
	r.flights[key] = f
	r.mu.Unlock()

	tenantID, err := r.lookup(ctx, key)
	switch {
	case err == nil:
		f.res = result{tenantID: tenantID, found: true}
	case err == ErrUnknownHost:
		f.res = result{}
	default:
		f.err = err
	}
	close(f.done)

	r.mu.Lock()
	delete(r.flights, key)
	if f.err == nil {
		r.results[key] = f.res
	}
	r.mu.Unlock()

	if f.err != nil {
		r.logger.Warn("tenant lookup failed", zap.String("host", key), zap.Error(f.err))
		return "", false
	}
	return f.res.tenantID, f.res.found
}

// Forget drops the memoized verdict for a host, so mapping changes can
// take effect without a restart.
func (r *Resolver) Forget(host string) {
	r.mu.Lock()
	delete(r.results, NormalizeHost(host))
	r.mu.Unlock()
}

// ParseHostMap parses the "host=tenant,host=tenant" config format.
func ParseHostMap(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		host, tenantID, ok := strings.Cut(pair, "=")
		host = NormalizeHost(host)
		tenantID = strings.TrimSpace(tenantID)
		if !ok || host == "" || tenantID == "" {
			return nil, fmt.Errorf("tenant: bad host mapping %q", pair)
		}
		out[host] = tenantID
	}
	return out, nil
}
