// Package blocks defines the content block catalog. Every page is an
// ordered list of blocks; each block type registered here carries a
// props schema for validation and a renderer that produces an HTML
// fragment.
package blocks

import (
	"fmt"
	"sync"

	"github.com/dalemusser/stratasite/internal/domain/models"
)

// RenderContext carries per-request data a block renderer may need
// beyond its own props.
type RenderContext struct {
	TenantID string
	PageSlug string
	Settings *models.PublicSettings
}

// RenderFunc renders a block's props into an HTML fragment.
type RenderFunc func(ctx RenderContext, props map[string]any) (string, error)

// Definition describes one block type: identity and labels for the
// editor, a props schema for validation, and the renderer.
type Definition struct {
	Type        string
	Label       string
	Icon        string
	Description string
	Category    string
	Schema      Schema
	Render      RenderFunc
}

// Registry holds the known block definitions. Reads vastly outnumber
// writes; registration normally happens once at startup.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a definition. Registering an empty type or the same
// type twice is a programming error.
func (r *Registry) Register(def Definition) error {
	if def.Type == "" {
		return fmt.Errorf("block definition has no type")
	}
	if def.Render == nil {
		return fmt.Errorf("block %q has no renderer", def.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.defs[def.Type]; dup {
		return fmt.Errorf("block %q already registered", def.Type)
	}
	r.defs[def.Type] = def
	r.order = append(r.order, def.Type)
	return nil
}

// Get returns the definition for a block type.
func (r *Registry) Get(blockType string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[blockType]
	return def, ok
}

// Has reports whether a block type is registered.
func (r *Registry) Has(blockType string) bool {
	_, ok := r.Get(blockType)
	return ok
}

// Available returns all definitions in registration order, for the
// admin editor's block picker.
func (r *Registry) Available() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.defs[t])
	}
	return out
}

// Types returns the registered type names in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
