package blocks

import (
	"html"
	"strconv"
)

// Prop accessors. Props arrive as map[string]any decoded from stored
// documents, so every read is defensive about type.

// Str returns a string prop, or fallback when absent or not a string.
func Str(props map[string]any, key, fallback string) string {
	if s, ok := props[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

// Num returns a numeric prop as float64.
func Num(props map[string]any, key string, fallback float64) float64 {
	switch n := props[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Flag returns a boolean prop.
func Flag(props map[string]any, key string, fallback bool) bool {
	if b, ok := props[key].(bool); ok {
		return b
	}
	return fallback
}

// Items returns an array prop as a slice of objects, skipping any
// element that is not an object.
func Items(props map[string]any, key string) []map[string]any {
	raw, ok := toSlice(props[key])
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if obj, ok := toMap(item); ok {
			out = append(out, obj)
		}
	}
	return out
}

// esc escapes text for HTML element content and attribute values.
func esc(s string) string { return html.EscapeString(s) }

// ErrorFragment is emitted in place of a registered block that failed
// to render. It names the type and the reason so editors can spot the
// broken block on the page; the rest of the page renders normally.
func ErrorFragment(blockType, reason string) string {
	return `<div class="block-error" data-block-type="` + esc(blockType) + `">` +
		`<p>No se pudo mostrar el bloque "` + esc(blockType) + `": ` + esc(reason) + `</p>` +
		`</div>`
}

// UnknownTypeFragment marks a block whose type is not in the registry,
// distinct from a registered block that failed.
func UnknownTypeFragment(blockType string) string {
	return `<div class="block-unknown" data-block-type="` + esc(blockType) + `">` +
		`<p>Tipo de bloque desconocido: ` + esc(blockType) + `</p>` +
		`</div>`
}
