package blocks

import (
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/stratasite/internal/app/system/fieldval"
)

// Field schema types. Scalars delegate to fieldval; the rest are
// structural checks done here.
const (
	FieldString   = "string"
	FieldRichText = "richtext"
	FieldEmail    = "email"
	FieldURL      = "url"
	FieldImage    = "image"
	FieldNumber   = "number"
	FieldBool     = "boolean"
	FieldEnum     = "enum"
	FieldArray    = "array"
)

// Field declares the constraints for one block prop.
type Field struct {
	Type      string
	Required  bool
	MinLength int
	MaxLength int
	Min       *float64
	Max       *float64
	Enum      []string
	Default   any
	// ItemsSchema applies to each element of an array field. Elements
	// are expected to be objects.
	ItemsSchema Schema
}

// Schema maps prop names to their field constraints.
type Schema map[string]Field

// Result mirrors fieldval.Result so callers of props validation and
// form validation see the same shape.
type Result = fieldval.Result

// ValidateProps checks a block's props against its schema. All failures
// are collected; nested array item errors are keyed "field.index.sub".
func (s Schema) ValidateProps(props map[string]any) Result {
	res := Result{Errors: make(map[string]string)}

	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f := s[name]
		value, present := props[name]

		if !present || isEmptyValue(value) {
			if f.Required {
				res.Errors[name] = "Campo requerido"
			}
			continue
		}

		switch f.Type {
		case FieldString, FieldRichText:
			rr := fieldval.String(value, fieldval.Rule{
				Required:  f.Required,
				MinLength: f.MinLength,
				MaxLength: f.MaxLength,
			})
			if !rr.Valid {
				res.Errors[name] = rr.Error
			}
		case FieldEmail:
			if rr := fieldval.Email(value); !rr.Valid {
				res.Errors[name] = rr.Error
			}
		case FieldURL, FieldImage:
			if rr := fieldval.URL(value); !rr.Valid {
				res.Errors[name] = rr.Error
			}
		case FieldNumber:
			rr := fieldval.Number(value, fieldval.Rule{Min: f.Min, Max: f.Max})
			if !rr.Valid {
				res.Errors[name] = rr.Error
			}
		case FieldBool:
			if _, ok := value.(bool); !ok {
				res.Errors[name] = "Formato inválido"
			}
		case FieldEnum:
			str, _ := value.(string)
			if !contains(f.Enum, str) {
				res.Errors[name] = "Formato inválido"
			}
		case FieldArray:
			items, ok := toSlice(value)
			if !ok {
				res.Errors[name] = "Formato inválido"
				continue
			}
			for i, item := range items {
				obj, ok := toMap(item)
				if !ok {
					res.Errors[fmt.Sprintf("%s.%d", name, i)] = "Formato inválido"
					continue
				}
				sub := f.ItemsSchema.ValidateProps(obj)
				for field, msg := range sub.Errors {
					res.Errors[fmt.Sprintf("%s.%d.%s", name, i, field)] = msg
				}
			}
		default:
			res.Warnings = append(res.Warnings, "Validador desconocido: "+f.Type)
		}
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

// ApplyDefaults returns props with schema defaults filled in for absent
// fields. The input map is not modified.
func (s Schema) ApplyDefaults(props map[string]any) map[string]any {
	out := make(map[string]any, len(props)+len(s))
	for k, v := range props {
		out[k] = v
	}
	for name, f := range s {
		if _, present := out[name]; !present && f.Default != nil {
			out[name] = f.Default
		}
	}
	return out
}

func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) == ""
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Props loaded from the store come out of a BSON round trip, which
// decodes arrays as primitive.A and embedded objects as primitive.D or
// primitive.M. toSlice and toMap accept both the plain JSON shapes and
// the decoded BSON shapes so stored item arrays survive the trip.

func toSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case primitive.A:
		return []any(v), true
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	default:
		return nil, false
	}
}

func toMap(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case primitive.M:
		return map[string]any(m), true
	case primitive.D:
		out := make(map[string]any, len(m))
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out, true
	default:
		return nil, false
	}
}
