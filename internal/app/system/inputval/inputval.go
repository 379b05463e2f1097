// Package inputval provides admin API input validation using
// waffle/pantry/validate.
//
// Define an input struct with validate tags, populate it from the
// request body, and call Validate to get user-facing error messages.
//
// Example:
//
//	type SavePageInput struct {
//	    Slug   string `json:"slug" validate:"required,slug" label:"Slug"`
//	    Status string `json:"status" validate:"required,oneof=draft published" label:"Estado"`
//	}
package inputval

import (
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/dalemusser/waffle/pantry/validate"

	"github.com/dalemusser/stratasite/internal/app/blocks"
)

// Result holds validation results with user-facing messages.
type Result struct {
	Errors []FieldError
}

// FieldError represents a validation error for a single field.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or empty string if no errors.
func (r *Result) First() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// Fields returns the errors keyed by field name, the shape API
// responses use.
func (r *Result) Fields() map[string]string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, dup := out[e.Field]; !dup {
			out[e.Field] = e.Message
		}
	}
	return out
}

var (
	customValidator *validate.Validator
	validatorOnce   sync.Once

	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// getValidator returns the singleton validator with custom rules.
func getValidator() *validate.Validator {
	validatorOnce.Do(func() {
		customValidator = validate.New(validate.WithStopOnFirstError())

		// slug: lowercase letters, digits, single hyphens
		customValidator.RegisterRuleFunc("slug", func(value any) bool {
			if s, ok := value.(string); ok {
				return IsValidSlug(s)
			}
			return false
		}, "slug")

		// hexcolor: #abc or #aabbcc
		customValidator.RegisterRuleFunc("hexcolor", func(value any) bool {
			if s, ok := value.(string); ok {
				return IsValidHexColor(s)
			}
			return false
		}, "hexcolor")

		// httpurl: valid http/https URL
		customValidator.RegisterRuleFunc("httpurl", func(value any) bool {
			if s, ok := value.(string); ok {
				return IsValidHTTPURL(s)
			}
			return false
		}, "httpurl")

		// blocktype: registered content block type
		customValidator.RegisterRuleFunc("blocktype", func(value any) bool {
			if s, ok := value.(string); ok {
				return IsValidBlockType(s)
			}
			return false
		}, "blocktype")
	})
	return customValidator
}

// Validate validates a struct and returns a Result with user-facing
// errors. The struct should have `validate` tags for rules and optional
// `label` tags for display names.
//
// Rules from pantry/validate: required, email, oneof, min, max.
// Custom rules registered here: slug, hexcolor, httpurl, blocktype.
func Validate(s any) *Result {
	result := &Result{}

	v := getValidator()
	err := v.Struct(s)
	if err == nil {
		return result
	}

	labels := getFieldLabels(s)

	if errs, ok := err.(validate.Errors); ok {
		for _, e := range errs {
			label := labels[e.Field]
			if label == "" {
				label = e.Field
			}

			result.Errors = append(result.Errors, FieldError{
				Field:   e.Field,
				Label:   label,
				Message: formatMessage(label, e.Rule, e.Param),
			})
		}
	}

	return result
}

// getFieldLabels extracts the "label" tag from struct fields.
func getFieldLabels(s any) map[string]string {
	labels := make(map[string]string)

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return labels
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		fieldName := field.Name
		if jsonTag := field.Tag.Get("json"); jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" && parts[0] != "-" {
				fieldName = parts[0]
			}
		}

		if label := field.Tag.Get("label"); label != "" {
			labels[fieldName] = label
		}
	}

	return labels
}

// formatMessage creates a user-facing message for a validation rule.
func formatMessage(label, rule, param string) string {
	switch rule {
	case "required":
		return label + ": campo requerido."
	case "email":
		return label + ": email inválido."
	case "oneof", "enum":
		return label + " debe ser uno de: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + ": mínimo " + param + " caracteres."
	case "max":
		return label + ": máximo " + param + " caracteres."
	case "slug":
		return label + " debe contener solo minúsculas, números y guiones."
	case "hexcolor":
		return label + " debe ser un color hexadecimal, p. ej. #E50914."
	case "httpurl":
		return label + " debe ser una URL que empiece con http:// o https://."
	case "blocktype":
		return label + " no es un tipo de bloque conocido."
	default:
		return label + ": formato inválido."
	}
}

// IsValidSlug checks the URL-slug format used for page identifiers.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// IsValidHexColor checks for a #rgb or #rrggbb CSS color.
func IsValidHexColor(s string) bool {
	return hexColorPattern.MatchString(strings.TrimSpace(s))
}

// IsValidHTTPURL checks if the given string is a valid http:// or https:// URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// IsValidBlockType checks whether the value names a builtin block type.
func IsValidBlockType(s string) bool {
	return builtinBlockTypes()[s]
}

var (
	blockTypesOnce sync.Once
	blockTypes     map[string]bool
)

func builtinBlockTypes() map[string]bool {
	blockTypesOnce.Do(func() {
		blockTypes = make(map[string]bool)
		for _, t := range blocks.Builtin().Types() {
			blockTypes[t] = true
		}
	})
	return blockTypes
}
