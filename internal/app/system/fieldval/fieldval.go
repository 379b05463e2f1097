// Package fieldval implements field-level validation rules for block props
// and contact-form submissions. Rules are pure functions returning results
// as data; validation never panics and never short-circuits, so a caller
// can surface every invalid field at once. Error messages are the Spanish
// strings shown to end users.
package fieldval

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Rule kinds.
const (
	KindString = "string"
	KindEmail  = "email"
	KindURL    = "url"
	KindNumber = "number"
	KindFile   = "file"
)

// Rule declares the constraints for one field.
type Rule struct {
	Type     string
	Required bool

	// string
	MinLength int
	MaxLength int
	Pattern   string

	// number
	Min *float64
	Max *float64

	// file
	MaxSizeKB  int64
	MIMETypes  []string
	Extensions []string
}

// RuleResult is the outcome of validating one value against one rule.
type RuleResult struct {
	Valid bool
	Error string
}

// Result aggregates a full ValidateFields run. Errors maps field name to
// the first failing message for that field; Warnings records skipped
// fields whose rule kind was unknown.
type Result struct {
	IsValid  bool
	Errors   map[string]string
	Warnings []string
}

func valid() RuleResult { return RuleResult{Valid: true} }

func invalid(msg string) RuleResult { return RuleResult{Error: msg} }

// emailPattern is deliberately RFC-lite: something@something.something.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// String validates a string value for presence, length bounds, and pattern.
func String(value any, r Rule) RuleResult {
	s, _ := value.(string)
	if r.Required && strings.TrimSpace(s) == "" {
		return invalid("Campo requerido")
	}
	if s == "" {
		return valid()
	}
	n := utf8.RuneCountInString(s)
	if r.MinLength > 0 && n < r.MinLength {
		return invalid(fmt.Sprintf("Mínimo %d caracteres", r.MinLength))
	}
	if r.MaxLength > 0 && n > r.MaxLength {
		return invalid(fmt.Sprintf("Máximo %d caracteres", r.MaxLength))
	}
	if r.Pattern != "" {
		re, err := regexp.Compile(r.Pattern)
		if err != nil || !re.MatchString(s) {
			return invalid("Formato inválido")
		}
	}
	return valid()
}

// Email validates an email address.
func Email(value any) RuleResult {
	s, _ := value.(string)
	if !emailPattern.MatchString(s) {
		return invalid("Email inválido")
	}
	return valid()
}

// URL validates an absolute URL.
func URL(value any) RuleResult {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("URL inválida")
	}
	return valid()
}

// Number validates a numeric value (or numeric string) within bounds.
// NaN and non-numeric input are rejected.
func Number(value any, r Rule) RuleResult {
	num, ok := toFloat(value)
	if !ok || num != num {
		return invalid("Debe ser un número")
	}
	if r.Min != nil && num < *r.Min {
		return invalid(fmt.Sprintf("Mínimo: %s", formatNumber(*r.Min)))
	}
	if r.Max != nil && num > *r.Max {
		return invalid(fmt.Sprintf("Máximo: %s", formatNumber(*r.Max)))
	}
	return valid()
}

// FileInfo describes an uploaded file for validation purposes.
type FileInfo struct {
	Name string
	Size int64
	MIME string
}

// File validates an uploaded file's size and type against an allow-list.
func File(value any, r Rule) RuleResult {
	f, ok := value.(FileInfo)
	if !ok {
		return invalid("Archivo inválido")
	}

	maxKB := r.MaxSizeKB
	if maxKB <= 0 {
		maxKB = 10240
	}
	if f.Size > maxKB*1024 {
		return invalid(fmt.Sprintf("Máximo %dKB", maxKB))
	}

	if len(r.MIMETypes) > 0 {
		found := false
		for _, mt := range r.MIMETypes {
			if strings.EqualFold(mt, f.MIME) {
				found = true
				break
			}
		}
		if !found {
			return invalid("Tipos permitidos: " + strings.Join(r.MIMETypes, ", "))
		}
	}
	if len(r.Extensions) > 0 {
		ext := ""
		if i := strings.LastIndex(f.Name, "."); i >= 0 {
			ext = strings.ToLower(f.Name[i+1:])
		}
		found := false
		for _, e := range r.Extensions {
			if strings.EqualFold(e, ext) {
				found = true
				break
			}
		}
		if !found {
			return invalid("Tipos permitidos: " + strings.Join(r.Extensions, ", "))
		}
	}
	return valid()
}

// Validate applies a rule to a value. The second return is false when the
// rule kind is unknown; callers treat that as a warning, not an error.
func Validate(value any, r Rule) (RuleResult, bool) {
	switch r.Type {
	case KindString:
		return String(value, r), true
	case KindEmail:
		return Email(value), true
	case KindURL:
		return URL(value), true
	case KindNumber:
		return Number(value, r), true
	case KindFile:
		return File(value, r), true
	default:
		return valid(), false
	}
}

// ValidateFields applies each rule to its field and aggregates every
// failure. A field that is absent or empty and not required is skipped, so
// optional email/url/number fields do not fail on empty input.
func ValidateFields(data map[string]any, rules map[string]Rule) Result {
	res := Result{Errors: make(map[string]string)}

	fields := make([]string, 0, len(rules))
	for f := range rules {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		rule := rules[field]
		value := data[field]

		if !rule.Required && isEmpty(value) {
			continue
		}

		rr, known := Validate(value, rule)
		if !known {
			res.Warnings = append(res.Warnings, "Validador desconocido: "+rule.Type)
			continue
		}
		if !rr.Valid {
			res.Errors[field] = rr.Error
		}
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && strings.TrimSpace(s) == ""
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
