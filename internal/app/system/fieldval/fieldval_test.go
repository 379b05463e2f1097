package fieldval

import (
	"strings"
	"testing"
)

func fp(f float64) *float64 { return &f }

func TestString(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		rule    Rule
		valid   bool
		wantMsg string
	}{
		{"required missing", "", Rule{Type: KindString, Required: true}, false, "Campo requerido"},
		{"required whitespace", "   ", Rule{Type: KindString, Required: true}, false, "Campo requerido"},
		{"required present", "hola", Rule{Type: KindString, Required: true}, true, ""},
		{"too short", "ab", Rule{Type: KindString, MinLength: 3}, false, "Mínimo 3 caracteres"},
		{"too long", "abcdef", Rule{Type: KindString, MaxLength: 5}, false, "Máximo 5 caracteres"},
		{"within bounds", "abcd", Rule{Type: KindString, MinLength: 2, MaxLength: 5}, true, ""},
		{"pattern mismatch", "abc", Rule{Type: KindString, Pattern: `^\d+$`}, false, "Formato inválido"},
		{"pattern match", "123", Rule{Type: KindString, Pattern: `^\d+$`}, true, ""},
		{"multibyte length", "ñandú", Rule{Type: KindString, MaxLength: 5}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := String(tt.value, tt.rule)
			if got.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v", got.Valid, tt.valid)
			}
			if tt.wantMsg != "" && got.Error != tt.wantMsg {
				t.Errorf("Error = %q, want %q", got.Error, tt.wantMsg)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	valid := []string{"a@b.co", "user.name+tag@example.com.ar"}
	for _, v := range valid {
		if got := Email(v); !got.Valid {
			t.Errorf("Email(%q) invalid: %q", v, got.Error)
		}
	}

	invalid := []string{"bad", "a@b", "a b@c.com", "@x.com", ""}
	for _, v := range invalid {
		got := Email(v)
		if got.Valid {
			t.Errorf("Email(%q) should be invalid", v)
		}
		if got.Error != "Email inválido" {
			t.Errorf("Email(%q) error = %q, want %q", v, got.Error, "Email inválido")
		}
	}
}

func TestURL(t *testing.T) {
	if got := URL("https://example.com/path?q=1"); !got.Valid {
		t.Errorf("URL invalid: %q", got.Error)
	}
	for _, v := range []string{"not a url", "example.com", "/relative", ""} {
		if got := URL(v); got.Valid {
			t.Errorf("URL(%q) should be invalid", v)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name  string
		value any
		rule  Rule
		valid bool
	}{
		{"float ok", 3.5, Rule{Type: KindNumber}, true},
		{"int ok", 7, Rule{Type: KindNumber}, true},
		{"numeric string", "42", Rule{Type: KindNumber}, true},
		{"not a number", "abc", Rule{Type: KindNumber}, false},
		{"below min", 1.0, Rule{Type: KindNumber, Min: fp(2)}, false},
		{"above max", 9.0, Rule{Type: KindNumber, Max: fp(5)}, false},
		{"in range", 3.0, Rule{Type: KindNumber, Min: fp(1), Max: fp(4)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Number(tt.value, tt.rule); got.Valid != tt.valid {
				t.Errorf("Valid = %v (%q), want %v", got.Valid, got.Error, tt.valid)
			}
		})
	}
}

func TestFile(t *testing.T) {
	rule := Rule{Type: KindFile, MaxSizeKB: 100, MIMETypes: []string{"image/jpeg", "image/png"}, Extensions: []string{"jpg", "png"}}

	ok := FileInfo{Name: "photo.jpg", Size: 50 * 1024, MIME: "image/jpeg"}
	if got := File(ok, rule); !got.Valid {
		t.Errorf("File(ok) invalid: %q", got.Error)
	}

	big := FileInfo{Name: "photo.jpg", Size: 200 * 1024, MIME: "image/jpeg"}
	if got := File(big, rule); got.Valid || got.Error != "Máximo 100KB" {
		t.Errorf("File(big) = %+v, want size error", got)
	}

	wrongMIME := FileInfo{Name: "doc.jpg", Size: 10, MIME: "application/pdf"}
	if got := File(wrongMIME, rule); got.Valid || !strings.HasPrefix(got.Error, "Tipos permitidos:") {
		t.Errorf("File(wrongMIME) = %+v, want type error", got)
	}

	wrongExt := FileInfo{Name: "doc.pdf", Size: 10, MIME: "image/jpeg"}
	if got := File(wrongExt, rule); got.Valid {
		t.Error("File(wrongExt) should be invalid")
	}
}

func TestValidateFields_CollectsEveryError(t *testing.T) {
	data := map[string]any{
		"name":  "",
		"email": "bad",
		"url":   "nope",
		"age":   "old",
	}
	rules := map[string]Rule{
		"name":  {Type: KindString, Required: true},
		"email": {Type: KindEmail, Required: true},
		"url":   {Type: KindURL, Required: true},
		"age":   {Type: KindNumber, Required: true},
	}

	res := ValidateFields(data, rules)
	if res.IsValid {
		t.Fatal("expected invalid result")
	}
	if len(res.Errors) != 4 {
		t.Errorf("got %d errors, want 4: %v", len(res.Errors), res.Errors)
	}
}

func TestValidateFields_EmailMessage(t *testing.T) {
	res := ValidateFields(
		map[string]any{"email": "bad"},
		map[string]Rule{"email": {Type: KindEmail}},
	)
	if res.IsValid {
		t.Fatal("expected invalid result")
	}
	if res.Errors["email"] != "Email inválido" {
		t.Errorf("email error = %q, want %q", res.Errors["email"], "Email inválido")
	}
}

func TestValidateFields_UnknownRuleIsWarning(t *testing.T) {
	res := ValidateFields(
		map[string]any{"phone": "123", "name": "Ana"},
		map[string]Rule{
			"phone": {Type: "telepathy", Required: true},
			"name":  {Type: KindString, Required: true},
		},
	)
	if !res.IsValid {
		t.Errorf("unknown rule should not invalidate: %v", res.Errors)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "telepathy") {
		t.Errorf("Warnings = %v, want one naming the unknown kind", res.Warnings)
	}
}

func TestValidateFields_SkipsEmptyOptional(t *testing.T) {
	res := ValidateFields(
		map[string]any{"email": ""},
		map[string]Rule{"email": {Type: KindEmail}},
	)
	if !res.IsValid {
		t.Errorf("empty optional field should pass: %v", res.Errors)
	}
}
