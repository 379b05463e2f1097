package inputval

import (
	"testing"
)

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"home", true},
		{"sobre-nosotros", true},
		{"promo-2026", true},
		{"a", true},

		{"", false},
		{"Mayusculas", false},
		{"con espacios", false},
		{"-empieza-con-guion", false},
		{"termina-con-guion-", false},
		{"doble--guion", false},
		{"acentós", false},
		{"con/barra", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := IsValidSlug(tt.slug); got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		color string
		want  bool
	}{
		{"#E50914", true},
		{"#fff", true},
		{"#00AaFf", true},

		{"", false},
		{"E50914", false},
		{"#E5091", false},
		{"#GGGGGG", false},
		{"rgb(0,0,0)", false},
	}

	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			if got := IsValidHexColor(tt.color); got != tt.want {
				t.Errorf("IsValidHexColor(%q) = %v, want %v", tt.color, got, tt.want)
			}
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"http://example.com", true},
		{"https://example.com/path?query=value", true},
		{"http://localhost:8080", true},

		{"", false},
		{"   ", false},
		{"example.com", false},          // No scheme
		{"ftp://example.com", false},    // Wrong scheme
		{"javascript:alert(1)", false},  // Wrong scheme
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsValidHTTPURL(tt.url); got != tt.want {
				t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsValidBlockType(t *testing.T) {
	if !IsValidBlockType("hero") || !IsValidBlockType("contactForm") {
		t.Error("builtin block types should validate")
	}
	if IsValidBlockType("inexistente") || IsValidBlockType("") {
		t.Error("unknown block types should not validate")
	}
}

func TestValidate_StructRules(t *testing.T) {
	type SavePageInput struct {
		Slug   string `json:"slug" validate:"required,slug" label:"Slug"`
		Status string `json:"status" validate:"required,oneof=draft published" label:"Estado"`
		Color  string `json:"color" validate:"hexcolor" label:"Color"`
	}

	res := Validate(SavePageInput{Slug: "sobre-nosotros", Status: "draft", Color: "#fff"})
	if res.HasErrors() {
		t.Errorf("valid input rejected: %v", res.Errors)
	}

	res = Validate(SavePageInput{Slug: "Con Espacios", Status: "draft", Color: "#fff"})
	if !res.HasErrors() {
		t.Fatal("invalid slug accepted")
	}
	if res.Fields()["slug"] == "" {
		t.Errorf("missing error for slug: %v", res.Fields())
	}

	res = Validate(SavePageInput{Slug: "ok", Status: "archivado", Color: "#fff"})
	if !res.HasErrors() || res.Fields()["status"] == "" {
		t.Errorf("bad status not reported: %v", res.Fields())
	}
}

func TestValidate_UsesLabelInMessage(t *testing.T) {
	type In struct {
		Slug string `json:"slug" validate:"required" label:"Slug de página"`
	}
	res := Validate(In{})
	if res.First() == "" || res.Errors[0].Label != "Slug de página" {
		t.Errorf("label not applied: %+v", res.Errors)
	}
}
