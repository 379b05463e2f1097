package blocks

import (
	"strings"
	"testing"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Definition{
		Type:   "custom",
		Label:  "Custom",
		Render: func(RenderContext, map[string]any) (string, error) { return "<div></div>", nil },
	})
	if err != nil {
		t.Fatalf("Register() = %v", err)
	}

	def, ok := r.Get("custom")
	if !ok || def.Label != "Custom" {
		t.Errorf("Get(custom) = %+v, %v", def, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) should report not found")
	}
}

func TestRegistry_RejectsDuplicatesAndInvalid(t *testing.T) {
	r := NewRegistry()
	render := func(RenderContext, map[string]any) (string, error) { return "", nil }

	if err := r.Register(Definition{Type: "a", Render: render}); err != nil {
		t.Fatalf("first Register() = %v", err)
	}
	if err := r.Register(Definition{Type: "a", Render: render}); err == nil {
		t.Error("duplicate Register() should fail")
	}
	if err := r.Register(Definition{Render: render}); err == nil {
		t.Error("Register() without type should fail")
	}
	if err := r.Register(Definition{Type: "b"}); err == nil {
		t.Error("Register() without renderer should fail")
	}
}

func TestRegistry_AvailablePreservesOrder(t *testing.T) {
	r := NewRegistry()
	render := func(RenderContext, map[string]any) (string, error) { return "", nil }
	for _, typ := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(Definition{Type: typ, Render: render}); err != nil {
			t.Fatalf("Register(%s) = %v", typ, err)
		}
	}

	got := r.Types()
	want := []string{"zeta", "alpha", "mid"}
	if len(got) != len(want) {
		t.Fatalf("Types() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Types()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuiltin_HasAllStandardTypes(t *testing.T) {
	r := Builtin()
	for _, typ := range []string{
		"hero", "banner", "richText", "servicesGrid", "testimonials",
		"faq", "callToAction", "socialLinks", "listingsGrid", "contactForm",
	} {
		if !r.Has(typ) {
			t.Errorf("builtin registry missing %q", typ)
		}
	}
}

func TestBuiltin_RenderersEscapeUserContent(t *testing.T) {
	r := Builtin()
	def, _ := r.Get("hero")
	out, err := def.Render(RenderContext{}, map[string]any{
		"title": `<script>alert("x")</script>`,
	})
	if err != nil {
		t.Fatalf("Render() = %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("hero render did not escape title: %q", out)
	}
}

func TestErrorFragment(t *testing.T) {
	got := ErrorFragment("hero", "error interno")
	if !strings.Contains(got, `data-block-type="hero"`) || !strings.Contains(got, "block-error") {
		t.Errorf("ErrorFragment() = %q", got)
	}
	if !strings.Contains(got, `No se pudo mostrar el bloque "hero": error interno`) {
		t.Errorf("ErrorFragment() missing visible reason: %q", got)
	}
	escaped := ErrorFragment("hero", `<script>x</script>`)
	if strings.Contains(escaped, "<script>") {
		t.Errorf("ErrorFragment() did not escape reason: %q", escaped)
	}
}

func TestUnknownTypeFragment(t *testing.T) {
	got := UnknownTypeFragment("inexistente")
	if !strings.Contains(got, `data-block-type="inexistente"`) || !strings.Contains(got, "block-unknown") {
		t.Errorf("UnknownTypeFragment() = %q", got)
	}
	if !strings.Contains(got, "Tipo de bloque desconocido: inexistente") {
		t.Errorf("UnknownTypeFragment() missing visible text: %q", got)
	}
}
