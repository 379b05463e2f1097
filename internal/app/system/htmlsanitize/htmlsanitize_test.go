package htmlsanitize

import (
	"strings"
	"testing"
)

func TestSanitize_StripsScripts(t *testing.T) {
	in := `<p>hola</p><script>alert("x")</script>`
	got := Sanitize(in)
	if strings.Contains(got, "script") {
		t.Errorf("Sanitize() left script tag: %q", got)
	}
	if !strings.Contains(got, "<p>hola</p>") {
		t.Errorf("Sanitize() removed safe content: %q", got)
	}
}

func TestSanitize_KeepsSectionScaffolding(t *testing.T) {
	in := `<section class="section-richtext" style="text-align: center;"><div class="container"><p>texto</p></div></section>`
	got := Sanitize(in)
	for _, want := range []string{"<section", "<div", "class=", "texto"} {
		if !strings.Contains(got, want) {
			t.Errorf("Sanitize() dropped %q from %q", want, got)
		}
	}
}

func TestSanitize_StripsEventHandlers(t *testing.T) {
	got := Sanitize(`<p onclick="evil()">hola</p>`)
	if strings.Contains(got, "onclick") {
		t.Errorf("Sanitize() left onclick: %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	if !IsPlainText("just words") {
		t.Error("plain words should be plain text")
	}
	if !IsPlainText("") {
		t.Error("empty string should be plain text")
	}
	if IsPlainText("<p>hola</p>") {
		t.Error("markup should not be plain text")
	}
	if !IsPlainText("3 < 5") {
		t.Error("a lone < should still be plain text")
	}
}

func TestPrepareForDisplay(t *testing.T) {
	got := string(PrepareForDisplay("línea uno\nlínea dos"))
	if !strings.Contains(got, "<br>") || !strings.HasPrefix(got, "<p>") {
		t.Errorf("PrepareForDisplay(plain) = %q", got)
	}

	got = string(PrepareForDisplay(`<p>hola</p><script>x</script>`))
	if strings.Contains(got, "script") {
		t.Errorf("PrepareForDisplay(html) left script: %q", got)
	}
}
