// Package htmlsanitize cleans tenant-authored rich text before it is
// embedded in rendered pages. The richText block is a trusted-HTML
// passthrough only after this policy has run.
package htmlsanitize

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// UGC policy as base: formatting, lists, links, images.
		policy = bluemonday.UGCPolicy()

		// The block editor emits section/div scaffolding with inline
		// alignment, plus the usual text decorations.
		policy.AllowElements("section", "div", "span", "u", "s", "sub", "sup", "mark")
		policy.AllowAttrs("class").OnElements("section", "div", "span", "p")
		policy.AllowAttrs("style").OnElements("section", "div", "p")

		// Tables from the rich text editor.
		policy.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
		policy.AllowAttrs("colspan", "rowspan").OnElements("th", "td")

		policy.AllowDataAttributes()
	})
	return policy
}

// Sanitize cleans HTML input, removing potentially dangerous elements and
// attributes while preserving safe formatting.
func Sanitize(html string) string {
	if html == "" {
		return ""
	}
	return getPolicy().Sanitize(html)
}

// SanitizeToHTML sanitizes and returns template.HTML safe for direct
// rendering in Go templates without re-escaping.
func SanitizeToHTML(html string) template.HTML {
	return template.HTML(Sanitize(html))
}

// IsPlainText reports whether content has no HTML tags at all. Legacy
// tenant content is sometimes plain text.
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// PlainTextToHTML escapes plain text and converts newlines to <br>.
func PlainTextToHTML(text string) string {
	if text == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareForDisplay sanitizes content that may be plain text or HTML and
// returns template.HTML ready for rendering.
func PrepareForDisplay(content string) template.HTML {
	if content == "" {
		return ""
	}
	if IsPlainText(content) {
		return template.HTML(PlainTextToHTML(content))
	}
	return SanitizeToHTML(content)
}
