// internal/app/system/mailer/templates.go
package mailer

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// LeadNotification builds the email sent to a site owner when a visitor
// submits a contact form. Field order is alphabetical so the message is
// stable for a given submission.
func LeadNotification(siteName, pageSlug string, fields map[string]string) Email {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Nueva consulta desde %s (página: %s)\r\n\r\n", siteName, pageSlug))
	for _, name := range names {
		text.WriteString(fmt.Sprintf("%s: %s\r\n", name, fields[name]))
	}

	var htmlBody strings.Builder
	htmlBody.WriteString(`<h2>Nueva consulta</h2>`)
	htmlBody.WriteString(fmt.Sprintf(`<p>Sitio: <strong>%s</strong><br>Página: %s</p>`,
		html.EscapeString(siteName), html.EscapeString(pageSlug)))
	htmlBody.WriteString(`<table cellpadding="6" border="0">`)
	for _, name := range names {
		htmlBody.WriteString(fmt.Sprintf(`<tr><td><strong>%s</strong></td><td>%s</td></tr>`,
			html.EscapeString(name), html.EscapeString(fields[name])))
	}
	htmlBody.WriteString(`</table>`)

	return Email{
		Subject:  fmt.Sprintf("Nueva consulta en %s", siteName),
		TextBody: text.String(),
		HTMLBody: htmlBody.String(),
	}
}
