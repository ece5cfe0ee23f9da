// Package render turns a domainsale response into HTML or plain text for
// display. The HTML path uses html/template so every field is autoescaped
// against the document, attribute, and URL contexts it's placed in — the Go
// standard library's answer to the same XSS concern the original renderer
// addressed by hand-calling html.escape on every field.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/domainsale/domainsale/model"
)

var htmlTmpl = template.Must(template.New("sale").Parse(`<h2>Domain for Sale: {{.Domain}}</h2>
<div class="domain-sale-info">
{{- if .Price}}
<div class="sale-price"><strong>Price:</strong> {{.Price}}</div>
{{- end}}
{{- if .Contact}}
<div class="sale-contact"><strong>Contact:</strong> <a href="{{.Contact}}">{{.ContactEmail}}</a></div>
{{- end}}
{{- if .URL}}
<div class="sale-url"><strong>More Info:</strong> <a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.URL}}</a></div>
{{- end}}
{{- if .Expires}}
<div class="sale-expires"><strong>Expires:</strong> {{.Expires}}</div>
{{- end}}
</div>`))

var htmlErrTmpl = template.Must(template.New("error").Parse(
	`<div class="domain-sale-error">{{.}}</div>`))

type htmlData struct {
	Domain       string
	Price        string
	Contact      string
	ContactEmail string
	URL          string
	Expires      string
}

// HTML renders a for-sale record as a self-contained HTML fragment. Every
// value is escaped by html/template according to the context it appears in
// (element text vs. the href attribute), so a maliciously crafted price or
// contact field can't break out of its container.
func HTML(domain string, record *model.ValidatedRecord) (string, error) {
	data := htmlData{
		Domain:       domain,
		Price:        record.Price,
		Contact:      record.Contact,
		ContactEmail: strings.TrimPrefix(record.Contact, "mailto:"),
		URL:          record.URL,
		Expires:      record.ExpiresString(),
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}

	return buf.String(), nil
}

// HTMLError renders an error message as an HTML fragment.
func HTMLError(message string) (string, error) {
	var buf bytes.Buffer
	if err := htmlErrTmpl.Execute(&buf, message); err != nil {
		return "", fmt.Errorf("rendering html error: %w", err)
	}

	return buf.String(), nil
}

// Text renders a for-sale record as plain text, suitable for console
// output. No escaping is needed: nothing here is interpreted as markup.
func Text(domain string, record *model.ValidatedRecord, sources []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Domain for Sale: %s\n", domain)
	b.WriteString(strings.Repeat("-", 40) + "\n")

	if record.Price != "" {
		fmt.Fprintf(&b, "Price: %s\n", record.Price)
	}

	if record.Contact != "" {
		fmt.Fprintf(&b, "Contact: %s\n", strings.TrimPrefix(record.Contact, "mailto:"))
	}

	if record.URL != "" {
		fmt.Fprintf(&b, "More Info: %s\n", record.URL)
	}

	if expires := record.ExpiresString(); expires != "" {
		fmt.Fprintf(&b, "Expires: %s\n", expires)
	}

	if len(sources) > 0 {
		fmt.Fprintf(&b, "Source: %s\n", strings.Join(sources, ", "))
	}

	return strings.TrimRight(b.String(), "\n")
}

// TextError renders an error message as plain text.
func TextError(message string) string {
	return "Error: " + message
}
