// Package template renders the campaign HTML body per recipient using Go
// templates with the Sprig function map.
package template

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"unicode/utf8"

	"github.com/Masterminds/sprig/v3"

	"github.com/shemeka/bulkmailer/internal/roster"
)

// Renderer holds one parsed campaign template, shared across all
// recipients of a run.
type Renderer struct {
	tmpl *template.Template
}

// Load reads and parses the HTML template at path. A missing file surfaces
// as an error wrapping fs.ErrNotExist, before the delivery loop starts.
func Load(path string) (*Renderer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("template %s is not valid UTF-8", path)
	}

	tmpl, err := template.New("campaign").Funcs(sprig.HtmlFuncMap()).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the template with the recipient's fields. The result is
// the HTML body for that recipient's message.
func (r *Renderer) Render(rec roster.Recipient) (string, error) {
	data := map[string]any{
		"RecipientEmail": rec.Email,
		"RecipientName":  rec.Name,
		"CampaignID":     rec.CampaignID,
		"MailType":       string(rec.MailType),
		"Mode":           string(rec.Mode),
		"UID":            rec.UID,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
