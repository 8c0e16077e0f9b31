package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

//go:embed template.html
var embeddedTemplate string

// Renderer executes the embedded HTML report template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("report").Parse(embeddedTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render returns the complete HTML document.
func (r *Renderer) Render(data *TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}
	return buf.String(), nil
}
