package display

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for templates.
var templateFuncs = sprig.TxtFuncMap()

// NewTemplate parses tmplStr with the sprig function set.
func NewTemplate(name, tmplStr string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs).Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", name, err)
	}
	return tmpl, nil
}

// Execute renders a parsed template.
func Execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %q: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// ExpandTemplate parses and renders tmplStr in one step.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	tmpl, err := NewTemplate("", tmplStr)
	if err != nil {
		return "", err
	}
	return Execute(tmpl, data)
}
