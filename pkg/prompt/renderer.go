package prompt

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/feedwire/digestd/pkg/feed"
)

// Renderer renders the LLM prompt from a template file. The template is
// re-read on every render so edits take effect on the next cycle.
type Renderer struct {
	path string
}

// Data is the render context passed to the template
type Data struct {
	Entries       []feed.Entry
	LookbackHours int
}

// NewRenderer creates a renderer for the given template file
func NewRenderer(path string) *Renderer {
	return &Renderer{path: path}
}

// Render produces the prompt text for the given entries
func (r *Renderer) Render(entries []feed.Entry, lookbackHours int) (string, error) {
	data, err := os.ReadFile(r.path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", r.path, err)
	}

	// add supports 1-based numbering of entries in templates
	funcs := template.FuncMap{"add": func(a, b int) int { return a + b }}

	tmpl, err := template.New("prompt").Funcs(funcs).Parse(string(data))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", r.path, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, Data{Entries: entries, LookbackHours: lookbackHours}); err != nil {
		return "", fmt.Errorf("render template %s: %w", r.path, err)
	}

	return sb.String(), nil
}
