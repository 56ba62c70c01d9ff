package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/dtroode/groupfeed/internal/linkify"
	"github.com/dtroode/groupfeed/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// placeholderCount is the number of skeleton blocks shown while the archive
// list is unresolved.
const placeholderCount = 5

// Renderer executes the page templates.
type Renderer struct {
	tmpl   *template.Template
	linker *linkify.Linker
	logger *logger.Logger
	now    func() time.Time
}

// NewRenderer parses the embedded templates. Links in post text are
// classified against linker's origin.
func NewRenderer(linker *linkify.Linker, logger *logger.Logger) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{
		tmpl:   tmpl,
		linker: linker,
		logger: logger,
		now:    time.Now,
	}, nil
}

// render buffers the template so a failure can still produce a clean 500.
// Only template errors are returned; once the header is written a failed
// write is logged.
func (r *Renderer) render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Warn("Renderer: failed to write response", "template", name, "error", err.Error())
	}
	return nil
}
