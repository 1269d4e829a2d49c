// Package render produces the HTML documents served by the page handler.
// Templates are embedded in the binary; the page template may be replaced
// from disk at startup.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Masterminds/sprig/v3"

	"github.com/jsamuelsen/daily-quote/internal/platform/logging"
	"github.com/jsamuelsen/daily-quote/internal/platform/telemetry"
	"github.com/jsamuelsen/daily-quote/internal/ports"
)

const (
	pageTemplate  = "page.html.tmpl"
	errorTemplate = "error.html.tmpl"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// Config configures a Renderer.
type Config struct {
	// Title is shown in the page heading and the document title.
	Title string

	// PageTemplatePath replaces the embedded page template when set.
	PageTemplatePath string

	Logger *slog.Logger
}

// Renderer implements ports.PageRenderer with html/template and the sprig function set.
type Renderer struct {
	title  string
	page   *template.Template
	errors *template.Template
	logger *slog.Logger
}

type pageView struct {
	Title  string
	Quote  string
	Author string
	Date   string
}

type errorView struct {
	Title      string
	Status     int
	StatusText string
	Message    string
	TraceID    string
}

// New parses the templates. Template errors are reported here rather than per request.
func New(cfg Config) (*Renderer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	page, err := parsePage(cfg.PageTemplatePath)
	if err != nil {
		return nil, err
	}

	errPage, err := newTemplate(errorTemplate).ParseFS(templateFS, "templates/"+errorTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", errorTemplate, err)
	}

	return &Renderer{
		title:  cfg.Title,
		page:   page,
		errors: errPage,
		logger: logger,
	}, nil
}

func parsePage(path string) (*template.Template, error) {
	if path == "" {
		t, err := newTemplate(pageTemplate).ParseFS(templateFS, "templates/"+pageTemplate)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", pageTemplate, err)
		}

		return t, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page template: %w", err)
	}

	t, err := newTemplate(filepath.Base(path)).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing page template %s: %w", path, err)
	}

	return t, nil
}

func newTemplate(name string) *template.Template {
	return template.New(name).Funcs(sprig.FuncMap()).Option("missingkey=error")
}

// RenderPage renders the daily quote page.
func (r *Renderer) RenderPage(ctx context.Context, data ports.PageData) ([]byte, error) {
	_, span := telemetry.Tracer("render").Start(ctx, "Renderer.RenderPage")
	defer span.End()

	return r.execute(ctx, r.page, pageView{
		Title:  r.title,
		Quote:  data.Quote,
		Author: data.Author,
		Date:   data.Date,
	})
}

// RenderError renders the failure page. Status defaults to 500.
func (r *Renderer) RenderError(ctx context.Context, data ports.ErrorPageData) ([]byte, error) {
	status := data.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return r.execute(ctx, r.errors, errorView{
		Title:      r.title,
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    data.Message,
		TraceID:    data.TraceID,
	})
}

func (r *Renderer) execute(ctx context.Context, t *template.Template, view any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", t.Name(), err)
	}

	logging.FromContextOr(ctx, r.logger).Log(ctx, logging.LevelTrace, "rendered template",
		slog.String("template", t.Name()),
		slog.Int("bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}
