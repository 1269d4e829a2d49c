package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/daily-quote/internal/ports"
)

var _ ports.PageRenderer = (*Renderer)(nil)

func newTestRenderer(t *testing.T, cfg Config) *Renderer {
	t.Helper()

	if cfg.Title == "" {
		cfg.Title = "Daily Motivation"
	}

	r, err := New(cfg)
	require.NoError(t, err)

	return r
}

func TestRenderPage(t *testing.T) {
	r := newTestRenderer(t, Config{})

	body, err := r.RenderPage(context.Background(), ports.PageData{
		Quote:  "“Stay hungry, stay foolish.”",
		Author: "Stewart Brand",
		Date:   "2023-01-01",
	})
	require.NoError(t, err)

	html := string(body)
	assert.Contains(t, html, "<title>Daily Motivation</title>")
	assert.Contains(t, html, "“Stay hungry, stay foolish.”")
	assert.Contains(t, html, "Stewart Brand")
	assert.Contains(t, html, `<time datetime="2023-01-01">2023-01-01</time>`)
}

func TestRenderPage_EscapesContent(t *testing.T) {
	r := newTestRenderer(t, Config{})

	body, err := r.RenderPage(context.Background(), ports.PageData{
		Quote:  "<script>alert(1)</script>",
		Author: "Mallory & Co",
		Date:   "2023-01-01",
	})
	require.NoError(t, err)

	html := string(body)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "Mallory &amp; Co")
}

func TestRenderPage_BlankAuthorFallsBack(t *testing.T) {
	r := newTestRenderer(t, Config{})

	body, err := r.RenderPage(context.Background(), ports.PageData{Quote: "“Q”", Author: "  ", Date: "2023-01-01"})
	require.NoError(t, err)
	assert.Contains(t, string(body), "Unknown")
}

func TestRenderError(t *testing.T) {
	r := newTestRenderer(t, Config{})

	body, err := r.RenderError(context.Background(), ports.ErrorPageData{
		Status:  500,
		Message: "The quote catalog is unavailable.",
		TraceID: "4bf92f3577b34da6a3ce929d0e0e4736",
	})
	require.NoError(t, err)

	html := string(body)
	assert.Contains(t, html, "500 Internal Server Error")
	assert.Contains(t, html, "The quote catalog is unavailable.")
	assert.Contains(t, html, "4bf92f3577b34da6a3ce929d0e0e4736")
}

func TestRenderError_Defaults(t *testing.T) {
	r := newTestRenderer(t, Config{})

	body, err := r.RenderError(context.Background(), ports.ErrorPageData{})
	require.NoError(t, err)

	html := string(body)
	assert.Contains(t, html, "500 Internal Server Error")
	assert.Contains(t, html, "is not available right now")
	assert.NotContains(t, html, "Reference:")
}

func TestNew_CustomPageTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.html")
	require.NoError(t, os.WriteFile(path, []byte(`<p>{{ .Quote }} / {{ .Author | upper }} / {{ .Date }}</p>`), 0o600))

	r := newTestRenderer(t, Config{PageTemplatePath: path})

	body, err := r.RenderPage(context.Background(), ports.PageData{Quote: "“A”", Author: "x", Date: "2024-12-31"})
	require.NoError(t, err)
	assert.Equal(t, "<p>“A” / X / 2024-12-31</p>", string(body))
}

func TestNew_CustomPageTemplateErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := New(Config{PageTemplatePath: filepath.Join(t.TempDir(), "nope.html")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading page template")
	})

	t.Run("parse error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.html")
		require.NoError(t, os.WriteFile(path, []byte(`{{ .Quote `), 0o600))

		_, err := New(Config{PageTemplatePath: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing page template")
	})
}
