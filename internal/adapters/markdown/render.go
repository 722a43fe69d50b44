// Package markdown renders post bodies to HTML and to the terminal.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/carltonupp/upperdine/pkg/metrics"
)

// Renderer converts markdown to HTML. Raw HTML in posts is not passed
// through. Safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer with GitHub-flavoured markdown enabled.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts src to HTML.
func (r *Renderer) Render(src string) (template.HTML, error) {
	start := time.Now()
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	metrics.RecordMarkdownRender(float64(time.Since(start).Microseconds()) / 1000)
	//nolint:gosec // goldmark escapes raw HTML unless html.WithUnsafe is set
	return template.HTML(buf.String()), nil
}
