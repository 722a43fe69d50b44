package site

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/carltonupp/upperdine/internal/domain/styling"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Page names, also used as the page label in metrics.
const (
	pageHome     = "home"
	pagePosts    = "posts"
	pageAbout    = "about"
	pagePost     = "post"
	pageNotFound = "notfound"
)

var pages = []string{pageHome, pagePosts, pageAbout, pagePost, pageNotFound}

// funcs are shared by every page.
func funcs(styler *styling.Styler) template.FuncMap {
	return template.FuncMap{
		// gradient is trusted CSS: the styler only emits linear-gradient
		// values built from integers and palette colors.
		"gradient": func(level int) template.CSS {
			return template.CSS(styler.Compute(level)) //nolint:gosec // generated, see above
		},
		"initial": func(s string) string {
			r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
			if r == utf8.RuneError {
				return "?"
			}
			return string(unicode.ToUpper(r))
		},
	}
}

// parseTemplates builds one template set per page, each holding the shared
// layout plus that page's title and content blocks.
func parseTemplates(styler *styling.Styler) (map[string]*template.Template, error) {
	base, err := template.New("layout.html").Funcs(funcs(styler)).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
		}
		t, err := clone.ParseFS(templateFS, "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, page, err)
		}
		out[page] = t
	}
	return out, nil
}

// StaticFS returns an http.FileSystem for the embedded stylesheet and
// default profile picture.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Should never happen; the directory is embedded.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
