package repository

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/carltonupp/upperdine/internal/domain/frontmatter"
	"github.com/carltonupp/upperdine/internal/domain/ordering"
	"github.com/carltonupp/upperdine/internal/domain/types"
)

// Renderer turns a markdown body into HTML.
type Renderer interface {
	Render(src string) (template.HTML, error)
}

// LoadResult is the outcome of reading a posts directory.
type LoadResult struct {
	Posts   []types.Post // newest first
	Skipped []*FileError
}

// Loader reads post files from a filesystem.
type Loader struct {
	renderer Renderer
	pattern  string
}

// NewLoader creates a Loader that renders bodies with r.
func NewLoader(r Renderer, opts ...Option) *Loader {
	l := &Loader{renderer: r, pattern: "*.md"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses every matching file in fsys. Files that fail to parse or
// render are reported in Skipped and left out of Posts. The error is
// non-nil only when the directory itself cannot be read or ctx is done.
func (l *Loader) Load(ctx context.Context, fsys fs.FS) (LoadResult, error) {
	if _, err := fs.Stat(fsys, "."); err != nil {
		return LoadResult{}, fmt.Errorf("%w: %w", ErrReadDir, err)
	}
	names, err := fs.Glob(fsys, l.pattern)
	if err != nil {
		return LoadResult{}, fmt.Errorf("%w: %w", ErrReadDir, err)
	}

	var res LoadResult
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return LoadResult{}, err
		}
		post, err := l.loadOne(fsys, name)
		if err != nil {
			res.Skipped = append(res.Skipped, &FileError{Name: name, Err: err})
			continue
		}
		res.Posts = append(res.Posts, post)
	}
	res.Posts = ordering.DescendingTime(res.Posts, func(p types.Post) time.Time { return p.Date })
	return res, nil
}

func (l *Loader) loadOne(fsys fs.FS, name string) (types.Post, error) {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return types.Post{}, err
	}
	meta, body, err := frontmatter.Parse(SlugFor(name), src)
	if err != nil {
		return types.Post{}, err
	}
	html, err := l.renderer.Render(body)
	if err != nil {
		return types.Post{}, err
	}
	return types.Post{PostMeta: meta, Markdown: body, HTML: html}, nil
}

// SlugFor derives a post slug from its file name.
func SlugFor(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}
