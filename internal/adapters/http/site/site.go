// Package site serves the server-rendered portfolio pages.
package site

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/carltonupp/upperdine/internal/adapters/http/api"
	"github.com/carltonupp/upperdine/internal/adapters/repository"
	"github.com/carltonupp/upperdine/internal/domain/styling"
	"github.com/carltonupp/upperdine/internal/domain/types"
	"github.com/carltonupp/upperdine/pkg/logger"
	"github.com/carltonupp/upperdine/pkg/metrics"
)

// Dependencies required by the page handlers.
type Dependencies interface {
	Profile(ctx context.Context) types.Profile
	Skills(ctx context.Context) []types.Skill
	Jobs(ctx context.Context) []types.Job
	Posts(ctx context.Context) []types.Post
	RecentPosts(ctx context.Context) []types.Post
	Post(ctx context.Context, slug string) (types.Post, error)
}

// Config carries the third-party embed settings and public URL. Nothing in
// the pages reads these from the environment directly.
type Config struct {
	BaseURL          string
	AnalyticsEnabled bool
	AnalyticsID      string
	CommentsEnabled  bool
	DisqusShortname  string
	// AssetsDir, when set, is served under /assets/.
	AssetsDir string
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for render failures.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithStyler sets the skill gradient styler.
func WithStyler(s *styling.Styler) Option {
	return func(h *Handler) {
		if s != nil {
			h.styler = s
		}
	}
}

// Handler renders the site pages.
type Handler struct {
	deps      Dependencies
	cfg       Config
	log       logger.Logger
	styler    *styling.Styler
	templates map[string]*template.Template
}

// siteData is the layout's view of Config.
type siteData struct {
	AnalyticsEnabled bool
	AnalyticsID      string
	CommentsEnabled  bool
	DisqusShortname  string
}

type pageData struct {
	Site    siteData
	Profile types.Profile
	Posts   []types.Post
	Post    types.Post
	PageURL string
	Skills  []types.Skill
	Jobs    []types.Job
}

// New parses the embedded templates and returns a Handler.
func New(deps Dependencies, cfg Config, opts ...Option) (*Handler, error) {
	h := &Handler{
		deps:   deps,
		cfg:    cfg,
		log:    logger.Nop(),
		styler: styling.NewStyler(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.cfg.BaseURL = strings.TrimRight(h.cfg.BaseURL, "/")

	t, err := parseTemplates(h.styler)
	if err != nil {
		return nil, err
	}
	h.templates = t
	return h, nil
}

// Register attaches the page, static and asset routes to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/", api.MetricsMiddleware(h.HandleHome, "page_home"))
	mux.HandleFunc("/posts", api.MetricsMiddleware(h.HandlePosts, "page_posts"))
	mux.HandleFunc("/about", api.MetricsMiddleware(h.HandleAbout, "page_about"))
	mux.HandleFunc("/post/", api.MetricsMiddleware(h.HandlePost, "page_post"))

	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(StaticFS())))
	if h.cfg.AssetsDir != "" {
		mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(h.cfg.AssetsDir))))
	}
}

// HandleHome handles GET / with the intro and the most recent posts. Any
// other unmatched path is a 404 page.
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.notFound(w, r)
		return
	}
	if !allowRead(w, r) {
		return
	}
	data := h.page(r.Context())
	data.Posts = h.deps.RecentPosts(r.Context())
	h.render(w, r, http.StatusOK, pageHome, data)
}

// HandlePosts handles GET /posts with every post, newest first.
func (h *Handler) HandlePosts(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	data := h.page(r.Context())
	data.Posts = h.deps.Posts(r.Context())
	h.render(w, r, http.StatusOK, pagePosts, data)
}

// HandleAbout handles GET /about with skills strongest first and the
// experience list.
func (h *Handler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	data := h.page(r.Context())
	data.Skills = h.deps.Skills(r.Context())
	data.Jobs = h.deps.Jobs(r.Context())
	h.render(w, r, http.StatusOK, pageAbout, data)
}

// HandlePost handles GET /post/{slug}.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	slug := strings.TrimPrefix(r.URL.Path, "/post/")
	if slug == "" || strings.Contains(slug, "/") {
		h.notFound(w, r)
		return
	}
	post, err := h.deps.Post(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		h.log.Error(r.Context(), "load post", logger.String("slug", slug), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	data := h.page(r.Context())
	data.Post = post
	data.PageURL = h.PostURL(slug)
	h.render(w, r, http.StatusOK, pagePost, data)
}

// PostURL is the public address of a post, used as the comment thread URL.
func (h *Handler) PostURL(slug string) string {
	return h.cfg.BaseURL + "/post/" + slug
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, pageNotFound, h.page(r.Context()))
}

func (h *Handler) page(ctx context.Context) pageData {
	return pageData{
		Site: siteData{
			AnalyticsEnabled: h.cfg.AnalyticsEnabled,
			AnalyticsID:      h.cfg.AnalyticsID,
			CommentsEnabled:  h.cfg.CommentsEnabled,
			DisqusShortname:  h.cfg.DisqusShortname,
		},
		Profile: h.deps.Profile(ctx),
	}
}

// render executes into a buffer first so a template failure never sends a
// half-written page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	var buf bytes.Buffer
	if err := h.templates[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log.Error(r.Context(), "render page",
			logger.String("page", page),
			logger.String("requestId", api.RequestIDFrom(r.Context())),
			logger.Error(errors.Join(ErrRender, err)),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	metrics.RecordPageRender(page)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}
