package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/carltonupp/upperdine/internal/domain/types"
)

// JobsDependencies defines the interface for experience reads.
type JobsDependencies interface {
	Jobs(ctx context.Context) []types.Job
}

// JobsHandler handles job requests.
type JobsHandler struct {
	deps JobsDependencies
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobsDependencies) *JobsHandler {
	return &JobsHandler{deps: deps}
}

// HandleGetJobs handles GET /api/jobs requests.
func (h *JobsHandler) HandleGetJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(h.deps.Jobs(r.Context())))
}

// SkillsDependencies defines the interface for skill reads.
type SkillsDependencies interface {
	// Profile returns the skills in the order they are written.
	Profile(ctx context.Context) types.Profile
	// Skills returns the skills strongest first.
	Skills(ctx context.Context) []types.Skill
}

// SkillsHandler handles skill requests.
type SkillsHandler struct {
	deps SkillsDependencies
}

// NewSkillsHandler creates a new skills handler.
func NewSkillsHandler(deps SkillsDependencies) *SkillsHandler {
	return &SkillsHandler{deps: deps}
}

// HandleGetSkills handles GET /api/skills?sort=level requests.
func (h *SkillsHandler) HandleGetSkills(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_skills"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	switch r.URL.Query().Get("sort") {
	case "":
		writeJSON(w, http.StatusOK, nonNil(h.deps.Profile(r.Context()).Skills))
	case "level":
		writeJSON(w, http.StatusOK, nonNil(h.deps.Skills(r.Context())))
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
	}
}

// PostsDependencies defines the interface for post reads.
type PostsDependencies interface {
	Posts(ctx context.Context) []types.Post
	LatestPosts(ctx context.Context, n int) ([]types.Post, error)
	Post(ctx context.Context, slug string) (types.Post, error)
}

// PostsHandler handles post requests.
type PostsHandler struct {
	deps     PostsDependencies
	maxLimit int
}

// NewPostsHandler creates a new posts handler.
func NewPostsHandler(deps PostsDependencies, maxLimit int) *PostsHandler {
	return &PostsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleListPosts handles GET /api/posts?limit=N requests. Without a limit
// every post is returned, newest first.
func (h *PostsHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_posts"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	var posts []types.Post
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		posts = h.deps.Posts(r.Context())
	} else {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if h.maxLimit > 0 && n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		posts, err = h.deps.LatestPosts(r.Context(), n)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
	}

	out := make([]PostSummary, len(posts))
	for i, p := range posts {
		out[i] = p.PostMeta
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetPost handles GET /api/posts/{slug} requests.
func (h *PostsHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_post"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /api/posts/
	slug := strings.TrimPrefix(r.URL.Path, "/api/posts/")
	if slug == "" || strings.Contains(slug, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	post, err := h.deps.Post(r.Context(), slug)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
