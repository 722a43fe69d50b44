// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carltonupp/upperdine/internal/adapters/repository"
	"github.com/carltonupp/upperdine/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	JobsDependencies
	SkillsDependencies
	PostsDependencies
}

// Server wires HTTP routes for the content API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	jobsHandler   *JobsHandler
	skillsHandler *SkillsHandler
	postsHandler  *PostsHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// limit query parameter of /api/posts.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		jobsHandler:   NewJobsHandler(deps),
		skillsHandler: NewSkillsHandler(deps),
		postsHandler:  NewPostsHandler(deps, maxLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/jobs", MetricsMiddleware(s.jobsHandler.HandleGetJobs, "jobs"))
	mux.HandleFunc("/api/skills", MetricsMiddleware(s.skillsHandler.HandleGetSkills, "skills"))
	mux.HandleFunc("/api/posts", MetricsMiddleware(s.postsHandler.HandleListPosts, "posts"))
	mux.HandleFunc("/api/posts/", MetricsMiddleware(s.postsHandler.HandleGetPost, "post"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) || errors.Is(err, ErrNotFound)
}

// PostSummary is the list shape of a post: metadata without the body.
type PostSummary = types.PostMeta
