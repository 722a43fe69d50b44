package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/carltonupp/upperdine/internal/adapters/http/api"
	"github.com/carltonupp/upperdine/internal/adapters/repository"
	"github.com/carltonupp/upperdine/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockContent struct {
	profile   types.Profile
	posts     []types.Post
	latestErr error
	postErr   error
}

func (m *mockContent) Profile(ctx context.Context) types.Profile { return m.profile }

func (m *mockContent) Jobs(ctx context.Context) []types.Job { return m.profile.Jobs }

func (m *mockContent) Skills(ctx context.Context) []types.Skill {
	out := make([]types.Skill, len(m.profile.Skills))
	copy(out, m.profile.Skills)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Level > out[j-1].Level; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (m *mockContent) Posts(ctx context.Context) []types.Post { return m.posts }

func (m *mockContent) LatestPosts(ctx context.Context, n int) ([]types.Post, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	if n > len(m.posts) {
		return m.posts, nil
	}
	return m.posts[:n], nil
}

func (m *mockContent) Post(ctx context.Context, slug string) (types.Post, error) {
	if m.postErr != nil {
		return types.Post{}, m.postErr
	}
	for _, p := range m.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return types.Post{}, repository.ErrNotFound
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newContent() *mockContent {
	var posts []types.Post
	for i := 3; i >= 1; i-- {
		posts = append(posts, types.Post{
			PostMeta: types.PostMeta{
				Slug:  fmt.Sprintf("post-%d", i),
				Title: fmt.Sprintf("Post %d", i),
				Date:  time.Date(2023, time.January, i, 0, 0, 0, 0, time.UTC),
				Blurb: "blurb",
			},
			Markdown: "# Post",
			HTML:     "<h1>Post</h1>",
		})
	}
	return &mockContent{
		profile: types.Profile{
			Name: "Test",
			Jobs: []types.Job{
				{Company: "BJSS", Title: "Lead Software Engineer", Start: "September 2022"},
				{Company: "Smoothwall", Title: "Senior Software Engineer", Start: "March 2021", End: "September 2022"},
			},
			Skills: []types.Skill{
				{Technology: "Go", Level: 60},
				{Technology: "C#", Level: 100},
				{Technology: "SQL Server", Level: 70},
			},
		},
		posts: posts,
	}
}

func serve(mux http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newContent()
		statsProvider := &mockStatsProvider{stats: map[string]interface{}{"started": true, "posts": 3}}
		server := api.NewServer(deps, statsProvider, 50)
		mux := http.NewServeMux()

		Convey("When registering routes", func() {
			server.Register(context.Background(), mux)

			Convey("Then health endpoint should serve metrics", func() {
				w := serve(mux, "GET", "/healthz")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "upperdine_")
			})

			Convey("And stats endpoint should be accessible", func() {
				w := serve(mux, "GET", "/stats")
				So(w.Code, ShouldEqual, http.StatusOK)
				var stats map[string]interface{}
				So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["started"], ShouldEqual, true)
			})

			Convey("And content endpoints should be accessible", func() {
				for _, path := range []string{"/api/jobs", "/api/skills", "/api/posts", "/api/posts/post-1"} {
					So(serve(mux, "GET", path).Code, ShouldEqual, http.StatusOK)
				}
			})
		})
	})
}

func TestJobsHandler(t *testing.T) {
	Convey("Given a jobs handler", t, func() {
		handler := api.NewJobsHandler(newContent())

		Convey("When requesting the jobs", func() {
			w := serve(http.HandlerFunc(handler.HandleGetJobs), "GET", "/api/jobs")

			Convey("Then they should be returned in written order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				var jobs []types.Job
				So(json.Unmarshal(w.Body.Bytes(), &jobs), ShouldBeNil)
				So(jobs, ShouldHaveLength, 2)
				So(jobs[0].Company, ShouldEqual, "BJSS")
				So(jobs[1].End, ShouldEqual, "September 2022")
			})

			Convey("And an ongoing job should omit its end", func() {
				So(w.Body.String(), ShouldNotContainSubstring, `"end":""`)
			})
		})

		Convey("When there are no jobs", func() {
			handler := api.NewJobsHandler(&mockContent{})
			w := serve(http.HandlerFunc(handler.HandleGetJobs), "GET", "/api/jobs")

			Convey("Then an empty array should be returned", func() {
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})
		})

		Convey("When handling a non-GET request", func() {
			w := serve(http.HandlerFunc(handler.HandleGetJobs), "POST", "/api/jobs")

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSkillsHandler(t *testing.T) {
	Convey("Given a skills handler", t, func() {
		handler := http.HandlerFunc(api.NewSkillsHandler(newContent()).HandleGetSkills)

		Convey("When requesting skills without sorting", func() {
			var skills []types.Skill
			w := serve(handler, "GET", "/api/skills")
			So(json.Unmarshal(w.Body.Bytes(), &skills), ShouldBeNil)

			Convey("Then they should keep the written order", func() {
				So(skills[0].Technology, ShouldEqual, "Go")
			})
		})

		Convey("When requesting skills sorted by level", func() {
			var skills []types.Skill
			w := serve(handler, "GET", "/api/skills?sort=level")
			So(json.Unmarshal(w.Body.Bytes(), &skills), ShouldBeNil)

			Convey("Then the strongest should come first", func() {
				So(skills[0].Technology, ShouldEqual, "C#")
				So(skills[1].Technology, ShouldEqual, "SQL Server")
				So(skills[2].Technology, ShouldEqual, "Go")
			})
		})

		Convey("When an unknown sort is requested", func() {
			w := serve(handler, "GET", "/api/skills?sort=name")

			Convey("Then it should return 400 Bad Request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				var resp map[string]string
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "bad_request")
				So(resp["message"], ShouldContainSubstring, "api.get_skills")
			})
		})
	})
}

func TestPostsHandler(t *testing.T) {
	Convey("Given a posts handler", t, func() {
		deps := newContent()
		handler := api.NewPostsHandler(deps, 10)
		list := http.HandlerFunc(handler.HandleListPosts)
		get := http.HandlerFunc(handler.HandleGetPost)

		Convey("When listing every post", func() {
			w := serve(list, "GET", "/api/posts")
			var posts []map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &posts), ShouldBeNil)

			Convey("Then summaries should be returned newest first", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(posts, ShouldHaveLength, 3)
				So(posts[0]["slug"], ShouldEqual, "post-3")
				So(posts[0], ShouldNotContainKey, "html")
			})
		})

		Convey("When listing with a limit", func() {
			w := serve(list, "GET", "/api/posts?limit=2")
			var posts []api.PostSummary
			So(json.Unmarshal(w.Body.Bytes(), &posts), ShouldBeNil)

			Convey("Then only that many should be returned", func() {
				So(posts, ShouldHaveLength, 2)
			})
		})

		Convey("When the limit is invalid", func() {
			for _, q := range []string{"0", "-1", "abc"} {
				w := serve(list, "GET", "/api/posts?limit="+q)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the limit exceeds the maximum", func() {
			w := serve(list, "GET", "/api/posts?limit=11")

			Convey("Then it should return limit_exceeded", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "limit_exceeded")
			})
		})

		Convey("When the store fails", func() {
			deps.latestErr = errors.New("store unavailable")
			w := serve(list, "GET", "/api/posts?limit=2")

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When requesting an existing post", func() {
			w := serve(get, "GET", "/api/posts/post-2")
			var post map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &post), ShouldBeNil)

			Convey("Then it should include the rendered body", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(post["title"], ShouldEqual, "Post 2")
				So(post["html"], ShouldEqual, "<h1>Post</h1>")
				So(post, ShouldNotContainKey, "Markdown")
			})
		})

		Convey("When requesting a non-existent post", func() {
			w := serve(get, "GET", "/api/posts/missing")

			Convey("Then it should return not found status", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, "not_found")
			})
		})

		Convey("When the slug is empty or nested", func() {
			So(serve(get, "GET", "/api/posts/").Code, ShouldEqual, http.StatusBadRequest)
			So(serve(get, "GET", "/api/posts/a/b").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the lookup fails for another reason", func() {
			deps.postErr = errors.New("disk on fire")
			w := serve(get, "GET", "/api/posts/post-1")

			Convey("Then it should return internal server error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestRequestID(t *testing.T) {
	Convey("Given a handler behind the request id middleware", t, func() {
		var seen string
		h := api.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFrom(r.Context())
		}))

		Convey("When the client sends no id", func() {
			w := serve(h, "GET", "/")

			Convey("Then one should be generated and echoed", func() {
				So(seen, ShouldHaveLength, 36)
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, seen)
			})
		})

		Convey("When the client sends an id", func() {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it should be kept", func() {
				So(seen, ShouldEqual, "abc-123")
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})

		Convey("When the client id is oversized", func() {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set(api.RequestIDHeader, strings.Repeat("x", 500))
			h.ServeHTTP(httptest.NewRecorder(), req)

			Convey("Then it should be replaced", func() {
				So(seen, ShouldHaveLength, 36)
			})
		})
	})
}

func TestOpError(t *testing.T) {
	Convey("Given wrapped API errors", t, func() {
		cause := errors.New("cause")

		Convey("Then kinds and causes should both match", func() {
			err := api.WrapKind("api.op", api.ErrNotFound, cause)
			So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: not found: cause")
		})

		Convey("Then NewKind should carry only the kind", func() {
			err := api.NewKind("api.op", api.ErrBadRequest)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request")
		})

		Convey("Then wrapping nil should stay nil", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(api.WrapKind("api.op", api.ErrInternal, nil), ShouldBeNil)
		})

		Convey("Then errors.As should find the operation", func() {
			var opErr *api.OpError
			So(errors.As(api.Wrap("api.op", cause), &opErr), ShouldBeTrue)
			So(opErr.Op, ShouldEqual, "api.op")
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler wrapped with metrics", t, func() {
		h := api.MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		}, "teapot")

		Convey("Then the wrapped status and body should pass through", func() {
			w := serve(h, "GET", "/")
			So(w.Code, ShouldEqual, http.StatusTeapot)
			So(w.Body.String(), ShouldEqual, "short and stout")
		})
	})
}
