package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/carltonupp/upperdine/internal/adapters/repository"
	"github.com/carltonupp/upperdine/internal/domain/ordering"
	"github.com/carltonupp/upperdine/internal/domain/profile"
	"github.com/carltonupp/upperdine/internal/domain/types"
)

type fakeContent struct {
	profile types.Profile
	posts   []types.Post
	postErr error
}

func (f *fakeContent) Profile(context.Context) types.Profile { return f.profile }
func (f *fakeContent) Jobs(context.Context) []types.Job      { return f.profile.Jobs }
func (f *fakeContent) Posts(context.Context) []types.Post    { return f.posts }

func (f *fakeContent) Skills(context.Context) []types.Skill {
	return ordering.Descending(f.profile.Skills, func(s types.Skill) int { return s.Level })
}

func (f *fakeContent) RecentPosts(context.Context) []types.Post {
	return f.posts[:min(5, len(f.posts))]
}

func (f *fakeContent) Post(_ context.Context, slug string) (types.Post, error) {
	if f.postErr != nil {
		return types.Post{}, f.postErr
	}
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return types.Post{}, repository.ErrNotFound
}

func samplePosts(n int) []types.Post {
	var out []types.Post
	for i := n; i >= 1; i-- {
		out = append(out, types.Post{
			PostMeta: types.PostMeta{
				Slug:  "post-" + string(rune('a'+i-1)),
				Title: "Post " + string(rune('A'+i-1)),
				Date:  time.Date(2001, time.January, i, 0, 0, 0, 0, time.UTC),
				Blurb: "A short blurb",
			},
			HTML: "<p>Hello <strong>world</strong></p>",
		})
	}
	return out
}

func newMux(deps Dependencies, cfg Config) *http.ServeMux {
	h, err := New(deps, cfg)
	So(err, ShouldBeNil)
	mux := http.NewServeMux()
	h.Register(context.Background(), mux)
	return mux
}

func get(mux http.Handler, path string) (*httptest.ResponseRecorder, *goquery.Document) {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	So(err, ShouldBeNil)
	return w, doc
}

func TestHomePage(t *testing.T) {
	Convey("Given the site with seven posts", t, func() {
		mux := newMux(&fakeContent{profile: profile.Default(), posts: samplePosts(7)}, Config{})

		Convey("When requesting the home page", func() {
			w, doc := get(mux, "/")

			Convey("Then it should contain an image", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "text/html; charset=utf-8")
				So(doc.Find("img").Length(), ShouldBeGreaterThan, 0)
			})

			Convey("And three social links", func() {
				So(doc.Find("a.social-icon").Length(), ShouldEqual, 3)
			})

			Convey("And the first heading should say recent posts", func() {
				So(doc.Find("h1").First().Text(), ShouldEqual, "Recent Posts")
			})

			Convey("And only the five newest posts should be listed", func() {
				cards := doc.Find(".post-card")
				So(cards.Length(), ShouldEqual, 5)
				So(cards.First().Find("h1").Text(), ShouldEqual, "Post G")
				href, _ := cards.First().Find("a").Attr("href")
				So(href, ShouldEqual, "/post/post-g")
			})

			Convey("And the page title should be the owner's name", func() {
				So(doc.Find("title").Text(), ShouldEqual, "Carlton Upperdine")
			})
		})

		Convey("When requesting an unknown path", func() {
			w, doc := get(mux, "/nowhere")

			Convey("Then a not found page should be served", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(doc.Find(".page-heading").Text(), ShouldEqual, "Not found")
			})
		})

		Convey("When posting to the home page", func() {
			req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should be rejected", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestPostsPage(t *testing.T) {
	Convey("Given the site without posts", t, func() {
		mux := newMux(&fakeContent{profile: profile.Default()}, Config{})

		Convey("Then the posts page should say so", func() {
			_, doc := get(mux, "/posts")
			So(doc.Find(".empty").Text(), ShouldEqual, "No posts yet - check in soon!")
			So(doc.Find(".post-card").Length(), ShouldEqual, 0)
			So(doc.Find("title").Text(), ShouldEqual, "Posts | Carlton Upperdine")
		})
	})

	Convey("Given the site with seven posts", t, func() {
		mux := newMux(&fakeContent{profile: profile.Default(), posts: samplePosts(7)}, Config{})

		Convey("Then every post should be listed with its date", func() {
			_, doc := get(mux, "/posts")
			So(doc.Find(".empty").Length(), ShouldEqual, 0)
			So(doc.Find(".post-card").Length(), ShouldEqual, 7)
			So(doc.Find(".post-card .published").Last().Text(), ShouldEqual, "Published: Mon Jan 01 2001")
		})
	})
}

func TestAboutPage(t *testing.T) {
	Convey("Given the site with the default profile", t, func() {
		mux := newMux(&fakeContent{profile: profile.Default()}, Config{})
		_, doc := get(mux, "/about")

		Convey("Then skills should be strongest first", func() {
			skills := doc.Find(".skill")
			So(skills.Length(), ShouldEqual, 12)
			So(skills.First().Text(), ShouldEqual, "C#")

			prev := 101
			skills.Each(func(_ int, s *goquery.Selection) {
				level, _ := s.Attr("data-level")
				n, err := strconv.Atoi(level)
				So(err, ShouldBeNil)
				So(n, ShouldBeLessThanOrEqualTo, prev)
				prev = n
			})
		})

		Convey("Then each skill should carry its gradient", func() {
			style, ok := doc.Find(".skill").First().Attr("style")
			So(ok, ShouldBeTrue)
			So(style, ShouldEqual, "background: linear-gradient(to right, rgba(101, 221, 131, 0.5) 100%, white 0%)")

			goSkill := doc.Find(".skill").FilterFunction(func(_ int, s *goquery.Selection) bool { return s.Text() == "Go" })
			style, _ = goSkill.Attr("style")
			So(style, ShouldEqual, "background: linear-gradient(to right, rgba(223, 162, 30, 0.5) 60%, white 40%)")
		})

		Convey("Then the experience list should render", func() {
			jobs := doc.Find(".job")
			So(jobs.Length(), ShouldEqual, 4)
			So(jobs.First().Find(".company").Text(), ShouldEqual, "BJSS")
			So(jobs.First().Find(".period").Text(), ShouldEqual, "September 2022 - Present")
		})
	})
}

func TestPostPage(t *testing.T) {
	Convey("Given the site with comments and analytics enabled", t, func() {
		content := &fakeContent{profile: profile.Default(), posts: samplePosts(1)}
		mux := newMux(content, Config{
			BaseURL:          "https://carlton.upperdine.dev/",
			AnalyticsEnabled: true,
			AnalyticsID:      "G-TEST",
			CommentsEnabled:  true,
			DisqusShortname:  "upperdine",
		})

		Convey("When requesting a post", func() {
			w, doc := get(mux, "/post/post-a")

			Convey("Then it should render the post", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(doc.Find(".post-title").Text(), ShouldEqual, "Post A")
				So(doc.Find(".post .published").Text(), ShouldEqual, "Published: Mon Jan 01 2001")
				So(doc.Find(".post-body strong").Text(), ShouldEqual, "world")
				So(doc.Find("title").Text(), ShouldEqual, "Post A by Carlton Upperdine")
			})

			Convey("And it should embed the comment thread for the post", func() {
				thread := doc.Find("#disqus_thread")
				So(thread.Length(), ShouldEqual, 1)
				url, _ := thread.Attr("data-url")
				id, _ := thread.Attr("data-identifier")
				So(url, ShouldEqual, "https://carlton.upperdine.dev/post/post-a")
				So(id, ShouldEqual, "post-a")
			})

			Convey("And it should include analytics", func() {
				src, ok := doc.Find(`script[src^="https://www.googletagmanager.com"]`).Attr("src")
				So(ok, ShouldBeTrue)
				So(src, ShouldEqual, "https://www.googletagmanager.com/gtag/js?id=G-TEST")
			})
		})

		Convey("When requesting a missing post", func() {
			w, _ := get(mux, "/post/nope")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the post lookup fails", func() {
			content.postErr = errors.New("disk on fire")
			req := httptest.NewRequest(http.MethodGet, "/post/post-a", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})

	Convey("Given the site with third-party embeds disabled", t, func() {
		mux := newMux(&fakeContent{profile: profile.Default(), posts: samplePosts(1)}, Config{})
		_, doc := get(mux, "/post/post-a")

		Convey("Then neither comments nor analytics should be present", func() {
			So(doc.Find("#disqus_thread").Length(), ShouldEqual, 0)
			So(doc.Find("script").Length(), ShouldEqual, 0)
		})
	})
}

func TestStaticAndAssets(t *testing.T) {
	Convey("Given the site with an assets directory", t, func() {
		dir := t.TempDir()
		So(os.MkdirAll(filepath.Join(dir, "companies"), 0o755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, "companies", "bjss.svg"), []byte("<svg/>"), 0o600), ShouldBeNil)
		mux := newMux(&fakeContent{profile: profile.Default()}, Config{AssetsDir: dir})

		Convey("Then the embedded stylesheet should be served", func() {
			req := httptest.NewRequest(http.MethodGet, "/static/site.css", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, ".skill")
		})

		Convey("Then the default picture should be served", func() {
			req := httptest.NewRequest(http.MethodGet, "/static/pfp.svg", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then files from the assets directory should be served", func() {
			req := httptest.NewRequest(http.MethodGet, "/assets/companies/bjss.svg", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "<svg/>")
		})
	})
}

func TestRegisterWithNilMux(t *testing.T) {
	Convey("Given a handler", t, func() {
		h, err := New(&fakeContent{}, Config{})
		So(err, ShouldBeNil)

		Convey("Then registering on a nil mux should panic", func() {
			So(func() { h.Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}

func TestInitial(t *testing.T) {
	Convey("Given the initial template func", t, func() {
		initial := funcs(nil)["initial"].(func(string) string)
		So(initial("github"), ShouldEqual, "G")
		So(initial(""), ShouldEqual, "?")
	})
}
