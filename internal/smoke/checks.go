package smoke

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/carltonupp/upperdine/internal/domain/ordering"
	"github.com/carltonupp/upperdine/internal/domain/types"
)

// checkHome verifies the home page: a picture, the social links and the
// recent posts heading before anything else.
func checkHome(ctx context.Context, c *httpClient, cfg Config) error {
	doc, err := c.getPage(ctx, "/")
	if err != nil {
		return err
	}
	if doc.Find("img").Length() == 0 {
		return fmt.Errorf("home: no image")
	}
	if n := doc.Find("a.social-icon").Length(); n != cfg.SocialLinks {
		return fmt.Errorf("home: %d social links, want %d", n, cfg.SocialLinks)
	}
	if h := strings.TrimSpace(doc.Find("h1").First().Text()); h != "Recent Posts" {
		return fmt.Errorf("home: first heading %q, want %q", h, "Recent Posts")
	}
	return nil
}

// checkPosts verifies the post list is newest first and that every post is
// reachable as JSON and as a page. Per-post requests run concurrently.
func checkPosts(ctx context.Context, c *httpClient, cfg Config) error {
	var posts []types.PostMeta
	if err := c.getJSON(ctx, "/api/posts", &posts); err != nil {
		return err
	}
	if !ordering.IsDescending(posts, func(p types.PostMeta) int64 { return p.Date.UnixNano() }) {
		return fmt.Errorf("posts: not ordered newest first")
	}

	doc, err := c.getPage(ctx, "/posts")
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		if !strings.Contains(doc.Find(".empty").Text(), "No posts yet") {
			return fmt.Errorf("posts: empty list without the placeholder message")
		}
		return nil
	}
	if n := doc.Find(".post-card").Length(); n != len(posts) {
		return fmt.Errorf("posts: page lists %d posts, api has %d", n, len(posts))
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, p := range posts {
		g.Go(func() error {
			var full types.Post
			if err := c.getJSON(gCtx, "/api/posts/"+p.Slug, &full); err != nil {
				return err
			}
			if full.Title != p.Title {
				return fmt.Errorf("post %s: title %q, list says %q", p.Slug, full.Title, p.Title)
			}
			page, err := c.getPage(gCtx, "/post/"+p.Slug)
			if err != nil {
				return err
			}
			want := "Published: " + p.DisplayDate()
			if got := strings.TrimSpace(page.Find(".published").First().Text()); got != want {
				return fmt.Errorf("post %s: %q, want %q", p.Slug, got, want)
			}
			return nil
		})
	}
	return g.Wait()
}

// checkAbout verifies the skills grid matches the API, strongest first.
func checkAbout(ctx context.Context, c *httpClient, _ Config) error {
	var skills []types.Skill
	if err := c.getJSON(ctx, "/api/skills?sort=level", &skills); err != nil {
		return err
	}
	if !ordering.IsDescending(skills, func(s types.Skill) int { return s.Level }) {
		return fmt.Errorf("skills: not ordered by level")
	}

	doc, err := c.getPage(ctx, "/about")
	if err != nil {
		return err
	}
	cards := doc.Find(".skill")
	if cards.Length() != len(skills) {
		return fmt.Errorf("about: %d skills shown, api has %d", cards.Length(), len(skills))
	}
	var mismatch error
	cards.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if got := strings.TrimSpace(s.Text()); got != skills[i].Technology {
			mismatch = fmt.Errorf("about: skill %d is %q, want %q", i, got, skills[i].Technology)
			return false
		}
		if style, _ := s.Attr("style"); !strings.Contains(style, "linear-gradient") {
			mismatch = fmt.Errorf("about: skill %q has no gradient", skills[i].Technology)
			return false
		}
		return true
	})
	return mismatch
}

// checkHealth verifies the metrics endpoint answers.
func checkHealth(ctx context.Context, c *httpClient, _ Config) error {
	resp, err := c.get(ctx, "/healthz", http.StatusOK)
	if err != nil {
		return err
	}
	return drain(resp)
}

type check struct {
	name string
	run  func(context.Context, *httpClient, Config) error
}

var checks = []check{
	{name: "health", run: checkHealth},
	{name: "home", run: checkHome},
	{name: "posts", run: checkPosts},
	{name: "about", run: checkAbout},
}

func timed(ctx context.Context, c check, client *httpClient, cfg Config) Result {
	start := time.Now()
	err := c.run(ctx, client, cfg)
	return Result{Name: c.name, Err: err, Duration: time.Since(start)}
}
