package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/carltonupp/upperdine/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":3000")
			convey.So(cfg.PostsDir, convey.ShouldEqual, "posts")
			convey.So(cfg.RecentPosts, convey.ShouldEqual, 5)
			convey.So(cfg.WatchPosts, convey.ShouldBeTrue)
			convey.So(cfg.ReloadDebounce(), convey.ShouldEqual, 250*time.Millisecond)
			convey.So(cfg.AnalyticsEnabled, convey.ShouldBeFalse)
			convey.So(cfg.CommentsEnabled, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config", t, func() {
		cfg := config.New()

		convey.Convey("When recent_posts is zero", func() {
			cfg.RecentPosts = 0
			err := cfg.Validate()

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "recent_posts")
			})
		})

		convey.Convey("When comments are enabled without a shortname", func() {
			cfg.CommentsEnabled = true
			err := cfg.Validate()

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "disqus_shortname")
			})
		})

		convey.Convey("When analytics is enabled without an id", func() {
			cfg.AnalyticsEnabled = true
			cfg.AnalyticsID = " "
			err := cfg.Validate()

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the debounce is negative", func() {
			cfg.ReloadDebounceMS = -1

			convey.Convey("Then it should be rejected", func() {
				convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			})
		})
	})
}
