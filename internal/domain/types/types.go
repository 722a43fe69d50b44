// Package types contains the content records shared across the site.
package types

import (
	"html/template"
	"time"
)

// displayDateLayout matches the JavaScript Date.toDateString format the
// site has always shown, e.g. "Mon Jan 01 2001".
const displayDateLayout = "Mon Jan 02 2006"

// Job is one entry of the experience list.
type Job struct {
	Company     string `json:"company" yaml:"company" validate:"required"`
	Title       string `json:"title" yaml:"title" validate:"required"`
	Logo        string `json:"logo" yaml:"logo"`
	Start       string `json:"start" yaml:"start" validate:"required"`
	End         string `json:"end,omitempty" yaml:"end"`
	Description string `json:"description" yaml:"description"`
}

// Period renders "start - end", with "Present" for an ongoing role.
func (j Job) Period() string {
	end := j.End
	if end == "" {
		end = "Present"
	}
	return j.Start + " - " + end
}

// Skill is a technology with a self-assessed proficiency percentage.
type Skill struct {
	Technology string `json:"technology" yaml:"technology" validate:"required"`
	Level      int    `json:"level" yaml:"level" validate:"min=0,max=100"`
}

// SocialLink is a profile link rendered as a social icon.
type SocialLink struct {
	Label string `json:"label" yaml:"label" validate:"required"`
	URL   string `json:"url" yaml:"url" validate:"required,url"`
}

// Profile is the hand-maintained content of the site owner.
type Profile struct {
	Name        string       `json:"name" yaml:"name" validate:"required"`
	Picture     string       `json:"picture" yaml:"picture" validate:"required"`
	PictureAlt  string       `json:"picture_alt" yaml:"picture_alt"`
	Intro       []string     `json:"intro" yaml:"intro"`
	About       []string     `json:"about" yaml:"about"`
	SocialLinks []SocialLink `json:"social_links" yaml:"social_links" validate:"dive"`
	Jobs        []Job        `json:"jobs" yaml:"jobs" validate:"dive"`
	Skills      []Skill      `json:"skills" yaml:"skills" validate:"dive"`
	Copyright   string       `json:"copyright" yaml:"copyright"`
}

// PostMeta is the front matter of a post plus its slug.
type PostMeta struct {
	Slug  string    `json:"slug" validate:"required"`
	Title string    `json:"title" validate:"required"`
	Date  time.Time `json:"date"`
	Blurb string    `json:"blurb"`
}

// DisplayDate formats the publish date for pages.
func (m PostMeta) DisplayDate() string {
	return m.Date.Format(displayDateLayout)
}

// Post is a parsed and rendered markdown post.
type Post struct {
	PostMeta
	Markdown string        `json:"-"`
	HTML     template.HTML `json:"html"`
}
