// Package frontmatter splits a markdown post into its YAML header and body.
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/carltonupp/upperdine/internal/domain/types"
)

const fence = "---"

var validate = validator.New()

// header mirrors the YAML keys a post may declare.
type header struct {
	Title string `yaml:"title"`
	Date  Date   `yaml:"date"`
	Blurb string `yaml:"blurb"`
}

// Parse reads a post file and returns its metadata and markdown body.
func Parse(slug string, src []byte) (types.PostMeta, string, error) {
	front, body, err := Split(src)
	if err != nil {
		return types.PostMeta{}, "", err
	}

	var h header
	if err := yaml.Unmarshal([]byte(front), &h); err != nil {
		return types.PostMeta{}, "", fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}
	if h.Date.IsZero() {
		return types.PostMeta{}, "", ErrMissingDate
	}

	meta := types.PostMeta{
		Slug:  slug,
		Title: strings.TrimSpace(h.Title),
		Date:  h.Date.Time,
		Blurb: strings.TrimSpace(h.Blurb),
	}
	if err := validate.Struct(meta); err != nil {
		return types.PostMeta{}, "", fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}
	return meta, body, nil
}

// Split separates the text between the leading "---" fences from the rest.
func Split(src []byte) (front, body string, err error) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	text := strings.ReplaceAll(string(src), "\r\n", "\n")

	lines := strings.SplitAfter(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t\n") != fence {
		return "", "", ErrNoFrontMatter
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t\n") == fence {
			front = strings.Join(lines[1:i], "")
			body = strings.Join(lines[i+1:], "")
			return front, body, nil
		}
	}
	return "", "", ErrUnterminated
}

// dateLayouts are tried in order. The slash form is month-first, which is how
// the posts have always been read.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// Date is a front matter date that accepts the layouts in dateLayouts.
type Date struct {
	time.Time
}

// ParseDate parses s with the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// UnmarshalYAML implements yaml.Unmarshaler. It reads the raw scalar so
// YAML's own timestamp resolution never changes the result.
func (d *Date) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: not a scalar", ErrInvalidDate, n.Line)
	}
	if n.Value == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(n.Value)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
