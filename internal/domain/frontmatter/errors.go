package frontmatter

import "errors"

// Sentinel kinds for post parsing errors.
var (
	ErrNoFrontMatter      = errors.New("missing front matter")
	ErrUnterminated       = errors.New("unterminated front matter")
	ErrInvalidFrontMatter = errors.New("invalid front matter")
	ErrMissingDate        = errors.New("front matter has no date")
	ErrInvalidDate        = errors.New("invalid date")
)
