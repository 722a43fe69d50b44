package markdown

import "errors"

// ErrRender wraps failures from the underlying renderers.
var ErrRender = errors.New("markdown render failed")
