package markdown

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

const defaultWrap = 80

// TerminalOption configures RenderTerminal.
type TerminalOption func(*terminalSettings)

type terminalSettings struct {
	style string
	wrap  int
}

// WithStyle picks a glamour standard style: dark, light, notty, ascii...
func WithStyle(style string) TerminalOption {
	return func(s *terminalSettings) {
		if style != "" {
			s.style = style
		}
	}
}

// WithWordWrap sets the wrap width in columns.
func WithWordWrap(width int) TerminalOption {
	return func(s *terminalSettings) {
		if width > 0 {
			s.wrap = width
		}
	}
}

// RenderTerminal renders src for display in a terminal.
func RenderTerminal(src string, opts ...TerminalOption) (string, error) {
	s := terminalSettings{style: "dark", wrap: defaultWrap}
	for _, opt := range opts {
		opt(&s)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(s.style),
		glamour.WithWordWrap(s.wrap),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	out, err := r.Render(src)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRender, err)
	}
	return out, nil
}
