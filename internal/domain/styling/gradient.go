// Package styling turns skill proficiency into the CSS background of a skill card.
package styling

import (
	"errors"
	"fmt"
)

// Band thresholds. Comparisons are strict: 80 is amber, 50 is red.
const (
	greenAbove = 80
	amberAbove = 50

	// Gradients only fill reliably up to a stop at or past the midpoint, so
	// minority fills are painted from the opposite edge.
	reverseBelow = 50

	minPercentage = 0
	maxPercentage = 100
)

// ErrOutOfRange is returned by ComputeStrict for percentages outside [0, 100].
var ErrOutOfRange = errors.New("percentage out of range")

// Band is the fill color class of a proficiency.
type Band int

const (
	Red Band = iota
	Amber
	Green
)

func (b Band) String() string {
	switch b {
	case Green:
		return "green"
	case Amber:
		return "amber"
	default:
		return "red"
	}
}

// BandFor classifies a percentage.
func BandFor(percentage int) Band {
	switch {
	case percentage > greenAbove:
		return Green
	case percentage > amberAbove:
		return Amber
	default:
		return Red
	}
}

// Palette maps bands to fill color identifiers. Values are emitted verbatim,
// so they may be literal colors or custom properties like var(--skill-green).
type Palette struct {
	Green string
	Amber string
	Red   string
}

// DefaultPalette is the translucent RGBA palette the site ships with.
var DefaultPalette = Palette{
	Green: "rgba(101, 221, 131, 0.5)",
	Amber: "rgba(223, 162, 30, 0.5)",
	Red:   "rgba(190, 62, 62, 0.5)",
}

// Color returns the identifier for a band.
func (p Palette) Color(b Band) string {
	switch b {
	case Green:
		return p.Green
	case Amber:
		return p.Amber
	default:
		return p.Red
	}
}

// Option configures a Styler.
type Option func(*Styler)

// WithPalette replaces the fill colors. Empty entries keep the default.
func WithPalette(p Palette) Option {
	return func(s *Styler) {
		if p.Green != "" {
			s.palette.Green = p.Green
		}
		if p.Amber != "" {
			s.palette.Amber = p.Amber
		}
		if p.Red != "" {
			s.palette.Red = p.Red
		}
	}
}

// Styler computes gradient descriptors. It holds no mutable state and is
// safe for concurrent use.
type Styler struct {
	palette Palette
}

// NewStyler creates a Styler using DefaultPalette unless overridden.
func NewStyler(opts ...Option) *Styler {
	s := &Styler{palette: DefaultPalette}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compute returns the linear-gradient for percentage, clamping it to [0, 100].
func (s *Styler) Compute(percentage int) string {
	return s.gradient(clamp(percentage))
}

// ComputeStrict is Compute without clamping.
func (s *Styler) ComputeStrict(percentage int) (string, error) {
	if percentage < minPercentage || percentage > maxPercentage {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, percentage)
	}
	return s.gradient(percentage), nil
}

func (s *Styler) gradient(percentage int) string {
	remaining := maxPercentage - percentage
	color := s.palette.Color(BandFor(percentage))

	if percentage < reverseBelow {
		return fmt.Sprintf("linear-gradient(to left, white %d%%, %s %d%%)", remaining, color, percentage)
	}
	return fmt.Sprintf("linear-gradient(to right, %s %d%%, white %d%%)", color, percentage, remaining)
}

func clamp(percentage int) int {
	return min(max(percentage, minPercentage), maxPercentage)
}

var defaultStyler = NewStyler()

// Compute returns the gradient for percentage using DefaultPalette.
func Compute(percentage int) string {
	return defaultStyler.Compute(percentage)
}
