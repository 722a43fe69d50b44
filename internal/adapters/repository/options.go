package repository

// Option configures a Loader.
type Option func(*Loader)

// WithPattern sets the glob used to find post files. Defaults to "*.md".
func WithPattern(pattern string) Option {
	return func(l *Loader) {
		if pattern != "" {
			l.pattern = pattern
		}
	}
}
