package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithName sets the board name used in metrics labels, e.g. "fwd_score".
func WithName(name string) Option {
	return func(s *TreapStore) {
		if name != "" {
			s.name = name
		}
	}
}
