package dedupe

// DefaultMaxSize is the number of ids remembered when no option is given.
const DefaultMaxSize = 50000

// Option applies a configuration option to the InMemoryDeduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the maximum number of ids to keep in memory.
// If maxSize > 0 the oldest ids are forgotten first.
// If maxSize <= 0 nothing is ever forgotten.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
