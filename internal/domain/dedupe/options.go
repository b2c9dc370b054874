package dedupe

// Option applies a configuration option to the deduper.
type Option func(*ringDeduper)

// WithCapacity sets how many recent ids are remembered.
func WithCapacity(n int) Option {
	return func(d *ringDeduper) {
		if n > 0 {
			d.ring = make([]string, n)
		}
	}
}
