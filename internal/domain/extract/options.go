package extract

// Option configures an Extractor.
type Option func(*Extractor)

// WithVillages sets the gazetteer used for location matching.
func WithVillages(names ...string) Option {
	return func(e *Extractor) {
		e.places = buildPlaces(names)
	}
}

// WithHighKeywords replaces the HIGH severity vocabulary. A trailing "*"
// marks a stem.
func WithHighKeywords(stems ...string) Option {
	return func(e *Extractor) {
		if len(stems) > 0 {
			e.high = normalizeAll(stems)
		}
	}
}

// WithLowKeywords replaces the LOW severity vocabulary.
func WithLowKeywords(stems ...string) Option {
	return func(e *Extractor) {
		if len(stems) > 0 {
			e.low = normalizeAll(stems)
		}
	}
}
