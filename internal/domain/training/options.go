package training

import (
	"time"

	"github.com/Anurag9000/Gram-Connect/internal/domain/compat"
	"github.com/Anurag9000/Gram-Connect/internal/domain/extract"
)

const (
	defaultSeed     = 42
	defaultHoldout  = 0.2
	defaultMinPairs = 10
)

// Option configures a Trainer.
type Option func(*Trainer)

// WithSeed fixes the split permutation.
func WithSeed(seed int64) Option {
	return func(t *Trainer) { t.seed = seed }
}

// WithHoldout sets the validation fraction in [0, 0.9].
func WithHoldout(frac float64) Option {
	return func(t *Trainer) {
		if frac >= 0 && frac <= 0.9 {
			t.holdout = frac
		}
	}
}

// WithMinPairs sets the minimum number of usable pairs.
func WithMinPairs(n int) Option {
	return func(t *Trainer) {
		if n > 1 {
			t.minPairs = n
		}
	}
}

// WithParams sets the distance feature parameters stored in the artifact.
func WithParams(p compat.Params) Option {
	return func(t *Trainer) {
		if p.DistanceScale > 0 && p.DistanceDecay > 0 {
			t.params = p
		}
	}
}

// WithFitOptions tunes the classifier fit.
func WithFitOptions(o compat.FitOptions) Option {
	return func(t *Trainer) { t.fit = o }
}

// WithExtractor supplies the severity/location extractor used on proposals.
func WithExtractor(e *extract.Extractor) Option {
	return func(t *Trainer) {
		if e != nil {
			t.extractor = e
		}
	}
}

// WithClock overrides the artifact creation clock.
func WithClock(now func() time.Time) Option {
	return func(t *Trainer) {
		if now != nil {
			t.now = now
		}
	}
}
