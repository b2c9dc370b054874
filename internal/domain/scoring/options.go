package scoring

import "github.com/Anurag9000/Gram-Connect/internal/domain/model"

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithDistanceDecay sets the exponential decay scale in kilometres.
func WithDistanceDecay(km float64) Option {
	return func(s *Scorer) {
		if km > 0 {
			s.decayKM = km
		}
	}
}

// WithOverworkStrength sets how quickly the penalty decays per overage hour.
func WithOverworkStrength(strength float64) Option {
	return func(s *Scorer) {
		if strength >= 0 {
			s.overworkStrength = strength
		}
	}
}

// WithSeveritySpread sets the availability spread multipliers for HIGH and LOW severity.
func WithSeveritySpread(high, low float64) Option {
	return func(s *Scorer) {
		if high >= 0 {
			s.highSpread = high
		}
		if low >= 0 {
			s.lowSpread = low
		}
	}
}

// WithAvailabilityMultipliers overrides base multipliers, typically from the
// availability legend. Values are clamped to [0,1]; missing categories keep defaults.
func WithAvailabilityMultipliers(m map[model.Availability]float64) Option {
	return func(s *Scorer) {
		for k, v := range m {
			s.base[k] = clamp01(v)
		}
	}
}
