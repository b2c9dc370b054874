package ultra

// Default selection weights and bounds.
const (
	DefaultPoolCap            = 12
	DefaultEnumerationCeiling = 5000
	DefaultRobustnessTarget   = 2
	DefaultCoverageWeight     = 1.0
	DefaultRobustnessWeight   = 0.5
	DefaultLambdaWillingness  = 1.0
	DefaultLambdaRedundancy   = 0.2
	DefaultLambdaSize         = 0.1

	maxSwapRounds = 10
	minSeeds      = 4
)

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithPoolCap keeps only the top-M candidates by W_adj before search.
func WithPoolCap(m int) Option {
	return func(s *Selector) {
		if m > 0 {
			s.poolCap = m
		}
	}
}

// WithEnumerationCeiling bounds exhaustive enumeration to C(M, k) <= ceiling.
func WithEnumerationCeiling(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.ceiling = n
		}
	}
}

// WithRobustnessTarget sets how many members per required skill count as robust.
func WithRobustnessTarget(k int) Option {
	return func(s *Selector) {
		if k > 0 {
			s.robustTarget = k
		}
	}
}

// WithLambdas sets the redundancy, size and willingness weights.
func WithLambdas(redundancy, size, willingness float64) Option {
	return func(s *Selector) {
		if redundancy >= 0 {
			s.lambdaRedundancy = redundancy
		}
		if size >= 0 {
			s.lambdaSize = size
		}
		if willingness >= 0 {
			s.lambdaWillingness = willingness
		}
	}
}

// WithCoverageWeights sets the coverage and robustness weights.
func WithCoverageWeights(coverage, robustness float64) Option {
	return func(s *Selector) {
		if coverage >= 0 {
			s.coverageWeight = coverage
		}
		if robustness >= 0 {
			s.robustnessWeight = robustness
		}
	}
}
