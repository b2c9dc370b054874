package featurestore

// Option configures Load.
type Option func(*settings)

type settings struct {
	defaultQuota   float64
	fallbackSkills []string
}

// WithDefaultQuota sets the weekly quota for roster rows that omit one.
func WithDefaultQuota(hours float64) Option {
	return func(s *settings) {
		if hours >= 0 {
			s.defaultQuota = hours
		}
	}
}

// WithFallbackSkills replaces the built-in village skill list used when a
// proposal text names none of the roster's skills.
func WithFallbackSkills(skills ...string) Option {
	return func(s *settings) {
		if len(skills) > 0 {
			s.fallbackSkills = skills
		}
	}
}
