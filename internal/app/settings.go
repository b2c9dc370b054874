package service

import "github.com/Anurag9000/Gram-Connect/internal/config"

// Settings are the engine tunables a request may override.
type Settings struct {
	DistanceDecay      float64
	OverworkStrength   float64
	Threshold          float64
	HighSeveritySpread float64
	LowSeveritySpread  float64
	LambdaRedundancy   float64
	LambdaSize         float64
	LambdaWillingness  float64
	RobustnessTarget   int
	PoolCap            int
	EnumerationCeiling int
}

// SettingsFromConfig copies the engine tunables out of the process config.
func SettingsFromConfig(c *config.Config) Settings {
	return Settings{
		DistanceDecay:      c.DistanceDecay,
		OverworkStrength:   c.OverworkStrength,
		Threshold:          c.Threshold,
		HighSeveritySpread: c.HighSeveritySpread,
		LowSeveritySpread:  c.LowSeveritySpread,
		LambdaRedundancy:   c.LambdaRedundancy,
		LambdaSize:         c.LambdaSize,
		LambdaWillingness:  c.LambdaWillingness,
		RobustnessTarget:   c.RobustnessTarget,
		PoolCap:            c.PoolCap,
		EnumerationCeiling: c.EnumerationCeiling,
	}
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings { return SettingsFromConfig(config.New()) }
