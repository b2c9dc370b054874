package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment knobs.
const (
	EnvPrefix     = "GRAM_"
	EnvConfigFile = "GRAM_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if GRAM_CONFIG is set
//  3. env (prefix GRAM_)
func Load(_ context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// GRAM_WEEKLY_QUOTA_HOURS -> weekly_quota_hours
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges the engine relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ModelPath == "":
		return fmt.Errorf("%w: model_path must not be empty", ErrInvalidConfig)
	case c.DistanceScale <= 0:
		return fmt.Errorf("%w: distance_scale must be positive", ErrInvalidConfig)
	case c.DistanceDecay <= 0:
		return fmt.Errorf("%w: distance_decay must be positive", ErrInvalidConfig)
	case c.WeeklyQuotaHours <= 0:
		return fmt.Errorf("%w: weekly_quota_hours must be positive", ErrInvalidConfig)
	case c.OverworkStrength < 0:
		return fmt.Errorf("%w: overwork_strength must not be negative", ErrInvalidConfig)
	case c.Threshold < 0 || c.Threshold > 1:
		return fmt.Errorf("%w: threshold must be within [0,1]", ErrInvalidConfig)
	case c.HighSeveritySpread < 0 || c.LowSeveritySpread < 0:
		return fmt.Errorf("%w: severity spreads must not be negative", ErrInvalidConfig)
	case c.LambdaRedundancy < 0 || c.LambdaSize < 0 || c.LambdaWillingness < 0:
		return fmt.Errorf("%w: lambdas must not be negative", ErrInvalidConfig)
	case c.RobustnessTarget < 1:
		return fmt.Errorf("%w: robustness_target must be at least 1", ErrInvalidConfig)
	case c.PoolCap < 1:
		return fmt.Errorf("%w: pool_cap must be at least 1", ErrInvalidConfig)
	case c.EnumerationCeiling < 1:
		return fmt.Errorf("%w: enumeration_ceiling must be at least 1", ErrInvalidConfig)
	case c.RateLimit <= 0 || c.RateBurst < 1:
		return fmt.Errorf("%w: rate_limit and rate_burst must be positive", ErrInvalidConfig)
	case c.CommitQueueSize < 1 || c.DedupeSize < 1:
		return fmt.Errorf("%w: commit_queue_size and dedupe_size must be positive", ErrInvalidConfig)
	case c.TrainHoldout <= 0 || c.TrainHoldout >= 1:
		return fmt.Errorf("%w: train_holdout must be within (0,1)", ErrInvalidConfig)
	case c.MinTrainingPairs < 2:
		return fmt.Errorf("%w: min_training_pairs must be at least 2", ErrInvalidConfig)
	}
	return nil
}
