// Package config defines the engine configuration and its layered loader.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects "text" or "json" log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Reference datasets.
	PeoplePath       string `koanf:"people_path"`
	ProposalsPath    string `koanf:"proposals_path"`
	PairsPath        string `koanf:"pairs_path"`
	VillagesPath     string `koanf:"villages_path"`
	DistancesPath    string `koanf:"distances_path"`
	AvailabilityPath string `koanf:"availability_path"`
	SchedulePath     string `koanf:"schedule_path"`

	// ModelPath is the artifact served by inference and written by training.
	ModelPath string `koanf:"model_path"`
	// WatchModel hot-swaps the artifact when the file changes on disk.
	WatchModel bool `koanf:"watch_model"`

	// Feature extraction and scoring.
	DistanceScale      float64 `koanf:"distance_scale"`
	DistanceDecay      float64 `koanf:"distance_decay"`
	WeeklyQuotaHours   float64 `koanf:"weekly_quota_hours"`
	OverworkStrength   float64 `koanf:"overwork_strength"`
	Threshold          float64 `koanf:"threshold"`
	HighSeveritySpread float64 `koanf:"high_severity_spread"`
	LowSeveritySpread  float64 `koanf:"low_severity_spread"`

	// Team selection.
	LambdaRedundancy   float64 `koanf:"lambda_redundancy"`
	LambdaSize         float64 `koanf:"lambda_size"`
	LambdaWillingness  float64 `koanf:"lambda_willingness"`
	RobustnessTarget   int     `koanf:"robustness_target"`
	PoolCap            int     `koanf:"pool_cap"`
	EnumerationCeiling int     `koanf:"enumeration_ceiling"`

	// HTTP rate limit for /recommend, requests per second and burst.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// Assignment commits.
	CommitQueueSize int    `koanf:"commit_queue_size"`
	DedupeSize      int    `koanf:"dedupe_size"`
	NATSURL         string `koanf:"nats_url"`
	NATSSubject     string `koanf:"nats_subject"`

	// Training.
	TrainSeed        int64   `koanf:"train_seed"`
	TrainHoldout     float64 `koanf:"train_holdout"`
	MinTrainingPairs int     `koanf:"min_training_pairs"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		PeoplePath:         "data/people.csv",
		ProposalsPath:      "data/proposals.csv",
		PairsPath:          "data/pairs.csv",
		VillagesPath:       "data/village_locations.csv",
		DistancesPath:      "data/village_distances.csv",
		AvailabilityPath:   "data/availability_legend.csv",
		SchedulePath:       "",
		ModelPath:          "artifacts/model.json",
		WatchModel:         true,
		DistanceScale:      50,
		DistanceDecay:      30,
		WeeklyQuotaHours:   5,
		OverworkStrength:   0.1,
		Threshold:          0,
		HighSeveritySpread: 2,
		LowSeveritySpread:  0.5,
		LambdaRedundancy:   0.2,
		LambdaSize:         0.1,
		LambdaWillingness:  1,
		RobustnessTarget:   2,
		PoolCap:            12,
		EnumerationCeiling: 5000,
		RateLimit:          20,
		RateBurst:          40,
		CommitQueueSize:    256,
		DedupeSize:         4096,
		NATSURL:            "",
		NATSSubject:        "gramconnect.assignments",
		TrainSeed:          42,
		TrainHoldout:       0.2,
		MinTrainingPairs:   10,
	}
}
