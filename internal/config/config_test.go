package config_test

import (
	"errors"
	"testing"

	"github.com/Anurag9000/Gram-Connect/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have the documented defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DistanceScale, convey.ShouldEqual, 50)
			convey.So(cfg.DistanceDecay, convey.ShouldEqual, 30)
			convey.So(cfg.WeeklyQuotaHours, convey.ShouldEqual, 5)
			convey.So(cfg.PoolCap, convey.ShouldEqual, 12)
			convey.So(cfg.EnumerationCeiling, convey.ShouldEqual, 5000)
			convey.So(cfg.TrainSeed, convey.ShouldEqual, 42)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty addr", func(c *config.Config) { c.Addr = "" }},
		{"zero decay", func(c *config.Config) { c.DistanceDecay = 0 }},
		{"negative quota", func(c *config.Config) { c.WeeklyQuotaHours = -1 }},
		{"threshold above one", func(c *config.Config) { c.Threshold = 1.5 }},
		{"negative lambda", func(c *config.Config) { c.LambdaSize = -0.1 }},
		{"zero pool cap", func(c *config.Config) { c.PoolCap = 0 }},
		{"holdout of one", func(c *config.Config) { c.TrainHoldout = 1 }},
		{"empty model path", func(c *config.Config) { c.ModelPath = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.New()
			tc.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, config.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
