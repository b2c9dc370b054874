package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Anurag9000/Gram-Connect/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	ctx := context.Background()

	Convey("Given the layered config loader", t, func() {
		Convey("When no file or env overrides are present", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults are returned", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9080")
				So(cfg.LambdaWillingness, ShouldEqual, 1)
			})
		})

		Convey("When environment variables are set", func() {
			_ = os.Setenv("GRAM_ADDR", ":8088")
			_ = os.Setenv("GRAM_DISTANCE_DECAY", "10")
			_ = os.Setenv("GRAM_POOL_CAP", "8")
			_ = os.Setenv("GRAM_WATCH_MODEL", "false")
			defer func() {
				_ = os.Unsetenv("GRAM_ADDR")
				_ = os.Unsetenv("GRAM_DISTANCE_DECAY")
				_ = os.Unsetenv("GRAM_POOL_CAP")
				_ = os.Unsetenv("GRAM_WATCH_MODEL")
			}()

			cfg, err := config.Load(ctx)

			Convey("Then they override the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8088")
				So(cfg.DistanceDecay, ShouldEqual, 10)
				So(cfg.PoolCap, ShouldEqual, 8)
				So(cfg.WatchModel, ShouldBeFalse)
			})
		})

		Convey("When a YAML file is provided", func() {
			path := filepath.Join(t.TempDir(), "gram.yaml")
			content := "addr: \":7000\"\nweekly_quota_hours: 8\nnats_url: \"nats://127.0.0.1:4222\"\n"
			So(os.WriteFile(path, []byte(content), 0o600), ShouldBeNil)
			_ = os.Setenv("GRAM_CONFIG", path)
			_ = os.Setenv("GRAM_ADDR", ":7001")
			defer func() {
				_ = os.Unsetenv("GRAM_CONFIG")
				_ = os.Unsetenv("GRAM_ADDR")
			}()

			cfg, err := config.Load(ctx)

			Convey("Then file values apply and env wins over the file", func() {
				So(err, ShouldBeNil)
				So(cfg.WeeklyQuotaHours, ShouldEqual, 8)
				So(cfg.NATSURL, ShouldEqual, "nats://127.0.0.1:4222")
				So(cfg.Addr, ShouldEqual, ":7001")
			})
		})

		Convey("When the config file does not exist", func() {
			_ = os.Setenv("GRAM_CONFIG", "/non/existent/gram.yaml")
			defer func() { _ = os.Unsetenv("GRAM_CONFIG") }()

			_, err := config.Load(ctx)

			Convey("Then a load error is returned", func() {
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})

		Convey("When an override breaks validation", func() {
			_ = os.Setenv("GRAM_DISTANCE_DECAY", "0")
			defer func() { _ = os.Unsetenv("GRAM_DISTANCE_DECAY") }()

			_, err := config.Load(ctx)

			Convey("Then an invalid config error is returned", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When an override cannot be decoded", func() {
			_ = os.Setenv("GRAM_POOL_CAP", "many")
			defer func() { _ = os.Unsetenv("GRAM_POOL_CAP") }()

			_, err := config.Load(ctx)

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
