package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/clubperf/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"CLUBPERF_CONFIG",
	"CLUBPERF_ADDR",
	"CLUBPERF_LOG_LEVEL",
	"CLUBPERF_LOG_FORMAT",
	"CLUBPERF_DATABASE_URL",
	"CLUBPERF_DEFAULT_LANGUAGE",
	"CLUBPERF_Y_THRESHOLD_PCT",
	"CLUBPERF_SAMPLE_LIMIT",
	"CLUBPERF_HISTOGRAM_BINS",
	"CLUBPERF_LEADERBOARD_TOP",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(content string) string {
	f, err := os.CreateTemp("", "clubperf-config-*.yaml")
	if err != nil {
		panic(err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	return f.Name()
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.SampleLimit, convey.ShouldEqual, 5000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CLUBPERF_ADDR", ":8080")
			_ = os.Setenv("CLUBPERF_DEFAULT_LANGUAGE", "SV")
			_ = os.Setenv("CLUBPERF_Y_THRESHOLD_PCT", "7.5")
			_ = os.Setenv("CLUBPERF_SAMPLE_LIMIT", "1000")
			_ = os.Setenv("CLUBPERF_LOG_FORMAT", "JSON")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DefaultLanguage, convey.ShouldEqual, "sv")
				convey.So(cfg.YThresholdPct, convey.ShouldEqual, 7.5)
				convey.So(cfg.SampleLimit, convey.ShouldEqual, 1000)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
histogram_bins: 24
leaderboard_top: 5
database_url: "postgres://localhost/clubperf"
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("CLUBPERF_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.HistogramBins, convey.ShouldEqual, 24)
				convey.So(cfg.LeaderboardTop, convey.ShouldEqual, 5)
				convey.So(cfg.DatabaseURL, convey.ShouldEqual, "postgres://localhost/clubperf")
				convey.So(cfg.SampleLimit, convey.ShouldEqual, 5000)
			})
		})

		convey.Convey("When env overrides the YAML file", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("CLUBPERF_CONFIG", tmpFile)
			_ = os.Setenv("CLUBPERF_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("CLUBPERF_CONFIG", "/nonexistent/clubperf.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the YAML is invalid", func() {
			tmpFile := createTempConfigFile("addr: [unclosed\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("CLUBPERF_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a value fails validation", func() {
			_ = os.Setenv("CLUBPERF_DEFAULT_LANGUAGE", "fi")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
