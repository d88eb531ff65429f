package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/Divaprk/DAaaS-Platform-G36/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader_Defaults(t *testing.T) {
	ctx := context.Background()

	convey.Convey("When loading config with defaults only", t, func() {
		cfg, err := config.Load(ctx)

		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
		convey.So(cfg.UniversityTopCategories, convey.ShouldEqual, 8)
	})

}

// Each scenario sets environment variables that live until its test ends,
// so scenarios are kept in separate tests.
func TestConfigLoader_Env(t *testing.T) {
	ctx := context.Background()

	convey.Convey("When loading config with environment variables", t, func() {
		t.Setenv("GES_ADDR", ":8080")
		t.Setenv("GES_TRADEOFF_TOP_N", "7")
		t.Setenv("GES_STD_FLOOR", "0.001")
		t.Setenv("GES_REFRESH_INTERVAL", "5m")
		t.Setenv("GES_LOG_FORMAT", "JSON")

		cfg, err := config.Load(ctx)

		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
		convey.So(cfg.TradeoffTopN, convey.ShouldEqual, 7)
		convey.So(cfg.StdFloor, convey.ShouldEqual, 0.001)
		convey.So(cfg.RefreshInterval, convey.ShouldEqual, 5*time.Minute)
		convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
	})

}

func TestConfigLoader_File(t *testing.T) {
	ctx := context.Background()

	convey.Convey("When loading config with a YAML file and env overrides", t, func() {
		path := writeFile(t, "ges.yaml", `
addr: ":9090"
data_source: postgres
database_url: postgres://localhost/ges
rpi_top_k: 3
rpi_weight_mode: sample_size
`)
		t.Setenv("GES_CONFIG", path)
		t.Setenv("GES_RPI_TOP_K", "4")

		cfg, err := config.Load(ctx)

		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
		convey.So(cfg.DataSource, convey.ShouldEqual, config.SourcePostgres)
		convey.So(cfg.DatabaseURL, convey.ShouldEqual, "postgres://localhost/ges")
		convey.So(cfg.RPIWeightMode, convey.ShouldEqual, "sample_size")
		convey.So(cfg.RPITopK, convey.ShouldEqual, 4)
	})

}

func TestConfigLoader_MissingFile(t *testing.T) {
	ctx := context.Background()

	convey.Convey("When the config file does not exist", t, func() {
		t.Setenv("GES_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

		_, err := config.Load(ctx)

		convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
	})

}

func TestConfigLoader_DotEnv(t *testing.T) {
	ctx := context.Background()

	convey.Convey("When a .env file provides values", t, func() {
		path := writeFile(t, "test.env", "GES_DATA_PATH=/srv/ges.csv\n")
		t.Setenv("GES_ENV_FILE", path)
		t.Cleanup(func() { _ = os.Unsetenv("GES_DATA_PATH") })

		cfg, err := config.Load(ctx)

		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.DataPath, convey.ShouldEqual, "/srv/ges.csv")
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given invalid configurations", t, func() {
		convey.Convey("Postgres without a URL is rejected", func() {
			cfg := config.New()
			cfg.DataSource = config.SourcePostgres
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "database_url")
		})

		convey.Convey("Every bad field is reported", func() {
			cfg := config.New()
			cfg.Addr = ""
			cfg.DataSource = "sqlite"
			err := cfg.Validate()
			convey.So(err.Error(), convey.ShouldContainSubstring, "addr failed required")
			convey.So(err.Error(), convey.ShouldContainSubstring, "data_source failed oneof")
		})

		convey.Convey("An inverted university window is rejected", func() {
			cfg := config.New()
			cfg.UniversityYearStart = 2023
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Invalid env values fail loading", func() {
			t.Setenv("GES_RPI_WEIGHT_MODE", "median")
			_, err := config.Load(context.Background())
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
