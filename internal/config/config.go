// Package config defines service configuration structures and loading hooks.
package config

import (
	"time"

	repository "github.com/Divaprk/DAaaS-Platform-G36/internal/adapters/repository"
	service "github.com/Divaprk/DAaaS-Platform-G36/internal/app"
	"github.com/Divaprk/DAaaS-Platform-G36/internal/domain/engine"
)

// Data source kinds.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`
	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`
	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// DataSource selects where the survey is read from.
	DataSource    string `koanf:"data_source" validate:"oneof=csv postgres"`
	DataPath      string `koanf:"data_path" validate:"required_if=DataSource csv"`
	DatabaseURL   string `koanf:"database_url" validate:"required_if=DataSource postgres"`
	DatabaseTable string `koanf:"database_table"`
	// RefreshInterval reloads the snapshot periodically; zero disables it.
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gte=0"`

	TradeoffMinSampleSize int `koanf:"tradeoff_min_sample_size" validate:"gte=0"`
	TradeoffTopN          int `koanf:"tradeoff_top_n" validate:"gt=0"`

	RPIMinSampleSize int     `koanf:"rpi_min_sample_size" validate:"gte=0"`
	RPITopK          int     `koanf:"rpi_top_k" validate:"gt=0"`
	RPIMinYears      int     `koanf:"rpi_min_years" validate:"gt=0"`
	RPIWeightMode    string  `koanf:"rpi_weight_mode" validate:"oneof=none sample_size"`
	StdFloor         float64 `koanf:"std_floor" validate:"gt=0"`
	SlopeLimit       int     `koanf:"slope_limit" validate:"gte=0"`

	UniversityYearStart     int `koanf:"university_year_start" validate:"gte=0"`
	UniversityYearEnd       int `koanf:"university_year_end" validate:"gte=0"`
	UniversityMinRecords    int `koanf:"university_min_records" validate:"gte=0"`
	UniversityTopCategories int `koanf:"university_top_categories" validate:"gt=0"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		ShutdownTimeout: 10 * time.Second,
		DataSource:      SourceCSV,
		DataPath:        "data/graduate_employment_survey.csv",
		DatabaseTable:   repository.DefaultTable,

		TradeoffMinSampleSize: 20,
		TradeoffTopN:          5,

		RPIMinSampleSize: 1,
		RPITopK:          10,
		RPIMinYears:      6,
		RPIWeightMode:    string(engine.WeightNone),
		StdFloor:         engine.DefaultStdFloor,
		SlopeLimit:       30,

		UniversityYearStart:     2015,
		UniversityYearEnd:       2022,
		UniversityMinRecords:    40,
		UniversityTopCategories: 8,
	}
}

// Defaults maps the analysis settings onto service defaults.
func (c *Config) Defaults() service.Defaults {
	d := service.DefaultDefaults()

	d.Tradeoff.Settings.MinSampleSize = c.TradeoffMinSampleSize
	d.Tradeoff.Settings.TopN = c.TradeoffTopN

	d.Relative.Settings.MinSampleSize = c.RPIMinSampleSize
	d.Relative.Settings.TopK = c.RPITopK
	d.Relative.Settings.MinPeriodsPresent = c.RPIMinYears
	d.Relative.Settings.WeightMode = engine.ParseWeightMode(c.RPIWeightMode)
	d.Relative.Settings.StdFloor = c.StdFloor
	d.Relative.SlopeLimit = c.SlopeLimit

	d.University.TopCategories = c.UniversityTopCategories
	d.UniversityFilter = repository.Filter{
		YearStart:               c.UniversityYearStart,
		YearEnd:                 c.UniversityYearEnd,
		MinRecordsPerUniversity: c.UniversityMinRecords,
	}
	return d
}
