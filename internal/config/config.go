// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Scorer   ScorerConfig   `yaml:"scorer" mapstructure:"scorer"`
	Geocode  GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the lead store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// PipelineConfig configures the batch pipeline.
type PipelineConfig struct {
	DataDir        string  `yaml:"data_dir" mapstructure:"data_dir"`
	MinExportScore float64 `yaml:"min_export_score" mapstructure:"min_export_score"`
	// ReferenceDate pins the "now" used for recency scoring (RFC 3339 date).
	// Empty means the wall clock at run start, recorded in the run row.
	ReferenceDate string `yaml:"reference_date" mapstructure:"reference_date"`
}

// ScorerConfig holds the lead scoring weights and thresholds. Weights apply
// to normalized sub-scores in [0,1] and must sum to 1.
type ScorerConfig struct {
	RecencyWeight  float64 `yaml:"recency_weight" mapstructure:"recency_weight"`
	CategoryWeight float64 `yaml:"category_weight" mapstructure:"category_weight"`
	SectorWeight   float64 `yaml:"sector_weight" mapstructure:"sector_weight"`
	StatusWeight   float64 `yaml:"status_weight" mapstructure:"status_weight"`

	// Recency decay curve: full credit within FreshDays of submission,
	// linear decay to zero at StaleDays.
	FreshDays int `yaml:"fresh_days" mapstructure:"fresh_days"`
	StaleDays int `yaml:"stale_days" mapstructure:"stale_days"`

	Tier1MinScore float64 `yaml:"tier1_min_score" mapstructure:"tier1_min_score"`
	Tier2MinScore float64 `yaml:"tier2_min_score" mapstructure:"tier2_min_score"`
}

// GeocodeConfig configures location resolution.
type GeocodeConfig struct {
	// Provider is "gazetteer" (offline table, default) or "nominatim".
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	RateRPS     float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// RegistryConfig locates the static officer registry.
type RegistryConfig struct {
	OfficersFile string `yaml:"officers_file" mapstructure:"officers_file"`
}

// ServerConfig configures the dashboard API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FURNACEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "data/leads.db")
	v.SetDefault("pipeline.data_dir", "data")
	v.SetDefault("pipeline.min_export_score", 40)
	v.SetDefault("scorer.recency_weight", 0.30)
	v.SetDefault("scorer.category_weight", 0.25)
	v.SetDefault("scorer.sector_weight", 0.25)
	v.SetDefault("scorer.status_weight", 0.20)
	v.SetDefault("scorer.fresh_days", 30)
	v.SetDefault("scorer.stale_days", 365)
	v.SetDefault("scorer.tier1_min_score", 75)
	v.SetDefault("scorer.tier2_min_score", 50)
	v.SetDefault("geocode.provider", "gazetteer")
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "furnacex-intel-cli/1.0")
	v.SetDefault("geocode.rate_rps", 1)
	v.SetDefault("geocode.max_retries", 3)
	v.SetDefault("geocode.timeout_secs", 30)
	v.SetDefault("registry.officers_file", "config/officers.yaml")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
