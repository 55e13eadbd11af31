package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"tradesift/internal/core"
	"tradesift/internal/engine"
	"tradesift/internal/generator"
)

type Config struct {
	Input     InputConfig     `mapstructure:"input"`
	Output    OutputConfig    `mapstructure:"output"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Drawdown  DrawdownConfig  `mapstructure:"drawdown"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type InputConfig struct {
	Trades  string `mapstructure:"trades"`
	Candles string `mapstructure:"candles"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

type EngineConfig struct {
	NetScoreDivisor      int `mapstructure:"net_score_divisor"`
	BucketPenaltyDivisor int `mapstructure:"bucket_penalty_divisor"`
	Workers              int `mapstructure:"workers"` // 0 means one per CPU
}

type DrawdownConfig struct {
	ZeroStopLossPolicy string `mapstructure:"zero_stop_loss_policy"` // "skip" or "zero"
}

// GeneratorConfig holds candle simulation settings.
type GeneratorConfig struct {
	EntryOffset  float64      `mapstructure:"entry_offset"`
	StopOffset   float64      `mapstructure:"stop_offset"`
	ExcludedTime string       `mapstructure:"excluded_time"`
	Buy          FilterConfig `mapstructure:"buy"`
	Sell         FilterConfig `mapstructure:"sell"`
}

// FilterConfig lists entry distances a direction must not trade.
// Ranges are inclusive [min, max] pairs.
type FilterConfig struct {
	SkipDistances []int   `mapstructure:"skip_distances"`
	SkipRanges    [][]int `mapstructure:"skip_ranges"`
}

// ArchiveConfig holds result archival settings.
type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	Retries int      `mapstructure:"retries"`
	S3      S3Config `mapstructure:"s3"` // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// DatabaseConfig holds result export settings.
type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logger configuration. Command-line flags take
// precedence over both fields.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Filter converts the section into the simulator's form, dropping
// malformed range entries.
func (f FilterConfig) Filter() generator.DirectionFilter {
	df := generator.DirectionFilter{Distances: f.SkipDistances}
	for _, r := range f.SkipRanges {
		if len(r) == 2 {
			df.Ranges = append(df.Ranges, generator.Range{Min: r[0], Max: r[1]})
		}
	}
	return df
}

// SimulatorConfig converts the section into the simulator's form.
func (g GeneratorConfig) SimulatorConfig() generator.Config {
	return generator.Config{
		EntryOffset:  g.EntryOffset,
		StopOffset:   g.StopOffset,
		ExcludedTime: g.ExcludedTime,
		Buy:          g.Buy.Filter(),
		Sell:         g.Sell.Filter(),
	}
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Output: OutputConfig{
			Dir: "results",
		},
		Engine: EngineConfig{
			NetScoreDivisor:      engine.DefaultNetScoreDivisor,
			BucketPenaltyDivisor: engine.DefaultBucketPenaltyDivisor,
		},
		Drawdown: DrawdownConfig{
			ZeroStopLossPolicy: string(engine.ZeroStopLossSkip),
		},
		Generator: GeneratorConfig{
			EntryOffset:  generator.DefaultEntryOffset,
			StopOffset:   generator.DefaultStopOffset,
			ExcludedTime: "01:30",
		},
		Archive: ArchiveConfig{
			Type:    "localfs",
			Path:    "archive",
			Retries: 3,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Output.Dir == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("output dir is required"))
	}

	// Engine validation
	if c.Engine.NetScoreDivisor < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("net_score_divisor cannot be negative, got %d", c.Engine.NetScoreDivisor))
	}
	if c.Engine.BucketPenaltyDivisor < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("bucket_penalty_divisor cannot be negative, got %d", c.Engine.BucketPenaltyDivisor))
	}
	if c.Engine.Workers < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("workers cannot be negative, got %d", c.Engine.Workers))
	}

	// Drawdown validation - empty means the engine default
	if p := c.Drawdown.ZeroStopLossPolicy; p != "" {
		if !engine.ZeroStopLossPolicy(p).Valid() {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("zero_stop_loss_policy must be %q or %q, got %q",
					engine.ZeroStopLossSkip, engine.ZeroStopLossZero, p))
		}
	}

	// Generator validation
	if c.Generator.EntryOffset < 0 || c.Generator.StopOffset < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("generator offsets cannot be negative"))
	}
	if c.Generator.ExcludedTime != "" {
		if _, err := time.Parse("15:04", c.Generator.ExcludedTime); err != nil {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("excluded_time must be HH:MM, got %q", c.Generator.ExcludedTime))
		}
	}
	for _, f := range []FilterConfig{c.Generator.Buy, c.Generator.Sell} {
		for _, r := range f.SkipRanges {
			if len(r) != 2 || r[0] > r[1] {
				return core.WrapError(core.ErrConfigInvalid,
					fmt.Errorf("skip_ranges entries must be [min, max] pairs, got %v", r))
			}
		}
	}

	// Archive validation - only when enabled
	if c.Archive.Enabled {
		if c.Archive.Retries < 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("archive retries cannot be negative, got %d", c.Archive.Retries))
		}
		switch c.Archive.Type {
		case "localfs":
			if c.Archive.Path == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive path required when type is localfs"))
			}
		case "s3":
			if c.Archive.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("s3 bucket required when type is s3"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("archive type must be localfs or s3, got %q", c.Archive.Type))
		}
	}

	// Database validation - only when enabled
	if c.Database.Enabled && c.Database.DSN == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("database dsn required when database is enabled"))
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("metrics addr required when metrics is enabled"))
	}

	return nil
}
