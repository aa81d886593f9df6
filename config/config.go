package config

import (
	"os"
	"strconv"

	"gopkg.in/ini.v1"

	"github.com/mevdschee/tqdbkit/batch"
	"github.com/mevdschee/tqdbkit/translator"
)

// Config holds the tqdbkit configuration
type Config struct {
	Batch      BatchConfig
	Database   DatabaseConfig
	Translator TranslatorConfig
	Metrics    MetricsConfig
	Log        LogConfig
	DeadLetter DeadLetterConfig
}

// BatchConfig holds the [batch] section
type BatchConfig struct {
	Name               string
	Size               int
	TimeoutMs          int
	MaxAwaitShutdownMs int
	TriggerGuardMs     int
	PropagateErrors    bool
}

// DatabaseConfig holds the [database] section
type DatabaseConfig struct {
	Driver  string // database/sql driver name
	DSN     string
	Dialect string // defaults to the driver name
}

// TranslatorConfig holds the [translator] section
type TranslatorConfig struct {
	VarcharSize int
	CacheSize   int // rendered statements kept by the writer
}

// MetricsConfig holds the [metrics] section
type MetricsConfig struct {
	Listen string // empty disables the metrics endpoint
}

// DeadLetterConfig holds the [deadletter] section
type DeadLetterConfig struct {
	Path string // empty keeps failed entries in the log only
}

// LogConfig holds the [log] section
type LogConfig struct {
	Level string
}

// Load reads configuration from an INI file with environment variable overrides
func Load(path string) (*Config, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return parse(cfg), nil
}

// Default returns the configuration used when no file is given, with
// environment variable overrides applied.
func Default() *Config {
	return parse(ini.Empty())
}

func parse(cfg *ini.File) *Config {
	defaults := batch.DefaultConfig()

	b := cfg.Section("batch")
	d := cfg.Section("database")
	t := cfg.Section("translator")

	config := &Config{
		Batch: BatchConfig{
			Name:               b.Key("name").String(),
			Size:               b.Key("batch_size").MustInt(defaults.BatchSize),
			TimeoutMs:          b.Key("batch_timeout_ms").MustInt(defaults.BatchTimeoutMs),
			MaxAwaitShutdownMs: b.Key("max_await_shutdown_ms").MustInt(defaults.MaxAwaitShutdownMs),
			TriggerGuardMs:     b.Key("trigger_guard_ms").MustInt(defaults.TriggerGuardMs),
			PropagateErrors:    b.Key("propagate_errors").MustBool(false),
		},
		Database: DatabaseConfig{
			Driver:  d.Key("driver").MustString("sqlite3"),
			DSN:     d.Key("dsn").MustString("file:tqdbkit.db"),
			Dialect: d.Key("dialect").String(),
		},
		Translator: TranslatorConfig{
			VarcharSize: t.Key("varchar_size").MustInt(translator.DefaultVarcharSize),
			CacheSize:   t.Key("cache_size").MustInt(1024),
		},
		Metrics: MetricsConfig{
			Listen: cfg.Section("metrics").Key("listen").String(),
		},
		Log: LogConfig{
			Level: cfg.Section("log").Key("level").MustString("INFO"),
		},
		DeadLetter: DeadLetterConfig{
			Path: cfg.Section("deadletter").Key("path").String(),
		},
	}

	// Environment variable overrides
	if v := os.Getenv("TQDBKIT_DATABASE_DRIVER"); v != "" {
		config.Database.Driver = v
	}
	if v := os.Getenv("TQDBKIT_DATABASE_DSN"); v != "" {
		config.Database.DSN = v
	}
	if v := os.Getenv("TQDBKIT_DATABASE_DIALECT"); v != "" {
		config.Database.Dialect = v
	}
	if v := os.Getenv("TQDBKIT_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Batch.Size = n
		}
	}
	if v := os.Getenv("TQDBKIT_METRICS_LISTEN"); v != "" {
		config.Metrics.Listen = v
	}
	if v := os.Getenv("TQDBKIT_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("TQDBKIT_DEADLETTER_PATH"); v != "" {
		config.DeadLetter.Path = v
	}

	if config.Database.Dialect == "" {
		config.Database.Dialect = config.Database.Driver
	}
	return config
}

// BatchConfig converts the [batch] section for batch.New.
func (c *Config) BatchConfig() batch.Config {
	return batch.Config{
		Name:                 c.Batch.Name,
		BatchSize:            c.Batch.Size,
		BatchTimeoutMs:       c.Batch.TimeoutMs,
		MaxAwaitShutdownMs:   c.Batch.MaxAwaitShutdownMs,
		TriggerGuardMs:       c.Batch.TriggerGuardMs,
		PropagateFlushErrors: c.Batch.PropagateErrors,
	}
}

// TranslatorOptions returns the options for translator.New.
func (c *Config) TranslatorOptions() []translator.Option {
	return []translator.Option{translator.WithVarcharSize(c.Translator.VarcharSize)}
}
