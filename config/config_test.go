package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mevdschee/tqdbkit/batch"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tqdbkit.ini")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[batch]
name = events
batch_size = 50
batch_timeout_ms = 250
max_await_shutdown_ms = 2000
trigger_guard_ms = 20
propagate_errors = true

[database]
driver = postgres
dsn = postgres://localhost/app?sslmode=disable

[translator]
varchar_size = 512

[metrics]
listen = :9090

[log]
level = DEBUG
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, batch.Config{
		Name:                 "events",
		BatchSize:            50,
		BatchTimeoutMs:       250,
		MaxAwaitShutdownMs:   2000,
		TriggerGuardMs:       20,
		PropagateFlushErrors: true,
	}, cfg.BatchConfig())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres", cfg.Database.Dialect, "dialect defaults to driver")
	assert.Equal(t, "postgres://localhost/app?sslmode=disable", cfg.Database.DSN)
	assert.Equal(t, 512, cfg.Translator.VarcharSize)
	assert.Equal(t, ":9090", cfg.Metrics.Listen)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
	assert.Len(t, cfg.TranslatorOptions(), 1)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	def := batch.DefaultConfig()
	got := cfg.BatchConfig()
	assert.Equal(t, def.BatchSize, got.BatchSize)
	assert.Equal(t, def.BatchTimeoutMs, got.BatchTimeoutMs)
	assert.Equal(t, def.MaxAwaitShutdownMs, got.MaxAwaitShutdownMs)
	assert.Equal(t, def.TriggerGuardMs, got.TriggerGuardMs)
	assert.False(t, got.PropagateFlushErrors)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "sqlite3", cfg.Database.Dialect)
	assert.Equal(t, "", cfg.Metrics.Listen)
	assert.Equal(t, "INFO", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
driver = mysql
dsn = root@tcp(127.0.0.1:3306)/app
dialect = mariadb
`)
	t.Setenv("TQDBKIT_DATABASE_DSN", "app:secret@tcp(db:3306)/app")
	t.Setenv("TQDBKIT_BATCH_SIZE", "7")
	t.Setenv("TQDBKIT_METRICS_LISTEN", ":9100")
	t.Setenv("TQDBKIT_LOG_LEVEL", "WARN")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "mariadb", cfg.Database.Dialect)
	assert.Equal(t, "app:secret@tcp(db:3306)/app", cfg.Database.DSN)
	assert.Equal(t, 7, cfg.Batch.Size)
	assert.Equal(t, ":9100", cfg.Metrics.Listen)
	assert.Equal(t, "WARN", cfg.Log.Level)
}

func TestLoad_InvalidBatchSizeEnvIgnored(t *testing.T) {
	t.Setenv("TQDBKIT_BATCH_SIZE", "many")
	cfg := Default()
	assert.Equal(t, batch.DefaultConfig().BatchSize, cfg.Batch.Size)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}
