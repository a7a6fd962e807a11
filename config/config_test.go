package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matchbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Book.Depth)
	assert.Equal(t, 1024, cfg.Book.TradeHistory)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "matchbook.events", cfg.Kafka.Topic)
	assert.Equal(t, 1024, cfg.Events.Buffer)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  development: true
book:
  depth: 0
  trade_history: 10
  symbols: [BTC, ETH]
kafka:
  enabled: true
  brokers: ["kafka-1:9092", "kafka-2:9092"]
  topic: book.events
events:
  buffer: 16
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.Equal(t, 0, cfg.Book.Depth)
	assert.Equal(t, 10, cfg.Book.TradeHistory)
	assert.Equal(t, []string{"BTC", "ETH"}, cfg.Book.Symbols)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "book.events", cfg.Kafka.Topic)
	assert.Equal(t, 16, cfg.Events.Buffer)

	logger, err := NewLogger(cfg.Log)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("MATCHBOOK_BOOK_DEPTH", "3")
	t.Setenv("MATCHBOOK_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "book:\n  depth: 7\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Book.Depth)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"log level":     "log:\n  level: loud\n",
		"trade history": "book:\n  trade_history: -1\n",
		"kafka topic":   "kafka:\n  enabled: true\n  topic: \"\"\n",
		"buffer":        "events:\n  buffer: -5\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
