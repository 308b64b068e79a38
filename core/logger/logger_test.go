package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/messenger/core/logger"
)

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithProduction("demo"),
		logger.WithOutput(&buf),
	)

	log.Info("receiver registered", logger.Component("messenger"), logger.Count("registered", 3))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "receiver registered", record["msg"])
	assert.Equal(t, "demo", record["app"])
	assert.Equal(t, "production", record["env"])
	assert.Equal(t, "messenger", record["component"])
	assert.EqualValues(t, 3, record["registered"])
}

func TestNew_DevelopmentEnablesDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithDevelopment("demo"),
		logger.WithOutput(&buf),
	)

	log.Debug("debug line")
	assert.Contains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "env=development")
}

func TestNew_LevelFiltersRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithLevel(slog.LevelWarn),
		logger.WithTextFormatter(),
		logger.WithOutput(&buf),
	)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_WithAttrAndHandlerOptions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "messenger")),
		logger.WithHandlerOptions(&slog.HandlerOptions{Level: slog.LevelError}),
	)

	log.Warn("dropped")
	log.Error("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"service":"messenger"`)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, logger.ParseLevel(tt.in))
		})
	}
}
