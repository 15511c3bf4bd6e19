package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.WarnLevel},
		{"", zerolog.WarnLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in, zerolog.WarnLevel), tt.in)
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatConsole, ParseFormat("console"))
	assert.Equal(t, FormatConsole, ParseFormat("pretty"))
}

func TestNew_JSONOutputCarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.DebugLevel, Format: FormatJSON, Output: &buf})

	ctx := WithContext(context.Background(), logger)
	ctx = WithComponent(ctx, "convert")
	ctx = WithRunID(ctx, "run-1")
	ctx = WithSize(ctx, 48)

	FromContext(ctx).Debug().Msg("resampled")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "convert", line["component"])
	assert.Equal(t, "run-1", line["run_id"])
	assert.Equal(t, float64(48), line["size"])
	assert.Equal(t, "resampled", line["message"])
}

func TestFromContext_WithoutLoggerIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		FromContext(context.Background()).Info().Msg("dropped")
	})
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "error")
	t.Setenv(EnvFormat, "json")

	logger := NewFromEnv()
	assert.Equal(t, zerolog.ErrorLevel, logger.GetLevel())
}

func TestLogRotator_RotatesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	r, err := NewLogRotator(dir, RotateOptions{MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)
	defer r.Close()

	chunk := []byte(strings.Repeat("x", 700<<10) + "\n")
	for range 3 {
		_, err := r.Write(chunk)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var backups int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), DefaultLogFileName+".") {
			backups++
		}
	}
	assert.Equal(t, 1, backups)

	info, err := os.Stat(filepath.Join(dir, DefaultLogFileName))
	require.NoError(t, err)
	assert.Equal(t, int64(len(chunk)), info.Size())
}

func TestNewWithFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	cfg := DefaultConfig()
	cfg.Output = &console
	logger, closer, err := NewWithFile(cfg, dir, DefaultRotateOptions())
	require.NoError(t, err)

	logger.Info().Str("k", "v").Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, DefaultLogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, console.String(), "hello")
}
