package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/underwriter/pkg/config"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output: %s", buf.String())
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantLevel zerolog.Level
	}{
		{"debug level", &config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"}, zerolog.DebugLevel},
		{"info level", &config.Config{Env: "production", LogLevel: "info", LogFormat: "json"}, zerolog.InfoLevel},
		{"warn level", &config.Config{Env: "staging", LogLevel: "warn", LogFormat: "console"}, zerolog.WarnLevel},
		{"unknown level defaults to info", &config.Config{Env: "production", LogLevel: "verbose"}, zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.cfg)
			require.NotNil(t, log)
			assert.Equal(t, tt.wantLevel, log.zlog.GetLevel())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestEntriesCarryServiceAndEnv(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Out: &buf, Level: "debug", Env: "staging"})

	log.Debug("fingerprint candidates loaded")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, Service, entry["service"])
	assert.Equal(t, "staging", entry["env"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "fingerprint candidates loaded", entry["message"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Out: &buf, Format: "console", Level: "info"})

	log.Info("quote created")

	assert.Contains(t, buf.String(), "quote created")
	assert.False(t, strings.HasPrefix(buf.String(), "{"), "console output is not JSON")
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug")

	tests := []struct {
		name      string
		log       func()
		wantMsg   string
		wantLevel string
	}{
		{"debug", func() { log.Debug("fingerprint candidates loaded") }, "fingerprint candidates loaded", "debug"},
		{"info", func() { log.Info("quote created") }, "quote created", "info"},
		{"warn", func() { log.Warn("debt check failed, failing open") }, "debt check failed, failing open", "warn"},
		{"error", func() { log.Error("price engine unavailable") }, "price engine unavailable", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log()

			entry := decodeEntry(t, &buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantMsg, entry["message"])
		})
	}
}

func TestNewWithWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Equal(t, "kept", decodeEntry(t, &buf)["message"])
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.WithField("channel", "IOS").
		WithFields(map[string]interface{}{
			"breaches":  2,
			"fail_open": true,
		}).
		Info("quote rejected")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "IOS", entry["channel"])
	assert.Equal(t, float64(2), entry["breaches"])
	assert.Equal(t, true, entry["fail_open"])
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.WithError(errors.New("member service timeout")).Error("debt check failed")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "member service timeout", entry["error"])
	assert.Equal(t, "debt check failed", entry["message"])
}

func TestWithQuote(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.WithQuote("6f1c0c1e-4b0a-4c8e-9f61-2d0f5f4f7a10", "apartment").Info("Quote created")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "6f1c0c1e-4b0a-4c8e-9f61-2d0f5f4f7a10", entry["quote_id"])
	assert.Equal(t, "apartment", entry["variant"])
}

func TestWithPII(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.WithPII("ssn", "199110112399").WithPII("street", "Storgatan 1").Info("Debt check completed")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "19**********", entry["ssn"])
	assert.Equal(t, "St*********", entry["street"])
	assert.NotContains(t, buf.String(), "199110112399")
}

func TestNop(t *testing.T) {
	log := NewNop()
	assert.NotPanics(t, func() {
		log.WithPII("ssn", "199110112399").Error("nothing")
	})
}

func TestMask(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"199001011234", "19**********"},
		{" Storgatan 1 ", "St*********"},
		{"Åsa", "Ås*"},
		{"ab", "**"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.input))
		})
	}
}
