package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env file

	cfg := Load()
	assert.Equal(t, "", cfg.WhitelistFile)
	assert.False(t, cfg.UseDefaultNoiseWhitelist)
	assert.Equal(t, "lookahead", cfg.DefaultAlignStrategy)
	assert.Equal(t, 16, cfg.CaptureCacheMaxItems)
	assert.Equal(t, 128, cfg.ReportCacheMaxItems)
	assert.Equal(t, int64(256<<20), cfg.MaxCaptureBytes)
	assert.Equal(t, 2, cfg.LoadWorkers)
	assert.Equal(t, 50, cfg.DefaultListLimit)
	assert.Equal(t, 1000, cfg.MaxQueryResults)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogCompress)
}

func TestLoad_fromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WHITELIST_FILE", "/etc/hardiff/whitelist.yaml")
	t.Setenv("USE_DEFAULT_NOISE_WHITELIST", "yes")
	t.Setenv("DEFAULT_ALIGN_STRATEGY", "greedy")
	t.Setenv("LOAD_WORKERS", "4")
	t.Setenv("MAX_CAPTURE_BYTES", "not-a-number")
	t.Setenv("LOG_COMPRESS", "off")

	cfg := Load()
	assert.Equal(t, "/etc/hardiff/whitelist.yaml", cfg.WhitelistFile)
	assert.True(t, cfg.UseDefaultNoiseWhitelist)
	assert.Equal(t, "greedy", cfg.DefaultAlignStrategy)
	assert.Equal(t, 4, cfg.LoadWorkers)
	assert.Equal(t, int64(MaxCaptureBytesValue), cfg.MaxCaptureBytes)
	assert.False(t, cfg.LogCompress)
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"on", true},
		{"0", false},
		{"no", false},
		{"maybe", true}, // unrecognized keeps the default
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("HARDIFF_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, getEnvBool("HARDIFF_TEST_BOOL", true))
		})
	}
}

func TestConfig_derivedSettings(t *testing.T) {
	cfg := &Config{
		LogLevel:             "debug",
		LogFile:              "/tmp/x.log",
		CompactMaxArrayItems: 7,
	}
	assert.Equal(t, "debug", cfg.Logging().Level)
	assert.Equal(t, "/tmp/x.log", cfg.Logging().FilePath)
	assert.Equal(t, 7, cfg.CompactOptions().MaxArrayItems)
}
