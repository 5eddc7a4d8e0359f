// Package config provides configuration loading from environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/usestring/hardiff-mcp/internal/logging"
	"github.com/usestring/hardiff-mcp/pkg/jsoncompact"
	"github.com/usestring/hardiff-mcp/pkg/types"
)

// Defaults
const (
	DefaultListLimitValue     = 50
	MaxQueryResultsValue      = 1000
	DiffContextLinesValue     = 3
	CaptureCacheMaxItemsValue = 16
	ReportCacheMaxItemsValue  = 128
	MaxCaptureBytesValue      = 256 << 20
	LoadWorkersValue          = 2
	DefaultAlignStrategyValue = string(types.StrategyLookahead)
)

// Config holds all configuration for the MCP server.
type Config struct {
	// Whitelist
	WhitelistFile            string // WHITELIST_FILE, default "" (no exemptions)
	UseDefaultNoiseWhitelist bool   // USE_DEFAULT_NOISE_WHITELIST, default false

	// Alignment
	DefaultAlignStrategy string // DEFAULT_ALIGN_STRATEGY, default "lookahead"

	// Capture loading and stores
	CaptureCacheMaxItems int   // CAPTURE_CACHE_MAX_ITEMS, default 16
	ReportCacheMaxItems  int   // REPORT_CACHE_MAX_ITEMS, default 128
	MaxCaptureBytes      int64 // MAX_CAPTURE_BYTES, default 256 MiB
	LoadWorkers          int   // LOAD_WORKERS, default 2

	// Compaction defaults (for AI-optimized responses)
	CompactMaxArrayItems int // COMPACT_MAX_ARRAY_ITEMS
	CompactMaxStringLen  int // COMPACT_MAX_STRING_LEN
	CompactMaxDepth      int // COMPACT_MAX_DEPTH

	// Tool output limits
	DefaultListLimit int // DEFAULT_LIST_LIMIT, default 50
	MaxQueryResults  int // MAX_QUERY_RESULTS, default 1000
	DiffContextLines int // DIFF_CONTEXT_LINES, default 3

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables and an optional .env
// file, with sensible defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", slog.String("error", err.Error()))
	}

	return &Config{
		WhitelistFile:            getEnvString("WHITELIST_FILE", ""),
		UseDefaultNoiseWhitelist: getEnvBool("USE_DEFAULT_NOISE_WHITELIST", false),
		DefaultAlignStrategy:     getEnvString("DEFAULT_ALIGN_STRATEGY", DefaultAlignStrategyValue),

		CaptureCacheMaxItems: getEnvInt("CAPTURE_CACHE_MAX_ITEMS", CaptureCacheMaxItemsValue),
		ReportCacheMaxItems:  getEnvInt("REPORT_CACHE_MAX_ITEMS", ReportCacheMaxItemsValue),
		MaxCaptureBytes:      int64(getEnvInt("MAX_CAPTURE_BYTES", MaxCaptureBytesValue)),
		LoadWorkers:          getEnvInt("LOAD_WORKERS", LoadWorkersValue),

		// Compaction defaults (from jsoncompact package)
		CompactMaxArrayItems: getEnvInt("COMPACT_MAX_ARRAY_ITEMS", jsoncompact.DefaultMaxArrayItems),
		CompactMaxStringLen:  getEnvInt("COMPACT_MAX_STRING_LEN", jsoncompact.DefaultMaxStringLen),
		CompactMaxDepth:      getEnvInt("COMPACT_MAX_DEPTH", jsoncompact.DefaultMaxDepth),

		DefaultListLimit: getEnvInt("DEFAULT_LIST_LIMIT", DefaultListLimitValue),
		MaxQueryResults:  getEnvInt("MAX_QUERY_RESULTS", MaxQueryResultsValue),
		DiffContextLines: getEnvInt("DIFF_CONTEXT_LINES", DiffContextLinesValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// Logging returns the logging settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		FilePath:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
}

// CompactOptions returns the body compaction settings.
func (c *Config) CompactOptions() *jsoncompact.Options {
	return &jsoncompact.Options{
		MaxArrayItems: c.CompactMaxArrayItems,
		MaxStringLen:  c.CompactMaxStringLen,
		MaxDepth:      c.CompactMaxDepth,
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
