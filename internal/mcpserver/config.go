package mcpserver

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/hoangluudev/modmerge/fixer"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// MissionDir is the default mission directory for preview/merge.
	MissionDir string
	// IncludeUnknown lists unknown-schema files by default.
	IncludeUnknown bool
	// RegistryOverlay is a YAML file extending the schema registry.
	RegistryOverlay string
	// FixMode is the default duplicate-collapse mode.
	FixMode string
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from MODMERGE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		MissionDir:      os.Getenv("MODMERGE_MISSION_DIR"),
		IncludeUnknown:  envBool("MODMERGE_INCLUDE_UNKNOWN", false),
		RegistryOverlay: os.Getenv("MODMERGE_REGISTRY_OVERLAY"),
		FixMode:         envFixMode("MODMERGE_FIX_MODE", string(fixer.ModeKeepLast)),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envFixMode(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if !fixer.IsValidMode(v) {
		slog.Warn("invalid fix mode env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return v
}
