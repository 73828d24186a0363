// Package config centralizes viper keys, defaults and path resolution.
package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DefaultRootDir is the per-project data directory.
	DefaultRootDir = ".checklist"

	// DefaultDataFile is the document filename inside the root directory.
	DefaultDataFile = "checklist.json"
)

// Viper keys used across the application.
const (
	KeyDataFile       = "data.file"
	KeyServerPort     = "server.port"
	KeyStaticDir      = "server.staticDir"
	KeyAllowedOrigins = "server.allowedOrigins"
	KeyVerbose        = "verbose"
)

// SetDefaults registers defaults for every known key. Called once during
// command initialization, before any key is read.
func SetDefaults() {
	viper.SetDefault(KeyDataFile, filepath.Join(DefaultRootDir, DefaultDataFile))
	viper.SetDefault(KeyServerPort, 8080)
	viper.SetDefault(KeyStaticDir, "")
	viper.SetDefault(KeyAllowedOrigins, []string{"*"})
	viper.SetDefault(KeyVerbose, false)
}

// DataFilePath returns the configured document path.
func DataFilePath() string {
	return viper.GetString(KeyDataFile)
}

// ServerPort returns the configured API port.
func ServerPort() int {
	return viper.GetInt(KeyServerPort)
}

// StaticDir returns the front-end directory to serve, empty when disabled.
func StaticDir() string {
	return viper.GetString(KeyStaticDir)
}

// AllowedOrigins returns the CORS origin allowlist; "*" allows any origin.
func AllowedOrigins() []string {
	return viper.GetStringSlice(KeyAllowedOrigins)
}

// Verbose reports whether debug logging is enabled.
func Verbose() bool {
	return viper.GetBool(KeyVerbose)
}
