// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/vres-cli/vres/constant"
	"github.com/vres-cli/vres/filesystem"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "VRES_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory, honouring EnvConfigPath before the platform default.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Vres))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Vres))
}

// Logs resolves the directory holding daily log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// ConfigFile resolves the path of the TOML configuration file.
func ConfigFile() string {
	return filepath.Join(Config(), constant.Vres+".toml")
}

// VersionCache resolves the file caching the latest released version.
func VersionCache() string {
	return filepath.Join(Cache(), "version.json")
}
