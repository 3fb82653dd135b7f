// Package where resolves the directories and files vodhound persists state in.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/filesystem"
)

// EnvConfigPath overrides the configuration directory when set.
const EnvConfigPath = "VODHOUND_CONFIG_PATH"

// mkdir creates the directory when missing and hands the path back.
func mkdir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config returns the configuration directory. It honors VODHOUND_CONFIG_PATH
// first, then the platform convention (XDG on Linux, the user profile on
// Darwin and Windows).
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return mkdir(custom)
	}

	return mkdir(filepath.Join(lo.Must(os.UserConfigDir()), constant.Vodhound))
}

// Sources returns the directory scanned for custom Lua adapter scripts.
func Sources() string {
	return mkdir(filepath.Join(Config(), "sources"))
}

// Sites returns the registry file describing the configured upstream sites.
func Sites() string {
	return filepath.Join(Config(), "sites.json")
}

// Logs returns the directory log files are written to.
func Logs() string {
	return mkdir(filepath.Join(Config(), "logs"))
}

// Cache returns the cache directory, falling back to a relative one when the
// platform offers none.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}

	return mkdir(filepath.Join(base, constant.Vodhound))
}

// Session returns the file the latest search session snapshot is saved to.
func Session() string {
	return filepath.Join(Cache(), "session.json")
}

// Queries returns the file keeping the weighted search suggestion history.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Temp returns a scratch directory wiped on the next start.
func Temp() string {
	return mkdir(filepath.Join(os.TempDir(), constant.Vodhound))
}
