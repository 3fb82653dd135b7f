// Package config registers vodhound's settings, their factory defaults and
// the viper engine that resolves them from file and environment.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/filesystem"
	"github.com/vodhound/vodhound/where"
)

// EnvKeyReplacer converts config keys to their environment variable spelling.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup wires viper to the config file, the environment and the registered
// defaults. Call it once, before anything reads a key.
func Setup() error {
	viper.SetConfigName(constant.Vodhound)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetTypeByDefaultValue(true)
	for key, field := range Default {
		viper.SetDefault(key, field.Value)
	}

	viper.SetEnvPrefix(constant.Vodhound)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, key := range EnvExposed {
		viper.MustBindEnv(key)
	}

	err := viper.ReadInConfig()

	// A missing file just means factory defaults.
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}

	return err
}
