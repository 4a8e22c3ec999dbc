// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"strings"

	"github.com/spf13/viper"
	"github.com/vres-cli/vres/constant"
	"github.com/vres-cli/vres/filesystem"
	"github.com/vres-cli/vres/where"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.Vres)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Vres)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}
