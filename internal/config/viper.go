package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the client.
const EnvPrefix = "SCHOLAR"

func newKeyReplacer() *strings.Replacer {
	return strings.NewReplacer("-", "_")
}

// NewViper returns a viper instance reading SCHOLAR_* environment variables
// with Default() values registered. Callers bind their flags on top.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(newKeyReplacer())
	v.AutomaticEnv()
	SetDefaults(v)

	v.SetConfigName("scholar")
	v.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "scholar"))
	}
	v.AddConfigPath("$HOME/.config/scholar")
	return v
}

// ReadConfigFile loads scholar.yaml when one exists. It returns the path
// used, or "" when no config file was found.
func ReadConfigFile(v *viper.Viper) (string, error) {
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) {
			return "", nil
		}
		return "", err
	}
	return v.ConfigFileUsed(), nil
}
