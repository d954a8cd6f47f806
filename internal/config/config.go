// Copyright (c) 2026 Keymaster Team
// Keykapp - append-only message logger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config resolves keykapp settings from defaults, YAML files,
// KEYKAPP_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	DefaultPath     = "/tmp/keykapp.log"
	DefaultMessage  = "hello world\n"
	DefaultLanguage = "en"

	configName = "keykapp"
	envPrefix  = "keykapp"
)

// Config is the effective configuration of a keykapp invocation.
type Config struct {
	// Path is the file the message is appended to.
	Path string `mapstructure:"path" yaml:"path"`
	// Message is appended verbatim, no newline is added.
	Message  string `mapstructure:"message" yaml:"message"`
	Sync     bool   `mapstructure:"sync" yaml:"sync"`
	Language string `mapstructure:"language" yaml:"language"`
}

// Defaults returns the default key/value map used by LoadConfig.
func Defaults() map[string]any {
	return map[string]any{
		"path":     DefaultPath,
		"message":  DefaultMessage,
		"sync":     false,
		"language": DefaultLanguage,
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Keykapp")
		default:
			configDir = "/etc/keykapp"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "keykapp")
	}

	return filepath.Join(configDir, configName+".yaml"), nil
}

// LoadConfig layers defaults, config files, environment and the flags of
// cmd (in increasing precedence) and unmarshals the result into T.
// A missing config file is not an error.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")

	// An explicit --config file takes precedence over the search paths.
	if configFile != nil {
		v.SetConfigFile(*configFile)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	if configFile == nil {
		mergeDotfile(v)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

// mergeDotfile merges a `.keykapp.yaml` from the current directory on top
// of whatever was read so far. Malformed dotfiles are ignored.
func mergeDotfile(v *viper.Viper) {
	const dotfile = ".keykapp.yaml"
	if _, err := os.Stat(dotfile); err != nil {
		return
	}
	v.SetConfigFile(dotfile)
	_ = v.MergeInConfig()
	v.SetConfigFile("")
}

// WriteConfigFile persists c as YAML to the user or system config path and
// returns the path written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}
	return path, WriteConfigFileTo(c, path)
}

// Marshal encodes c in the layout WriteConfigFile uses. Scalars are
// written JSON style (double-quoted, escaped) so the message reads back
// byte for byte; block scalars would fold CR, trailing blanks and
// control bytes.
func Marshal[T any](c *T) ([]byte, error) {
	return yaml.MarshalWithOptions(c, yaml.JSON())
}

// WriteConfigFileTo persists c as YAML to path, creating its directory.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0o600)
}
