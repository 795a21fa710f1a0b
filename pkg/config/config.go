// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the settings shared by the mlxfw tools.
//
// Settings come from defaults, an optional config file and MLXFW_*
// environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding settings.
const EnvPrefix = "MLXFW"

// MLXFW_LOG_LEVEL maps to log-level.
var envReplacer = strings.NewReplacer("-", "_")

// Config defines the tool configuration.
type Config struct {
	// MstFlint is the path or name of the mstflint binary.
	MstFlint string `mapstructure:"mstflint"`
	// Verify runs mstflint on produced images.
	Verify bool `mapstructure:"verify"`
	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `mapstructure:"log-level"`
	// TempSuffix names the scratch image next to the patched one.
	TempSuffix string `mapstructure:"temp-suffix"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		MstFlint:   "mstflint",
		Verify:     true,
		LogLevel:   "warn",
		TempSuffix: ".tmp",
	}
}

// Load reads the configuration. If path is empty, mlxfw.{yaml,toml,json}
// is looked up in the working directory and the user config directory; a
// missing file is not an error in that case.
func Load(path string) (*Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("mstflint", def.MstFlint)
	v.SetDefault("verify", def.Verify)
	v.SetDefault("log-level", def.LogLevel)
	v.SetDefault("temp-suffix", def.TempSuffix)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mlxfw")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading configuration: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}
