// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zecdev/frost"
	"github.com/zecdev/frost/internal/logging"
)

// Configuration keys, shared by the flags, the config file and the FROSTCTL_ environment variables.
const (
	keyCiphersuite = "ciphersuite"
	keyLogLevel    = "log-level"
	keyLogFormat   = "log-format"
	keyDir         = "dir"

	envPrefix      = "FROSTCTL"
	configName     = "frostctl"
	defaultSuite   = "ed25519"
	defaultDirName = "."
)

var ciphersuiteAliases = map[string]frost.Ciphersuite{
	"ed25519":              frost.Ed25519,
	"ristretto255":         frost.Ristretto255,
	"p256":                 frost.P256,
	"secp256k1":            frost.Secp256k1,
	"ristretto255-blake2b": frost.Ristretto255Blake2b,
}

// Config holds the settings of a frostctl run.
type Config struct {
	// Ciphersuite is used by the commands that create new material. Commands reading files use the ciphersuite
	// found in their headers.
	Ciphersuite frost.Ciphersuite

	LogLevel  logging.Level
	LogFormat logging.Format

	// Dir is where generated files are written by default.
	Dir string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyCiphersuite, defaultSuite)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFormat, string(logging.FormatText))
	v.SetDefault(keyDir, defaultDirName)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// loadConfig reads the config file, if any, and returns the resolved settings. An explicit file must exist, while
// the default frostctl.yaml in the working directory is optional.
func loadConfig(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cs, err := parseCiphersuite(v.GetString(keyCiphersuite))
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(v.GetString(keyLogLevel))
	if err != nil {
		return nil, err
	}

	format, err := logging.ParseFormat(v.GetString(keyLogFormat))
	if err != nil {
		return nil, err
	}

	return &Config{
		Ciphersuite: cs,
		LogLevel:    level,
		LogFormat:   format,
		Dir:         v.GetString(keyDir),
	}, nil
}

// parseCiphersuite accepts a short alias or a ciphersuite context string.
func parseCiphersuite(name string) (frost.Ciphersuite, error) {
	if cs, ok := ciphersuiteAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return cs, nil
	}

	return frost.CiphersuiteFromString(name)
}
