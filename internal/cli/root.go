// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package cli implements the frostctl command tree.
package cli

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zecdev/frost/internal/logging"
)

// app carries the state shared by all commands of a run.
type app struct {
	v      *viper.Viper
	conf   *Config
	log    logging.Logger
	out    io.Writer
	errOut io.Writer
}

// NewRootCommand returns the frostctl command tree, writing results to out and logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{
		v:      newViper(),
		log:    logging.Nop(),
		out:    out,
		errOut: errOut,
	}

	var configFile string

	root := &cobra.Command{
		Use:   "frostctl",
		Short: "FROST threshold signing over JSON files",
		Long: `frostctl runs FROST key generation and signing sessions, exchanging JSON files
between the participants and the coordinator.

A signing session goes as follows:
  - each signer runs "commit" and sends its commitments to the coordinator
  - the coordinator runs "signing-package" (and "randomizer" for re-randomized suites)
  - each signer runs "sign" and sends its signature share to the coordinator
  - the coordinator runs "aggregate", and anyone can "verify" the signature`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup(configFile)
		},
	}

	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is ./frostctl.yaml)")
	flags.String(keyCiphersuite, defaultSuite,
		"ciphersuite for new material (ed25519, ristretto255, p256, secp256k1, ristretto255-blake2b)")
	flags.String(keyLogLevel, "info", "log level (debug, info, warn, error)")
	flags.String(keyLogFormat, string(logging.FormatText), "log format (text, json)")
	flags.String(keyDir, defaultDirName, "directory for generated files")

	for _, key := range []string{keyCiphersuite, keyLogLevel, keyLogFormat, keyDir} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		newKeygenCommand(a),
		newIdentifierCommand(a),
		newDKGCommand(a),
		newCommitCommand(a),
		newSigningPackageCommand(a),
		newRandomizerCommand(a),
		newSignCommand(a),
		newAggregateCommand(a),
		newVerifyCommand(a),
	)

	return root
}

func (a *app) setup(configFile string) error {
	conf, err := loadConfig(a.v, configFile)
	if err != nil {
		return err
	}

	a.conf = conf
	a.log = logging.New(&logging.Config{
		Output: a.errOut,
		Level:  conf.LogLevel,
		Format: conf.LogFormat,
	})

	a.log.Debug("configuration loaded",
		logging.String(keyCiphersuite, conf.Ciphersuite.String()),
		logging.String(keyDir, conf.Dir),
		logging.String("config_file", a.v.ConfigFileUsed()))

	return nil
}
