// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package cli

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zecdev/frost"
	"github.com/zecdev/frost/dkg"
	"github.com/zecdev/frost/internal/logging"
)

var errPublicKeyMismatch = errors.New("public key package differs from the one already in the directory")

// dkgLayout places the DKG files in a directory shared by the participants:
//
//	round1/<id>.json           broadcast round 1 package of id
//	round2/<from>/<to>.json    round 2 package sent by from to to
//	secret/<id>/round1.json    secret package of id between parts 1 and 2
//	secret/<id>/round2.json    secret package of id between parts 2 and 3
//	key-<id>.json              key package of id
//	public.json                public key package of the group
type dkgLayout string

func (l dkgLayout) round1(id frost.Identifier) string {
	return filepath.Join(string(l), "round1", id.String()+".json")
}

func (l dkgLayout) round2(from, to frost.Identifier) string {
	return filepath.Join(string(l), "round2", from.String(), to.String()+".json")
}

func (l dkgLayout) secret(id frost.Identifier, part int) string {
	return filepath.Join(string(l), "secret", id.String(), fmt.Sprintf("round%d.json", part))
}

// readRound1 returns the round 1 packages of all participants other than self.
func (l dkgLayout) readRound1(cs frost.Ciphersuite, self frost.Identifier) (map[frost.Identifier]*dkg.Round1Package, error) {
	files, err := filepath.Glob(filepath.Join(string(l), "round1", "*.json"))
	if err != nil {
		return nil, err
	}

	packages := make(map[frost.Identifier]*dkg.Round1Package, len(files))

	for _, file := range files {
		id, err := cs.IdentifierFromHex(strings.TrimSuffix(filepath.Base(file), ".json"))
		if err != nil {
			return nil, fmt.Errorf("round 1 file %s: %w", file, err)
		}

		if id == self {
			continue
		}

		p := new(dkg.Round1Package)
		if err = readJSON(file, p); err != nil {
			return nil, err
		}

		packages[id] = p
	}

	return packages, nil
}

func newDKGCommand(a *app) *cobra.Command {
	var identifier string

	cmd := &cobra.Command{
		Use:   "dkg",
		Short: "Run a distributed key generation",
		Long: `Run a distributed key generation without a trusted dealer. All participants share
the directory set by --dir, and each runs part1, then part2 once all round 1
packages are present, then part3 once all round 2 packages are present.`,
	}

	cmd.PersistentFlags().StringVar(&identifier, "identifier", "", "own identifier, as an index or hex")
	_ = cmd.MarkPersistentFlagRequired("identifier")

	var minSigners, maxSigners uint16

	part1 := &cobra.Command{
		Use:   "part1",
		Short: "Commit to a secret polynomial and broadcast the round 1 package",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cs := a.conf.Ciphersuite
			layout := dkgLayout(a.conf.Dir)

			id, err := parseIdentifier(cs, identifier)
			if err != nil {
				return err
			}

			secret, public, err := dkg.Part1(cs, id, maxSigners, minSigners)
			if err != nil {
				return err
			}

			if err = writeJSON(layout.secret(id, 1), secret, true); err != nil {
				return err
			}

			if err = writeJSON(layout.round1(id), public, false); err != nil {
				return err
			}

			a.log.Info("dkg part 1 done", logging.String("identifier", id.String()),
				logging.Uint16("min_signers", minSigners), logging.Uint16("max_signers", maxSigners))

			return nil
		},
	}

	part1.Flags().Uint16Var(&minSigners, "min", 2, "minimum number of signers")
	part1.Flags().Uint16Var(&maxSigners, "max", 3, "number of participants")

	part2 := &cobra.Command{
		Use:   "part2",
		Short: "Verify the round 1 packages and send a secret share to each participant",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.dkgPart2(dkgLayout(a.conf.Dir), identifier)
		},
	}

	part3 := &cobra.Command{
		Use:   "part3",
		Short: "Verify the received shares and compute the key packages",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.dkgPart3(dkgLayout(a.conf.Dir), identifier)
		},
	}

	cmd.AddCommand(part1, part2, part3)

	return cmd
}

func (a *app) dkgPart2(layout dkgLayout, identifier string) error {
	id, err := parseIdentifier(a.conf.Ciphersuite, identifier)
	if err != nil {
		return err
	}

	secret := new(dkg.Round1SecretPackage)
	if err = readJSON(layout.secret(id, 1), secret); err != nil {
		return err
	}

	round1, err := layout.readRound1(secret.Ciphersuite, id)
	if err != nil {
		return err
	}

	next, round2, err := dkg.Part2(secret, round1)
	if err != nil {
		return a.culpritError(err)
	}

	if err = writeJSON(layout.secret(id, 2), next, true); err != nil {
		return err
	}

	for peer, p := range round2 {
		if err = writeJSON(layout.round2(id, peer), p, true); err != nil {
			return err
		}
	}

	a.log.Info("dkg part 2 done", logging.String("identifier", id.String()), logging.Int("peers", len(round2)))

	return os.Remove(layout.secret(id, 1))
}

func (a *app) dkgPart3(layout dkgLayout, identifier string) error {
	id, err := parseIdentifier(a.conf.Ciphersuite, identifier)
	if err != nil {
		return err
	}

	secret := new(dkg.Round2SecretPackage)
	if err = readJSON(layout.secret(id, 2), secret); err != nil {
		return err
	}

	cs := secret.Ciphersuite

	round1, err := layout.readRound1(cs, id)
	if err != nil {
		return err
	}

	round2 := make(map[frost.Identifier]*dkg.Round2Package, len(round1))

	for peer := range round1 {
		p := new(dkg.Round2Package)
		if err = readJSON(layout.round2(peer, id), p); err != nil {
			return err
		}

		round2[peer] = p
	}

	keyPackage, publicKeys, err := dkg.Part3(secret, round1, round2)
	if err != nil {
		return a.culpritError(err)
	}

	if err = a.writePublicKeys(filepath.Join(string(layout), publicFile), publicKeys); err != nil {
		return err
	}

	if err = writeJSON(keyFile(string(layout), id), keyPackage, true); err != nil {
		return err
	}

	a.log.Info("dkg part 3 done", logging.String("identifier", id.String()),
		logging.String("verifying_key", hex.EncodeToString(publicKeys.VerifyingKey.Encode())))

	return os.Remove(layout.secret(id, 2))
}

// writePublicKeys writes the public key package, or checks that it is the same as the one already written by another
// participant.
func (a *app) writePublicKeys(path string, publicKeys *frost.PublicKeyPackage) error {
	existing := new(frost.PublicKeyPackage)

	err := readJSON(path, existing)

	switch {
	case errors.Is(err, os.ErrNotExist):
		return writeJSON(path, publicKeys, false)
	case err != nil:
		return err
	case !bytes.Equal(existing.Encode(), publicKeys.Encode()):
		return errPublicKeyMismatch
	default:
		a.log.Debug("public key package matches", logging.String("file", path))
		return nil
	}
}

// culpritError logs the participant blamed by err, if any, and returns err.
func (a *app) culpritError(err error) error {
	if id, ok := frost.Culprit(err); ok {
		a.log.Error("misbehaving participant", logging.String("culprit", id.String()), logging.Error(err))
	}

	return err
}
