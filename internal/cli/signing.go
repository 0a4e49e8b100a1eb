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
	"os"

	"github.com/spf13/cobra"

	"github.com/zecdev/frost"
	"github.com/zecdev/frost/internal/logging"
)

var errKeySource = errors.New("exactly one of --share and --key must be set")

func newCommitCommand(a *app) *cobra.Command {
	var share, key, out string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Generate signing nonces and their commitments for the next signing session",
		Long: `Generate one-time signing nonces and their commitments. The nonces are written to
nonces-<id>.json and must stay private, while commitments-<id>.json is sent to
the coordinator. With --share, the secret share is first verified and its key
package is written to key-<id>.json.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if out == "" {
				out = a.conf.Dir
			}

			keyPackage, err := a.loadKeyPackage(share, key, out)
			if err != nil {
				return err
			}

			nonces, commitments, err := frost.Commit(keyPackage)
			if err != nil {
				return err
			}

			if err = writeJSON(noncesFile(out, keyPackage.Identifier), nonces, true); err != nil {
				return err
			}

			if err = writeJSON(commitmentsFile(out, keyPackage.Identifier), commitments, false); err != nil {
				return err
			}

			a.log.Info("generated signing commitments", logging.String("identifier", keyPackage.Identifier.String()))

			return nil
		},
	}

	cmd.Flags().StringVar(&share, "share", "", "secret share file from keygen")
	cmd.Flags().StringVar(&key, "key", "", "key package file")
	cmd.Flags().StringVar(&out, "out", "", "output directory (defaults to --dir)")

	return cmd
}

func (a *app) loadKeyPackage(share, key, out string) (*frost.KeyPackage, error) {
	switch {
	case (share == "") == (key == ""):
		return nil, errKeySource
	case key != "":
		keyPackage := new(frost.KeyPackage)
		if err := readJSON(key, keyPackage); err != nil {
			return nil, err
		}

		return keyPackage, nil
	default:
		secretShare := new(frost.SecretShare)
		if err := readJSON(share, secretShare); err != nil {
			return nil, err
		}

		keyPackage, err := frost.VerifyAndPackage(secretShare)
		if err != nil {
			return nil, err
		}

		if err = writeJSON(keyFile(out, keyPackage.Identifier), keyPackage, true); err != nil {
			return nil, err
		}

		a.log.Debug("verified secret share", logging.String("identifier", keyPackage.Identifier.String()))

		return keyPackage, nil
	}
}

func newSigningPackageCommand(a *app) *cobra.Command {
	var message, messageHex, out string
	var commitmentFiles []string

	cmd := &cobra.Command{
		Use:   "signing-package",
		Short: "Build the signing package from the message and the signers' commitments",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			msg, err := parseMessage(message, messageHex)
			if err != nil {
				return err
			}

			commitments := make([]*frost.SigningCommitments, len(commitmentFiles))

			for i, file := range commitmentFiles {
				commitments[i] = new(frost.SigningCommitments)
				if err = readJSON(file, commitments[i]); err != nil {
					return err
				}
			}

			if len(commitments) == 0 {
				return fmt.Errorf("%w: no commitment files", frost.ErrIncorrectNumberOfCommitments)
			}

			signingPackage, err := frost.NewSigningPackage(commitments[0].Ciphersuite, msg, commitments)
			if err != nil {
				return a.culpritError(err)
			}

			if err = writeJSON(out, signingPackage, false); err != nil {
				return err
			}

			a.log.Info("built signing package", logging.Int("signers", len(signingPackage.Commitments)),
				logging.Int("message_length", len(msg)))

			return nil
		},
	}

	cmd.Flags().StringVar(&message, "message", "", "message to sign")
	cmd.Flags().StringVar(&messageHex, "message-hex", "", "hex-encoded message to sign")
	cmd.Flags().StringSliceVar(&commitmentFiles, "commitment", nil, "signer commitments file (repeatable)")
	cmd.Flags().StringVar(&out, "out", "", "signing package file")
	_ = cmd.MarkFlagRequired("commitment")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func newRandomizerCommand(a *app) *cobra.Command {
	var public, signingPackageFile, out string

	cmd := &cobra.Command{
		Use:   "randomizer",
		Short: "Derive the randomizer of a signing session for re-randomized ciphersuites",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			publicKeys := new(frost.PublicKeyPackage)
			if err := readJSON(public, publicKeys); err != nil {
				return err
			}

			signingPackage := new(frost.SigningPackage)
			if err := readJSON(signingPackageFile, signingPackage); err != nil {
				return err
			}

			params, err := frost.NewRandomizedParams(publicKeys, signingPackage)
			if err != nil {
				return err
			}

			if err = writeJSON(out, params.Randomizer, false); err != nil {
				return err
			}

			a.log.Info("derived randomizer", logging.String("randomized_verifying_key",
				fmt.Sprintf("%x", params.RandomizedVerifyingKey.Encode())))

			return nil
		},
	}

	cmd.Flags().StringVar(&public, "public", "", "public key package file")
	cmd.Flags().StringVar(&signingPackageFile, "signing-package", "", "signing package file")
	cmd.Flags().StringVar(&out, "out", "", "randomizer file")
	_ = cmd.MarkFlagRequired("public")
	_ = cmd.MarkFlagRequired("signing-package")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func newSignCommand(a *app) *cobra.Command {
	var signingPackageFile, noncesPath, key, randomizerFile, out string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Compute this signer's signature share",
		Long: `Compute the signature share over the signing package. The nonces file is deleted
once used, since signing twice with the same nonces reveals the secret share.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			keyPackage := new(frost.KeyPackage)
			if err := readJSON(key, keyPackage); err != nil {
				return err
			}

			nonces := new(frost.SigningNonces)
			if err := readJSON(noncesPath, nonces); err != nil {
				return err
			}

			signingPackage := new(frost.SigningPackage)
			if err := readJSON(signingPackageFile, signingPackage); err != nil {
				return err
			}

			randomizer, err := readRandomizer(randomizerFile, keyPackage.Ciphersuite)
			if err != nil {
				return err
			}

			share, err := frost.Sign(signingPackage, nonces, keyPackage, randomizer)
			if err != nil {
				return err
			}

			if err = os.Remove(noncesPath); err != nil {
				return err
			}

			if err = writeJSON(out, share, false); err != nil {
				return err
			}

			a.log.Info("signed", logging.String("identifier", share.Identifier.String()))

			return nil
		},
	}

	cmd.Flags().StringVar(&signingPackageFile, "signing-package", "", "signing package file")
	cmd.Flags().StringVar(&noncesPath, "nonces", "", "signing nonces file from commit")
	cmd.Flags().StringVar(&key, "key", "", "key package file")
	cmd.Flags().StringVar(&randomizerFile, "randomizer", "", "randomizer file, for re-randomized ciphersuites")
	cmd.Flags().StringVar(&out, "out", "", "signature share file")

	for _, f := range []string{"signing-package", "nonces", "key", "out"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newAggregateCommand(a *app) *cobra.Command {
	var signingPackageFile, public, randomizerFile, out string
	var shareFiles []string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Verify the signature shares and aggregate them into the group signature",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			publicKeys := new(frost.PublicKeyPackage)
			if err := readJSON(public, publicKeys); err != nil {
				return err
			}

			signingPackage := new(frost.SigningPackage)
			if err := readJSON(signingPackageFile, signingPackage); err != nil {
				return err
			}

			shares := make([]*frost.SignatureShare, len(shareFiles))
			for i, file := range shareFiles {
				shares[i] = new(frost.SignatureShare)
				if err := readJSON(file, shares[i]); err != nil {
					return err
				}
			}

			randomizer, err := readRandomizer(randomizerFile, publicKeys.Ciphersuite)
			if err != nil {
				return err
			}

			signature, err := frost.Aggregate(signingPackage, shares, publicKeys, randomizer)
			if err != nil {
				return a.culpritError(err)
			}

			if err = writeJSON(out, signature, false); err != nil {
				return err
			}

			a.log.Info("aggregated signature", logging.Int("signers", len(shares)),
				logging.String(keyCiphersuite, publicKeys.Ciphersuite.String()))

			return nil
		},
	}

	cmd.Flags().StringVar(&signingPackageFile, "signing-package", "", "signing package file")
	cmd.Flags().StringVar(&public, "public", "", "public key package file")
	cmd.Flags().StringSliceVar(&shareFiles, "share", nil, "signature share file (repeatable)")
	cmd.Flags().StringVar(&randomizerFile, "randomizer", "", "randomizer file, for re-randomized ciphersuites")
	cmd.Flags().StringVar(&out, "out", "", "signature file")

	for _, f := range []string{"signing-package", "public", "share", "out"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func newVerifyCommand(a *app) *cobra.Command {
	var public, message, messageHex, signatureFile, randomizerFile string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signature under the group verifying key",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			msg, err := parseMessage(message, messageHex)
			if err != nil {
				return err
			}

			publicKeys := new(frost.PublicKeyPackage)
			if err = readJSON(public, publicKeys); err != nil {
				return err
			}

			signature := new(frost.Signature)
			if err = readJSON(signatureFile, signature); err != nil {
				return err
			}

			randomizer, err := readRandomizer(randomizerFile, publicKeys.Ciphersuite)
			if err != nil {
				return err
			}

			if err = frost.VerifySignature(msg, signature, publicKeys, randomizer); err != nil {
				return err
			}

			_, err = fmt.Fprintln(a.out, "valid")

			return err
		},
	}

	cmd.Flags().StringVar(&public, "public", "", "public key package file")
	cmd.Flags().StringVar(&message, "message", "", "signed message")
	cmd.Flags().StringVar(&messageHex, "message-hex", "", "hex-encoded signed message")
	cmd.Flags().StringVar(&signatureFile, "signature", "", "signature file")
	cmd.Flags().StringVar(&randomizerFile, "randomizer", "", "randomizer file, for re-randomized ciphersuites")
	_ = cmd.MarkFlagRequired("public")
	_ = cmd.MarkFlagRequired("signature")

	return cmd
}
