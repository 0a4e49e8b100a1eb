// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package cli

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zecdev/frost"
	"github.com/zecdev/frost/internal/logging"
)

func newKeygenCommand(a *app) *cobra.Command {
	var (
		minSigners, maxSigners uint16
		secretHex, out         string
		identifiers            []string
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate secret shares with a trusted dealer",
		Long: `Generate the secret shares of a new group with a trusted dealer, writing the
public key package to public.json and each participant's share to share-<id>.json.

With --secret-hex, the given group secret is split instead of a fresh one.

Examples:
  frostctl keygen --min 2 --max 3 --out ./group
  frostctl keygen --min 2 --max 3 --identifier 10 --identifier 20 --identifier 30`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cs := a.conf.Ciphersuite

			conf := &frost.Configuration{MinSigners: minSigners, MaxSigners: maxSigners}

			if secretHex != "" {
				secret, err := hex.DecodeString(secretHex)
				if err != nil {
					return fmt.Errorf("%w: %w", frost.ErrMalformedSigningKey, err)
				}

				conf.Secret = secret
			}

			if err := conf.Validate(cs); err != nil {
				return err
			}

			ids, err := parseIdentifiers(cs, identifiers)
			if err != nil {
				return err
			}

			keys, err := frost.TrustedDealerKeygen(cs, conf, ids...)
			if err != nil {
				return err
			}

			if out == "" {
				out = a.conf.Dir
			}

			if err = writeJSON(filepath.Join(out, publicFile), keys.PublicKeyPackage, false); err != nil {
				return err
			}

			for _, id := range keys.Identifiers() {
				if err = writeJSON(shareFile(out, id), keys.SecretShares[id], true); err != nil {
					return err
				}
			}

			a.log.Info("generated key shares",
				logging.String(keyCiphersuite, cs.String()),
				logging.Uint16("min_signers", minSigners),
				logging.Uint16("max_signers", maxSigners),
				logging.Bool("split", len(conf.Secret) != 0),
				logging.String("out", out))

			return nil
		},
	}

	cmd.Flags().Uint16Var(&minSigners, "min", 2, "minimum number of signers")
	cmd.Flags().Uint16Var(&maxSigners, "max", 3, "number of participants")
	cmd.Flags().StringVar(&secretHex, "secret-hex", "", "hex-encoded group secret to split")
	cmd.Flags().StringSliceVar(&identifiers, "identifier", nil, "participant identifier, as an index or hex (repeatable)")
	cmd.Flags().StringVar(&out, "out", "", "output directory (defaults to --dir)")

	return cmd
}

func newIdentifierCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identifier",
		Short: "Compute participant identifiers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "derive SEED",
		Short: "Derive an identifier from an arbitrary string",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := a.conf.Ciphersuite.DeriveIdentifier([]byte(args[0]))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(a.out, id)

			return err
		},
	}, &cobra.Command{
		Use:   "index N",
		Short: "Encode a participant index as an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(args[0], 10, 16)
			if err != nil {
				return fmt.Errorf("%w: %w", frost.ErrMalformedIdentifier, err)
			}

			id, err := a.conf.Ciphersuite.IdentifierFromUint16(uint16(n))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(a.out, id)

			return err
		},
	})

	return cmd
}
