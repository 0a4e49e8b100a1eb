// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package debug provides tools for key generation and verification for debugging purposes. They might be helpful for
// setups and investigations, but are not recommended to be used with production data (e.g. centralized key generation
// or recovery reveals the group's secret key in one spot, which goes against the principle in a decentralized setup).
package debug

import (
	"errors"
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost"
	"github.com/zecdev/frost/internal/shamir"
	"github.com/zecdev/frost/internal/vss"
)

var (
	errNoShares          = errors.New("no shares provided")
	errMixedCiphersuites = errors.New("shares of different ciphersuites")
)

// RecoverGroupSecret returns the groups secret from at least t-among-n (t = threshold) participant key packages. This
// is not recommended, as combining all distributed secret shares can put the group secret at risk.
func RecoverGroupSecret(keyPackages []*frost.KeyPackage) (*group.Scalar, error) {
	if len(keyPackages) == 0 {
		return nil, errNoShares
	}

	cs := keyPackages[0].Ciphersuite
	shares := make([]*shamir.Share, len(keyPackages))

	for i, k := range keyPackages {
		if err := k.Validate(); err != nil {
			return nil, err
		}

		if k.Ciphersuite != cs {
			return nil, errMixedCiphersuites
		}

		shares[i] = &shamir.Share{ID: k.Identifier.Scalar(), Secret: k.SigningShare}
	}

	secret, err := shamir.Combine(cs.Group(), shares, int(keyPackages[0].MinSigners))
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct group secret: %w", err)
	}

	return secret, nil
}

// RecoverPublicKeys returns the group public key as well those from all participants.
func RecoverPublicKeys(
	cs frost.Ciphersuite,
	commitment frost.VerifiableCommitment,
	identifiers []frost.Identifier,
) (*group.Element, map[frost.Identifier]*group.Element, error) {
	pkp, err := frost.PublicKeyPackageFromCommitment(cs, identifiers, commitment)
	if err != nil {
		return nil, nil, err
	}

	return pkp.VerifyingKey, pkp.VerifyingShares, nil
}

// VerifyVSS allows verification of a participant's secret share given the VSS commitment to the secret polynomial
// it holds.
func VerifyVSS(share *frost.SecretShare) bool {
	if share == nil || share.SigningShare == nil || share.Identifier.IsZero() || !share.Ciphersuite.Available() {
		return false
	}

	return vss.Verify(share.Ciphersuite.Group(), share.Identifier.Scalar(), share.SigningShare,
		vss.Commitment(share.Commitment))
}

// PublicKeyFromSecret returns the verifying key of the secret.
func PublicKeyFromSecret(cs frost.Ciphersuite, secret *group.Scalar) *group.Element {
	return cs.Group().Base().Multiply(secret)
}
