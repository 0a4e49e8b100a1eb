// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package frost

import (
	"errors"
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost/internal/shamir"
	"github.com/zecdev/frost/internal/vss"
)

var errDealerInvariant = errors.New("trusted dealer produced an invalid share")

// Configuration holds the parameters of a trusted dealer key generation.
type Configuration struct {
	// Secret is the encoded group secret to split. If empty, a fresh random secret is generated.
	Secret []byte

	MinSigners uint16
	MaxSigners uint16
}

// Validate checks the signer counts, and the secret if one is set, for the ciphersuite.
func (c *Configuration) Validate(cs Ciphersuite) error {
	if err := cs.check(); err != nil {
		return err
	}

	if err := validateSignerCounts(c.MinSigners, c.MaxSigners); err != nil {
		return err
	}

	if len(c.Secret) != 0 {
		if _, err := decodeSecret(cs, c.Secret); err != nil {
			return err
		}
	}

	return nil
}

func validateSignerCounts(minSigners, maxSigners uint16) error {
	if minSigners < 2 {
		return ErrInvalidMinSigners
	}

	if maxSigners < 2 {
		return ErrInvalidMaxSigners
	}

	if minSigners > maxSigners {
		return ErrInvalidMinSigners
	}

	return nil
}

func decodeSecret(cs Ciphersuite, secret []byte) (*group.Scalar, error) {
	s, err := cs.decodeScalar(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSigningKey, err)
	}

	if s.IsZero() {
		return nil, fmt.Errorf("%w: secret is zero", ErrMalformedSigningKey)
	}

	return s, nil
}

// KeyGeneration is the output of a trusted dealer: one secret share per participant, to be sent over confidential
// and authenticated channels, and the public key package of the group.
type KeyGeneration struct {
	SecretShares     map[Identifier]*SecretShare
	PublicKeyPackage *PublicKeyPackage
}

// Identifiers returns the identifiers of the participants, in ascending order.
func (k *KeyGeneration) Identifiers() []Identifier {
	return k.PublicKeyPackage.Identifiers()
}

// TrustedDealerKeygen uses Shamir and Verifiable Secret Sharing to create secret shares of a group secret, which is
// either the one set in the configuration or a fresh random secret. identifiers are optional: if none are given, the
// participants are identified by 1 to MaxSigners, otherwise exactly MaxSigners distinct identifiers must be provided.
// Note that this is centralized and combines the shared secret at some point. To use a decentralized dealer-less key
// generation, use the dkg package.
func TrustedDealerKeygen(cs Ciphersuite, conf *Configuration, identifiers ...Identifier) (*KeyGeneration, error) {
	if conf == nil {
		return nil, fmt.Errorf("%w: nil configuration", ErrInvalidMaxSigners)
	}

	if err := cs.check(); err != nil {
		return nil, err
	}

	if err := validateSignerCounts(conf.MinSigners, conf.MaxSigners); err != nil {
		return nil, err
	}

	var secret *group.Scalar

	if len(conf.Secret) != 0 {
		s, err := decodeSecret(cs, conf.Secret)
		if err != nil {
			return nil, err
		}

		secret = s
	}

	return split(cs, secret, conf.MinSigners, conf.MaxSigners, identifiers)
}

// SplitSecret splits an existing group secret into secret shares. It behaves like TrustedDealerKeygen with a set
// secret.
func SplitSecret(
	cs Ciphersuite,
	secret *group.Scalar,
	minSigners, maxSigners uint16,
	identifiers ...Identifier,
) (*KeyGeneration, error) {
	if err := cs.check(); err != nil {
		return nil, err
	}

	if err := validateSignerCounts(minSigners, maxSigners); err != nil {
		return nil, err
	}

	if secret == nil || secret.IsZero() {
		return nil, fmt.Errorf("%w: secret is nil or zero", ErrMalformedSigningKey)
	}

	return split(cs, secret, minSigners, maxSigners, identifiers)
}

func split(
	cs Ciphersuite,
	secret *group.Scalar,
	minSigners, maxSigners uint16,
	identifiers []Identifier,
) (*KeyGeneration, error) {
	ids, err := dealerIdentifiers(cs, maxSigners, identifiers)
	if err != nil {
		return nil, err
	}

	g := cs.Group()
	poly := shamir.NewPolynomial(g, secret, minSigners)
	defer poly.Zero()

	commitment := VerifiableCommitment(vss.Commit(g, poly))

	scalars := make([]*group.Scalar, len(ids))
	for i, id := range ids {
		scalars[i] = id.Scalar()
	}

	shares := make(map[Identifier]*SecretShare, len(ids))

	for i, s := range shamir.Shard(g, poly, scalars) {
		share := &SecretShare{
			Ciphersuite:  cs,
			Identifier:   ids[i],
			SigningShare: s.Secret,
			Commitment:   commitment.copy(),
		}

		if _, _, err = share.Verify(); err != nil {
			return nil, fmt.Errorf("%w: %w", errDealerInvariant, err)
		}

		shares[ids[i]] = share
	}

	return &KeyGeneration{
		SecretShares:     shares,
		PublicKeyPackage: publicKeyPackageFromCommitment(cs, ids, commitment),
	}, nil
}

func dealerIdentifiers(cs Ciphersuite, maxSigners uint16, identifiers []Identifier) ([]Identifier, error) {
	if len(identifiers) == 0 {
		return cs.defaultIdentifiers(maxSigners), nil
	}

	if len(identifiers) != int(maxSigners) {
		return nil, fmt.Errorf("%w: got %d identifiers for %d signers", ErrInvalidMaxSigners, len(identifiers),
			maxSigners)
	}

	if err := checkIdentifiers(cs, identifiers); err != nil {
		return nil, err
	}

	ids := make([]Identifier, len(identifiers))
	copy(ids, identifiers)
	SortIdentifiers(ids)

	return ids, nil
}
