// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package frost

import (
	"fmt"

	group "github.com/bytemare/crypto"
)

// SignatureShare represents a signer's signature share and its identifier.
type SignatureShare struct {
	Identifier  Identifier
	Share       *group.Scalar
	Ciphersuite Ciphersuite
}

func signingError(err error) error {
	return fmt.Errorf("%w: %w", ErrSigningFailed, err)
}

// Sign produces a participant's signature share over the signing package's message. The nonces must be those
// generated by the call to Commit whose commitment is in the signing package. Once the signature share is produced,
// the nonces are zeroed and another call to Sign with them returns an error. Concurrent calls with the same nonces are
// serialized, so that at most one of them succeeds.
//
// The randomizer must be nil for ciphersuites in StandardSigning mode, and is mandatory in RandomizedSigning mode.
func Sign(
	signingPackage *SigningPackage,
	nonces *SigningNonces,
	keyPackage *KeyPackage,
	randomizer *Randomizer,
) (*SignatureShare, error) {
	if err := keyPackage.Validate(); err != nil {
		return nil, signingError(err)
	}

	defer nonces.acquire()()

	if err := nonces.check(); err != nil {
		return nil, signingError(err)
	}

	cs := keyPackage.Ciphersuite

	if nonces.Ciphersuite() != cs {
		return nil, signingError(fmt.Errorf("%w: nonces and key package ciphersuites differ", ErrInvalidCiphersuite))
	}

	if err := cs.checkRandomizer(randomizer); err != nil {
		return nil, signingError(err)
	}

	if signingPackage == nil || signingPackage.Ciphersuite != cs {
		return nil, signingError(
			fmt.Errorf("%w: nil signing package or unexpected ciphersuite", ErrSigningPackageDeserialization),
		)
	}

	if len(signingPackage.Commitments) < int(keyPackage.MinSigners) {
		return nil, signingError(fmt.Errorf("%w: got %d, need at least %d", ErrIncorrectNumberOfCommitments,
			len(signingPackage.Commitments), keyPackage.MinSigners))
	}

	commitment := signingPackage.Commitment(keyPackage.Identifier)
	if commitment == nil {
		return nil, signingError(culprit(ErrMissingCommitment, keyPackage.Identifier))
	}

	if !commitment.Equal(nonces.commitments) {
		return nil, signingError(culprit(ErrIncorrectCommitment, keyPackage.Identifier))
	}

	list, err := signingPackage.validate()
	if err != nil {
		return nil, signingError(err)
	}

	if randomizer != nil {
		if keyPackage, err = keyPackage.Randomize(randomizer); err != nil {
			return nil, signingError(err)
		}
	}

	suite := cs.suite()
	groupCommitment, bindingFactors := suite.GroupCommitmentAndBindingFactors(
		keyPackage.VerifyingKey,
		signingPackage.Message,
		list,
	)

	id := keyPackage.Identifier.Scalar()
	challenge := suite.SchnorrChallenge(signingPackage.Message, groupCommitment, keyPackage.VerifyingKey)

	lambdaChall, err := suite.ChallengeFactor(id, list, challenge)
	if err != nil {
		return nil, signingError(err)
	}

	// Compute the signature share: h + b*f + l*c*s
	bindingFactor := bindingFactors.Get(id)
	sigShare := nonces.hiding.Copy().
		Add(bindingFactor.Multiply(nonces.binding).
			Add(lambdaChall.Multiply(keyPackage.SigningShare)))

	nonces.zero()

	return &SignatureShare{
		Identifier:  keyPackage.Identifier,
		Share:       sigShare,
		Ciphersuite: cs,
	}, nil
}
