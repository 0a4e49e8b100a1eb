// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package frost

import (
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost/internal"
	"github.com/zecdev/frost/internal/schnorr"
)

// Signature represents a Schnorr signature. For Ed25519, its encoding is a valid RFC8032 signature.
type Signature struct {
	R           *group.Element
	Z           *group.Scalar
	Ciphersuite Ciphersuite
}

// Encode serializes the signature into a fixed-width byte string R || Z, without ciphersuite header.
func (s *Signature) Encode() []byte {
	return internal.Concatenate(s.R.Encode(), s.Z.Encode())
}

// Decode attempts to deserialize the encoded input into the signature, in the signature's ciphersuite, which must be
// set.
func (s *Signature) Decode(data []byte) error {
	sig, err := s.Ciphersuite.DecodeSignature(data)
	if err != nil {
		return err
	}

	*s = *sig

	return nil
}

// DecodeSignature attempts to deserialize the fixed-width encoding R || Z of a signature.
func (c Ciphersuite) DecodeSignature(data []byte) (*Signature, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	sig := new(schnorr.Signature)
	if err := sig.Decode(c.suite(), data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSignature, err)
	}

	return &Signature{R: sig.R, Z: sig.Z, Ciphersuite: c}, nil
}

func verify(cs *internal.Ciphersuite, message []byte, signature *Signature, verifyingKey *group.Element) error {
	if signature == nil || signature.R == nil || signature.Z == nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, ErrMalformedSignature)
	}

	if !schnorr.Verify(cs, message, &schnorr.Signature{R: signature.R, Z: signature.Z}, verifyingKey) {
		return fmt.Errorf("%w: %w", ErrValidationFailed, ErrInvalidSignature)
	}

	return nil
}

// VerifySignature returns nil if the signature of the message is valid under the group verifying key of the public
// key package, or under the randomized group verifying key if a randomizer is given.
func VerifySignature(message []byte, signature *Signature, publicKeys *PublicKeyPackage, randomizer *Randomizer) error {
	if err := publicKeys.Validate(); err != nil {
		return err
	}

	cs := publicKeys.Ciphersuite

	if err := cs.checkRandomizer(randomizer); err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	if signature != nil && signature.Ciphersuite != cs {
		return fmt.Errorf("%w: %w: signature of ciphersuite %s", ErrValidationFailed, ErrMalformedSignature,
			signature.Ciphersuite)
	}

	verifyingKey := publicKeys.VerifyingKey
	if randomizer != nil {
		verifyingKey = randomizer.RandomizedVerifyingKey(verifyingKey)
	}

	return verify(cs.suite(), message, signature, verifyingKey)
}

// VerifyWithKey returns nil if the signature of the message is valid under the single verifying key.
func (c Ciphersuite) VerifyWithKey(message []byte, signature *Signature, verifyingKey *group.Element) error {
	if err := c.check(); err != nil {
		return err
	}

	if verifyingKey == nil || verifyingKey.IsIdentity() {
		return ErrMalformedVerifyingKey
	}

	return verify(c.suite(), message, signature, verifyingKey)
}

// SignWithKey returns a Schnorr signature over the message with the full secret signing key, as opposed to a key
// share. The resulting signature verifies like a threshold signature under key * G.
func (c Ciphersuite) SignWithKey(message []byte, key *group.Scalar) (*Signature, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	if key == nil || key.IsZero() {
		return nil, ErrMalformedSigningKey
	}

	sig := schnorr.Sign(c.suite(), message, key)

	return &Signature{R: sig.R, Z: sig.Z, Ciphersuite: c}, nil
}
