// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package frost

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost/internal"
)

// Randomizer is the scalar alpha re-randomizing the group key for a signing session: signatures produced with it
// verify under Y + alpha * G instead of the group verifying key Y. A randomizer must be used for a single signing
// package.
type Randomizer struct {
	Scalar      *group.Scalar
	Ciphersuite Ciphersuite
}

func checkRandomizable(cs Ciphersuite) error {
	if err := cs.check(); err != nil {
		return err
	}

	if cs.SigningMode() != RandomizedSigning {
		return ErrRandomizationNotSupported
	}

	return nil
}

// RandomizerFromSigningPackage deterministically derives the randomizer of the signing package from the group
// verifying key and the package's encoding. All honest participants obtain the same randomizer.
func RandomizerFromSigningPackage(publicKeys *PublicKeyPackage, signingPackage *SigningPackage) (*Randomizer, error) {
	if err := publicKeys.Validate(); err != nil {
		return nil, err
	}

	if err := checkRandomizable(publicKeys.Ciphersuite); err != nil {
		return nil, err
	}

	if _, err := signingPackage.validate(); err != nil {
		return nil, err
	}

	if signingPackage.Ciphersuite != publicKeys.Ciphersuite {
		return nil, fmt.Errorf("%w: signing package and public key package ciphersuites differ",
			ErrInvalidCiphersuite)
	}

	alpha := publicKeys.Ciphersuite.suite().HR(
		internal.Concatenate(publicKeys.VerifyingKey.Encode(), signingPackage.Encode()),
	)

	return newRandomizer(publicKeys.Ciphersuite, alpha)
}

// NewRandomizer returns a fresh random randomizer bound to the signing package. The coordinator must distribute it to
// the signers along with the signing package.
func NewRandomizer(signingPackage *SigningPackage) (*Randomizer, error) {
	if _, err := signingPackage.validate(); err != nil {
		return nil, err
	}

	cs := signingPackage.Ciphersuite
	if err := checkRandomizable(cs); err != nil {
		return nil, err
	}

	random := cs.Group().NewScalar().Random()
	alpha := cs.suite().HR(internal.Concatenate(random.Encode(), signingPackage.Encode()))

	return newRandomizer(cs, alpha)
}

func newRandomizer(cs Ciphersuite, alpha *group.Scalar) (*Randomizer, error) {
	r := &Randomizer{Scalar: alpha, Ciphersuite: cs}
	if err := r.validate(cs); err != nil {
		return nil, err
	}

	return r, nil
}

// DecodeRandomizer decodes the scalar encoding of a randomizer.
func DecodeRandomizer(cs Ciphersuite, data []byte) (*Randomizer, error) {
	if err := checkRandomizable(cs); err != nil {
		return nil, err
	}

	alpha, err := cs.decodeScalar(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRandomizer, err)
	}

	return newRandomizer(cs, alpha)
}

// RandomizerFromHex decodes the hexadecimal encoding of a randomizer.
func RandomizerFromHex(cs Ciphersuite, s string) (*Randomizer, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRandomizer, err)
	}

	return DecodeRandomizer(cs, data)
}

func (r *Randomizer) validate(cs Ciphersuite) error {
	if r.Ciphersuite != cs {
		return fmt.Errorf("%w: randomizer of ciphersuite %s used with %s", ErrInvalidRandomizer, r.Ciphersuite, cs)
	}

	if r.Scalar == nil || r.Scalar.IsZero() {
		return fmt.Errorf("%w: randomizer is nil or zero", ErrInvalidRandomizer)
	}

	return nil
}

// Encode returns the scalar encoding of the randomizer.
func (r *Randomizer) Encode() []byte {
	return r.Scalar.Encode()
}

// Hex returns the hexadecimal encoding of the randomizer.
func (r *Randomizer) Hex() string {
	return hex.EncodeToString(r.Encode())
}

// MarshalJSON encodes the randomizer as a quoted hexadecimal string.
func (r *Randomizer) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Hex())
}

// RandomizerFromJSON decodes a randomizer from its JSON representation, a quoted hexadecimal string.
func RandomizerFromJSON(cs Ciphersuite, data []byte) (*Randomizer, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRandomizer, err)
	}

	return RandomizerFromHex(cs, s)
}

// RandomizedVerifyingKey returns verifyingKey + alpha * G.
func (r *Randomizer) RandomizedVerifyingKey(verifyingKey *group.Element) *group.Element {
	return r.Ciphersuite.Group().Base().Multiply(r.Scalar).Add(verifyingKey)
}

// RandomizedParams binds a randomizer to the group verifying key it re-randomizes.
type RandomizedParams struct {
	Randomizer             *Randomizer
	RandomizedVerifyingKey *group.Element
}

// NewRandomizedParams derives a randomizer from the signing package, and the randomized group verifying key.
func NewRandomizedParams(publicKeys *PublicKeyPackage, signingPackage *SigningPackage) (*RandomizedParams, error) {
	r, err := RandomizerFromSigningPackage(publicKeys, signingPackage)
	if err != nil {
		return nil, err
	}

	return &RandomizedParams{
		Randomizer:             r,
		RandomizedVerifyingKey: r.RandomizedVerifyingKey(publicKeys.VerifyingKey),
	}, nil
}

// Randomize returns the key package re-randomized with the randomizer: the signing share becomes s_i + alpha, and
// the verifying share and key are shifted by alpha * G. The receiver is not modified.
func (k *KeyPackage) Randomize(r *Randomizer) (*KeyPackage, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}

	if r == nil {
		return nil, fmt.Errorf("%w: nil randomizer", ErrInvalidRandomizer)
	}

	if err := checkRandomizable(k.Ciphersuite); err != nil {
		return nil, err
	}

	if err := r.validate(k.Ciphersuite); err != nil {
		return nil, err
	}

	return &KeyPackage{
		Identifier:     k.Identifier,
		SigningShare:   k.SigningShare.Copy().Add(r.Scalar),
		VerifyingShare: r.RandomizedVerifyingKey(k.VerifyingShare),
		VerifyingKey:   r.RandomizedVerifyingKey(k.VerifyingKey),
		MinSigners:     k.MinSigners,
		Ciphersuite:    k.Ciphersuite,
	}, nil
}

// Randomize returns the public key package re-randomized with the randomizer: every verifying share and the verifying
// key are shifted by alpha * G. The receiver is not modified.
func (p *PublicKeyPackage) Randomize(r *Randomizer) (*PublicKeyPackage, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if r == nil {
		return nil, fmt.Errorf("%w: nil randomizer", ErrInvalidRandomizer)
	}

	if err := checkRandomizable(p.Ciphersuite); err != nil {
		return nil, err
	}

	if err := r.validate(p.Ciphersuite); err != nil {
		return nil, err
	}

	shares := make(map[Identifier]*group.Element, len(p.VerifyingShares))
	for id, share := range p.VerifyingShares {
		shares[id] = r.RandomizedVerifyingKey(share)
	}

	return &PublicKeyPackage{
		VerifyingShares: shares,
		VerifyingKey:    r.RandomizedVerifyingKey(p.VerifyingKey),
		MinSigners:      p.MinSigners,
		Ciphersuite:     p.Ciphersuite,
	}, nil
}
