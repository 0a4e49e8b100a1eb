// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package frost implements FROST, the Flexible Round-Optimized Schnorr Threshold (FROST) signing protocol, with a
// trusted dealer or a distributed key generation, and re-randomized signing for the ciphersuites that support it.
//
// A signing session involves a coordinator and at least min_signers participants holding a KeyPackage:
//   - each participant calls Commit, keeps the SigningNonces secret, and sends the SigningCommitments to the
//     coordinator;
//   - the coordinator builds a SigningPackage with NewSigningPackage and sends it to the participants;
//   - each participant calls Sign and sends the SignatureShare to the coordinator;
//   - the coordinator calls Aggregate, which returns a Schnorr signature valid under the group verifying key.
package frost

import (
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost/internal"
)

// Ciphersuite identifies the group and hash to use for FROST.
type Ciphersuite byte

const (
	// Ed25519 uses Edwards25519 and SHA-512, producing Ed25519-compliant signatures as specified in RFC8032.
	Ed25519 = Ciphersuite(internal.Ed25519ID)

	// Ristretto255 uses Ristretto255 and SHA-512.
	Ristretto255 = Ciphersuite(internal.Ristretto255ID)

	// P256 uses P-256 and SHA-256.
	P256 = Ciphersuite(internal.P256ID)

	// Secp256k1 uses Secp256k1 and SHA-256.
	Secp256k1 = Ciphersuite(internal.Secp256k1ID)

	// Ristretto255Blake2b uses Ristretto255 and BLAKE2b-512, and signs under re-randomized keys.
	Ristretto255Blake2b = Ciphersuite(internal.Ristretto255Blake2bID)
)

// SigningMode tells whether a ciphersuite signs under the group key or under re-randomized keys.
type SigningMode byte

const (
	// StandardSigning produces signatures under the group verifying key. Randomizers are refused.
	StandardSigning SigningMode = iota + 1

	// RandomizedSigning produces signatures under a randomized group verifying key. A randomizer is mandatory.
	RandomizedSigning
)

func (m SigningMode) String() string {
	switch m {
	case StandardSigning:
		return "standard"
	case RandomizedSigning:
		return "randomized"
	default:
		return "unknown"
	}
}

// Ciphersuites returns the list of available ciphersuites.
func Ciphersuites() []Ciphersuite {
	return []Ciphersuite{Ed25519, Ristretto255, P256, Secp256k1, Ristretto255Blake2b}
}

// CiphersuiteFromString returns the ciphersuite identified by its context string, e.g. "FROST-ED25519-SHA512-v1".
func CiphersuiteFromString(name string) (Ciphersuite, error) {
	cs := internal.CiphersuiteByName(name)
	if cs == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCiphersuite, name)
	}

	return Ciphersuite(cs.ID), nil
}

// Available returns whether the selected ciphersuite is available.
func (c Ciphersuite) Available() bool {
	return internal.GetCiphersuite(byte(c)) != nil
}

// String returns the context string of the ciphersuite.
func (c Ciphersuite) String() string {
	if cs := c.suite(); cs != nil {
		return cs.Name()
	}

	return fmt.Sprintf("unknown ciphersuite %d", byte(c))
}

// Group returns the prime-order group of the ciphersuite.
func (c Ciphersuite) Group() group.Group {
	return c.suite().Group
}

// SigningMode returns the signing mode of the ciphersuite.
func (c Ciphersuite) SigningMode() SigningMode {
	if c.suite().Randomizable {
		return RandomizedSigning
	}

	return StandardSigning
}

// SupportsIdentifierDerivation returns whether identifiers can be derived from arbitrary byte strings.
func (c Ciphersuite) SupportsIdentifierDerivation() bool {
	return c.suite().IdentifierDerivation
}

// ScalarLength returns the byte length of an encoded scalar, such as an identifier or a signing share.
func (c Ciphersuite) ScalarLength() int {
	return c.suite().ScalarLength()
}

// ElementLength returns the byte length of an encoded element, such as a verifying key.
func (c Ciphersuite) ElementLength() int {
	return c.suite().ElementLength()
}

// SignatureLength returns the byte length of an encoded signature.
func (c Ciphersuite) SignatureLength() int {
	return c.ScalarLength() + c.ElementLength()
}

func (c Ciphersuite) suite() *internal.Ciphersuite {
	return internal.GetCiphersuite(byte(c))
}

func (c Ciphersuite) check() error {
	if !c.Available() {
		return fmt.Errorf("%w: %d", ErrInvalidCiphersuite, byte(c))
	}

	return nil
}

func (c Ciphersuite) decodeScalar(data []byte) (*group.Scalar, error) {
	return c.suite().DecodeScalar(data)
}

func (c Ciphersuite) decodeElement(data []byte) (*group.Element, error) {
	return c.suite().DecodeElement(data)
}

func (c Ciphersuite) checkRandomizer(r *Randomizer) error {
	switch c.SigningMode() {
	case RandomizedSigning:
		if r == nil {
			return fmt.Errorf("%w: a randomizer is required", ErrInvalidRandomizer)
		}

		if err := r.validate(c); err != nil {
			return err
		}
	default:
		if r != nil {
			return ErrRandomizationNotSupported
		}
	}

	return nil
}
