// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	group "github.com/bytemare/crypto"
	"github.com/bytemare/hash"
	"golang.org/x/crypto/blake2b"
)

// Ciphersuite identifiers. The standard suites reuse the group identifier of the underlying group.
const (
	Ristretto255ID        = byte(group.Ristretto255Sha512)
	P256ID                = byte(group.P256Sha256)
	Ed25519ID             = byte(group.Edwards25519Sha512)
	Secp256k1ID           = byte(group.Secp256k1)
	Ristretto255Blake2bID = Secp256k1ID + 1

	ed25519ContextString             = "FROST-ED25519-SHA512-v1"
	ristretto255ContextString        = "FROST-RISTRETTO255-SHA512-v1"
	p256ContextString                = "FROST-P256-SHA256-v1"
	secp256k1ContextString           = "FROST-secp256k1-SHA256-v1"
	ristretto255Blake2bContextString = "FROST-RISTRETTO255-BLAKE2B512-rr-v1"
)

// Ciphersuite combines the group, the hashing routines, and the capabilities of a FROST instantiation.
type Ciphersuite struct {
	hash          func(input ...[]byte) []byte
	ContextString []byte
	Group         group.Group
	ID            byte

	// Randomizable indicates the ciphersuite signs under re-randomized keys.
	Randomizable bool

	// IdentifierDerivation indicates whether identifiers can be derived from arbitrary byte strings.
	IdentifierDerivation bool
}

func sha512Hash(input ...[]byte) []byte {
	return hash.SHA512.New().Hash(0, input...)
}

func sha256Hash(input ...[]byte) []byte {
	return hash.SHA256.New().Hash(0, input...)
}

func blake2b512Hash(input ...[]byte) []byte {
	h, err := blake2b.New512(nil)
	if err != nil {
		// Only fails with a key longer than 64 bytes.
		panic(err)
	}

	for _, in := range input {
		_, _ = h.Write(in)
	}

	return h.Sum(nil)
}

var ciphersuites = map[byte]*Ciphersuite{
	Ristretto255ID: {
		ID:                   Ristretto255ID,
		Group:                group.Ristretto255Sha512,
		ContextString:        []byte(ristretto255ContextString),
		hash:                 sha512Hash,
		IdentifierDerivation: true,
	},
	P256ID: {
		ID:                   P256ID,
		Group:                group.P256Sha256,
		ContextString:        []byte(p256ContextString),
		hash:                 sha256Hash,
		IdentifierDerivation: true,
	},
	Ed25519ID: {
		ID:                   Ed25519ID,
		Group:                group.Edwards25519Sha512,
		ContextString:        []byte(ed25519ContextString),
		hash:                 sha512Hash,
		IdentifierDerivation: true,
	},
	Secp256k1ID: {
		ID:                   Secp256k1ID,
		Group:                group.Secp256k1,
		ContextString:        []byte(secp256k1ContextString),
		hash:                 sha256Hash,
		IdentifierDerivation: true,
	},
	Ristretto255Blake2bID: {
		ID:                   Ristretto255Blake2bID,
		Group:                group.Ristretto255Sha512,
		ContextString:        []byte(ristretto255Blake2bContextString),
		hash:                 blake2b512Hash,
		Randomizable:         true,
		IdentifierDerivation: true,
	},
}

// GetCiphersuite returns the ciphersuite registered with id, or nil if there is none.
func GetCiphersuite(id byte) *Ciphersuite {
	return ciphersuites[id]
}

// CiphersuiteByName returns the ciphersuite whose context string is name, or nil if there is none.
func CiphersuiteByName(name string) *Ciphersuite {
	for _, c := range ciphersuites {
		if string(c.ContextString) == name {
			return c
		}
	}

	return nil
}

// Name returns the context string of the ciphersuite, used as its public identifier.
func (c *Ciphersuite) Name() string {
	return string(c.ContextString)
}

// ScalarLength returns the byte length of an encoded scalar.
func (c *Ciphersuite) ScalarLength() int {
	return c.Group.ScalarLength()
}

// ElementLength returns the byte length of an encoded element.
func (c *Ciphersuite) ElementLength() int {
	return c.Group.ElementLength()
}

// DecodeScalar decodes a scalar, rejecting any input not of the exact scalar length.
func (c *Ciphersuite) DecodeScalar(data []byte) (*group.Scalar, error) {
	if len(data) != c.ScalarLength() {
		return nil, ErrInvalidLength
	}

	s := c.Group.NewScalar()
	if err := s.Decode(data); err != nil {
		return nil, err
	}

	return s, nil
}

// DecodeElement decodes a group element, rejecting the identity element.
func (c *Ciphersuite) DecodeElement(data []byte) (*group.Element, error) {
	if len(data) != c.ElementLength() {
		return nil, ErrInvalidLength
	}

	e := c.Group.NewElement()
	if err := e.Decode(data); err != nil {
		return nil, err
	}

	if e.IsIdentity() {
		return nil, ErrIdentityElement
	}

	return e, nil
}
