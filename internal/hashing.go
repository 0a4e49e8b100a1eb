// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"filippo.io/edwards25519"
	group "github.com/bytemare/crypto"
	"github.com/gtank/ristretto255"
)

func ed25519ScalarFromUniform(hashed []byte) *group.Scalar {
	s := edwards25519.NewScalar()
	if _, err := s.SetUniformBytes(hashed); err != nil {
		// Fails only if len(hashed) != 64, but the hash function above always returns 64 bytes.
		panic(err)
	}

	s2 := group.Edwards25519Sha512.NewScalar()
	if err := s2.Decode(s.Bytes()); err != nil {
		// Can't fail because the underlying encoding/decoding is compatible.
		panic(err)
	}

	return s2
}

func ristretto255ScalarFromUniform(hashed []byte) *group.Scalar {
	s := ristretto255.NewScalar().FromUniformBytes(hashed)

	sc := group.Ristretto255Sha512.NewScalar()
	if err := sc.Decode(s.Encode(nil)); err != nil {
		// Can't fail because the underlying encoding/decoding is compatible.
		panic(err)
	}

	return sc
}

func (c *Ciphersuite) hx(input, dst []byte) *group.Scalar {
	switch c.Group {
	case group.Edwards25519Sha512:
		return ed25519ScalarFromUniform(c.hash(c.ContextString, dst, input))
	case group.Ristretto255Sha512:
		return ristretto255ScalarFromUniform(c.hash(c.ContextString, dst, input))
	case group.P256Sha256, group.Secp256k1:
		return c.Group.HashToScalar(input, Concatenate(c.ContextString, dst))
	default:
		// Can't fail because the function is always called with a registered ciphersuite.
		panic(ErrInvalidParameters)
	}
}

// H1 hashes the input and proves the "rho" DST.
func (c *Ciphersuite) H1(input []byte) *group.Scalar {
	return c.hx(input, []byte("rho"))
}

// H2 hashes the input and proves the "chal" DST.
func (c *Ciphersuite) H2(input []byte) *group.Scalar {
	if c.ID == Ed25519ID {
		// For compatibility with RFC8032 H2 doesn't use a domain separator for Edwards25519.
		return ed25519ScalarFromUniform(c.hash(input))
	}

	return c.hx(input, []byte("chal"))
}

// H3 hashes the input and proves the "nonce" DST.
func (c *Ciphersuite) H3(input []byte) *group.Scalar {
	return c.hx(input, []byte("nonce"))
}

// H4 hashes the input and proves the "msg" DST.
func (c *Ciphersuite) H4(msg []byte) []byte {
	return c.hash(c.ContextString, []byte("msg"), msg)
}

// H5 hashes the input and proves the "com" DST.
func (c *Ciphersuite) H5(msg []byte) []byte {
	return c.hash(c.ContextString, []byte("com"), msg)
}

// HDKG hashes the input and proves the "dkg" DST, for the proofs of knowledge of the DKG.
func (c *Ciphersuite) HDKG(input []byte) *group.Scalar {
	return c.hx(input, []byte("dkg"))
}

// HID hashes the input and proves the "id" DST, to derive identifiers from arbitrary byte strings.
func (c *Ciphersuite) HID(input []byte) *group.Scalar {
	return c.hx(input, []byte("id"))
}

// HR hashes the input and proves the "randomizer" DST.
func (c *Ciphersuite) HR(input []byte) *group.Scalar {
	return c.hx(input, []byte("randomizer"))
}
