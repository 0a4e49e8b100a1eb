// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package schnorr implements Schnorr signatures and proofs of knowledge over a FROST ciphersuite.
package schnorr

import (
	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost/internal"
)

// Signature is a Schnorr signature, or a proof of knowledge with the same shape.
type Signature struct {
	R *group.Element
	Z *group.Scalar
}

// Encode serializes the signature as R || Z.
func (s *Signature) Encode() []byte {
	return internal.Concatenate(s.R.Encode(), s.Z.Encode())
}

// Decode deserializes R || Z.
func (s *Signature) Decode(cs *internal.Ciphersuite, data []byte) error {
	eLen := cs.ElementLength()
	if len(data) != eLen+cs.ScalarLength() {
		return internal.ErrInvalidLength
	}

	r := cs.Group.NewElement()
	if err := r.Decode(data[:eLen]); err != nil {
		return err
	}

	z, err := cs.DecodeScalar(data[eLen:])
	if err != nil {
		return err
	}

	s.R, s.Z = r, z

	return nil
}

// Sign returns a Schnorr signature over the message msg with the full secret signing key (as opposed to a key share).
func Sign(cs *internal.Ciphersuite, msg []byte, key *group.Scalar) *Signature {
	r := cs.Group.NewScalar().Random()
	R := cs.Group.Base().Multiply(r)
	pk := cs.Group.Base().Multiply(key)
	c := cs.SchnorrChallenge(msg, R, pk)
	z := r.Add(c.Multiply(key))

	return &Signature{
		R: R,
		Z: z,
	}
}

// Verify returns whether the signature of the message msg is valid under the public key pk. Verification is
// cofactored for Edwards25519.
func Verify(cs *internal.Ciphersuite, msg []byte, signature *Signature, pk *group.Element) bool {
	c := cs.SchnorrChallenge(msg, signature.R, pk)
	l := cs.Group.Base().Multiply(signature.Z)
	r := signature.R.Copy().Add(pk.Copy().Multiply(c))

	if cs.Group == group.Edwards25519Sha512 {
		cofactor := group.Edwards25519Sha512.NewScalar().SetUInt64(8)
		return l.Multiply(cofactor).Equal(r.Multiply(cofactor)) == 1
	}

	return l.Equal(r) == 1
}

func proofChallenge(cs *internal.Ciphersuite, id *group.Scalar, pk, r *group.Element) *group.Scalar {
	return cs.HDKG(internal.Concatenate(id.Encode(), pk.Encode(), r.Encode()))
}

// ProveKnowledge returns a proof of knowledge of secret, bound to the identifier id, where pk = secret * G.
func ProveKnowledge(cs *internal.Ciphersuite, id, secret *group.Scalar, pk *group.Element) *Signature {
	k := cs.Group.NewScalar().Random()
	r := cs.Group.Base().Multiply(k)
	c := proofChallenge(cs, id, pk, r)
	mu := k.Add(secret.Copy().Multiply(c))

	return &Signature{
		R: r,
		Z: mu,
	}
}

// VerifyKnowledge returns whether proof is a valid proof of knowledge of the discrete logarithm of pk, bound to id.
func VerifyKnowledge(cs *internal.Ciphersuite, id *group.Scalar, pk *group.Element, proof *Signature) bool {
	if proof == nil || proof.R == nil || proof.Z == nil || pk == nil {
		return false
	}

	c := proofChallenge(cs, id, pk, proof.R)
	rc := cs.Group.Base().
		Multiply(proof.Z).
		Subtract(pk.Copy().Multiply(c))

	return proof.R.Equal(rc) == 1
}
