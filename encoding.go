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

	"github.com/zecdev/frost/internal"
)

// The compact encodings all start with the ciphersuite byte, followed by the fields in their declaration order.
// Counts are little endian uint16, and message lengths little endian uint32. Maps are encoded in ascending identifier
// order, so encodings are deterministic.

func newDecoder(data []byte) (*internal.Decoder, Ciphersuite, error) {
	d, err := internal.NewDecoder(data)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDeserialization, err)
	}

	return d, Ciphersuite(d.Ciphersuite().ID), nil
}

// readIdentifier reads an identifier from the decoder.
func readIdentifier(d *internal.Decoder) Identifier {
	cs := Ciphersuite(d.Ciphersuite().ID)

	b := d.Bytes(cs.ScalarLength())
	if b == nil {
		return Identifier{}
	}

	id, err := cs.DecodeIdentifier(b)
	if err != nil {
		d.Fail(err)
	}

	return id
}

func decodingError(err error) error {
	return fmt.Errorf("%w: %w", ErrDeserialization, err)
}

// Encode serializes the commitment into a compact byte slice.
func (c *SigningCommitments) Encode() []byte {
	return internal.NewEncoder(byte(c.Ciphersuite), c.Ciphersuite.ScalarLength()+2*c.Ciphersuite.ElementLength()).
		Bytes(c.Identifier.Encode()).
		Element(c.Hiding).
		Element(c.Binding).
		Encoded()
}

// Decode attempts to deserialize the encoded commitment given as input, and to return it.
func (c *SigningCommitments) Decode(data []byte) error {
	d, cs, err := newDecoder(data)
	if err != nil {
		return err
	}

	com := readCommitment(d, cs)
	if err = d.Done(); err != nil {
		return decodingError(err)
	}

	*c = *com

	return nil
}

func readCommitment(d *internal.Decoder, cs Ciphersuite) *SigningCommitments {
	return &SigningCommitments{
		Identifier:  readIdentifier(d),
		Hiding:      d.Element("hiding nonce commitment"),
		Binding:     d.Element("binding nonce commitment"),
		Ciphersuite: cs,
	}
}

// Encode serializes the signing package into a compact byte slice. This encoding is the one bound by the randomizer.
func (s *SigningPackage) Encode() []byte {
	comLen := s.Ciphersuite.ScalarLength() + 2*s.Ciphersuite.ElementLength()
	e := internal.NewEncoder(byte(s.Ciphersuite), 2+len(s.Commitments)*comLen+4+len(s.Message)).
		UInt16(uint16(len(s.Commitments)))

	for _, com := range s.Commitments {
		e.Bytes(com.Identifier.Encode()).Element(com.Hiding).Element(com.Binding)
	}

	return e.UInt32(uint32(len(s.Message))).Bytes(s.Message).Encoded()
}

// Decode attempts to deserialize the encoded signing package.
func (s *SigningPackage) Decode(data []byte) error {
	d, cs, err := newDecoder(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSigningPackageDeserialization, err)
	}

	n := int(d.UInt16())
	coms := make([]*SigningCommitments, 0, n)

	for range n {
		if d.Err() != nil {
			break
		}

		coms = append(coms, readCommitment(d, cs))
	}

	msg := d.Bytes(int(d.UInt32()))

	if err = d.Done(); err != nil {
		return fmt.Errorf("%w: %w", ErrSigningPackageDeserialization, err)
	}

	sp := &SigningPackage{
		Ciphersuite: cs,
		Message:     append([]byte{}, msg...),
		Commitments: coms,
	}

	if _, err = sp.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrSigningPackageDeserialization, err)
	}

	sortCommitments(sp.Commitments)
	*s = *sp

	return nil
}

// Encode serializes the secret share into a compact byte slice.
func (s *SecretShare) Encode() []byte {
	cs := s.Ciphersuite

	return internal.NewEncoder(byte(cs), 2*cs.ScalarLength()+2+len(s.Commitment)*cs.ElementLength()).
		Bytes(s.Identifier.Encode()).
		Scalar(s.SigningShare).
		UInt16(uint16(len(s.Commitment))).
		Elements(s.Commitment).
		Encoded()
}

// Decode attempts to deserialize the encoded secret share. The share is not verified against its commitment, use
// VerifyAndPackage for that.
func (s *SecretShare) Decode(data []byte) error {
	d, cs, err := newDecoder(data)
	if err != nil {
		return err
	}

	share := &SecretShare{
		Ciphersuite:  cs,
		Identifier:   readIdentifier(d),
		SigningShare: d.Scalar("signing share"),
	}
	share.Commitment = d.Elements("commitment", int(d.UInt16()))

	if err = d.Done(); err != nil {
		return decodingError(err)
	}

	*s = *share

	return nil
}

// Encode serializes the key package into a compact byte slice.
func (k *KeyPackage) Encode() []byte {
	cs := k.Ciphersuite

	return internal.NewEncoder(byte(cs), 2*cs.ScalarLength()+2*cs.ElementLength()+2).
		Bytes(k.Identifier.Encode()).
		Scalar(k.SigningShare).
		Element(k.VerifyingShare).
		Element(k.VerifyingKey).
		UInt16(k.MinSigners).
		Encoded()
}

// Decode attempts to deserialize the encoded key package, and validates it.
func (k *KeyPackage) Decode(data []byte) error {
	d, cs, err := newDecoder(data)
	if err != nil {
		return err
	}

	kp := &KeyPackage{
		Ciphersuite:    cs,
		Identifier:     readIdentifier(d),
		SigningShare:   d.Scalar("signing share"),
		VerifyingShare: d.Element("verifying share"),
		VerifyingKey:   d.Element("verifying key"),
		MinSigners:     d.UInt16(),
	}

	if err = d.Done(); err != nil {
		return decodingError(err)
	}

	if err = kp.Validate(); err != nil {
		return err
	}

	*k = *kp

	return nil
}

// Encode serializes the public key package into a compact byte slice. It returns nil if the package is not valid.
func (p *PublicKeyPackage) Encode() []byte {
	if p.Validate() != nil {
		return nil
	}

	cs := p.Ciphersuite
	ids := p.Identifiers()
	e := internal.NewEncoder(byte(cs), cs.ElementLength()+4+len(ids)*(cs.ScalarLength()+cs.ElementLength())).
		Element(p.VerifyingKey).
		UInt16(p.MinSigners).
		UInt16(uint16(len(ids)))

	for _, id := range ids {
		e.Bytes(id.Encode()).Element(p.VerifyingShares[id])
	}

	return e.Encoded()
}

// Decode attempts to deserialize the encoded public key package, and validates it.
func (p *PublicKeyPackage) Decode(data []byte) error {
	d, cs, err := newDecoder(data)
	if err != nil {
		return err
	}

	pkp := &PublicKeyPackage{
		Ciphersuite:  cs,
		VerifyingKey: d.Element("verifying key"),
		MinSigners:   d.UInt16(),
	}

	n := int(d.UInt16())
	pkp.VerifyingShares = make(map[Identifier]*group.Element, n)

	for range n {
		id := readIdentifier(d)
		share := d.Element("verifying share")

		if d.Err() != nil {
			break
		}

		if _, ok := pkp.VerifyingShares[id]; ok {
			d.Fail(culprit(ErrDuplicatedIdentifier, id))
			break
		}

		pkp.VerifyingShares[id] = share
	}

	if err = d.Done(); err != nil {
		return decodingError(err)
	}

	if err = pkp.Validate(); err != nil {
		return err
	}

	*p = *pkp

	return nil
}

// Encode serializes the signature share into a compact byte slice.
func (s *SignatureShare) Encode() []byte {
	return internal.NewEncoder(byte(s.Ciphersuite), 2*s.Ciphersuite.ScalarLength()).
		Bytes(s.Identifier.Encode()).
		Scalar(s.Share).
		Encoded()
}

// Decode attempts to deserialize the encoded signature share.
func (s *SignatureShare) Decode(data []byte) error {
	d, cs, err := newDecoder(data)
	if err != nil {
		return err
	}

	share := &SignatureShare{
		Ciphersuite: cs,
		Identifier:  readIdentifier(d),
		Share:       d.Scalar("signature share"),
	}

	if err = d.Done(); err != nil {
		return decodingError(err)
	}

	*s = *share

	return nil
}
