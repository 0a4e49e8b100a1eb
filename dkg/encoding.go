// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package dkg

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost"
	"github.com/zecdev/frost/internal"
	"github.com/zecdev/frost/internal/shamir"
)

func newDecoder(data []byte) (*internal.Decoder, frost.Ciphersuite, error) {
	d, err := internal.NewDecoder(data)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", frost.ErrDeserialization, err)
	}

	return d, frost.Ciphersuite(d.Ciphersuite().ID), nil
}

func readIdentifier(d *internal.Decoder, cs frost.Ciphersuite) frost.Identifier {
	b := d.Bytes(cs.ScalarLength())
	if b == nil {
		return frost.Identifier{}
	}

	id, err := cs.DecodeIdentifier(b)
	if err != nil {
		d.Fail(err)
	}

	return id
}

func decodingError(err error) error {
	return fmt.Errorf("%w: %w", frost.ErrDeserialization, err)
}

// Encode serializes the package into a compact byte slice.
func (p *Round1Package) Encode() []byte {
	cs := p.Ciphersuite

	return internal.NewEncoder(byte(cs), 2+len(p.Commitment)*cs.ElementLength()+cs.SignatureLength()).
		UInt16(uint16(len(p.Commitment))).
		Elements(p.Commitment).
		Bytes(p.ProofOfKnowledge.Encode()).
		Encoded()
}

// Decode attempts to deserialize the encoded package.
func (p *Round1Package) Decode(data []byte) error {
	d, cs, err := newDecoder(data)
	if err != nil {
		return err
	}

	commitment := d.Elements("commitment", int(d.UInt16()))
	r := d.Element("proof of knowledge commitment")
	z := d.Scalar("proof of knowledge response")

	if err = d.Done(); err != nil {
		return decodingError(err)
	}

	*p = Round1Package{
		Commitment:       commitment,
		ProofOfKnowledge: &frost.Signature{R: r, Z: z, Ciphersuite: cs},
		Ciphersuite:      cs,
	}

	return nil
}

// Encode serializes the package into a compact byte slice.
func (p *Round2Package) Encode() []byte {
	return internal.NewEncoder(byte(p.Ciphersuite), p.Ciphersuite.ScalarLength()).
		Scalar(p.SigningShare).
		Encoded()
}

// Decode attempts to deserialize the encoded package.
func (p *Round2Package) Decode(data []byte) error {
	d, cs, err := newDecoder(data)
	if err != nil {
		return err
	}

	share := d.Scalar("signing share")
	if err = d.Done(); err != nil {
		return decodingError(err)
	}

	*p = Round2Package{SigningShare: share, Ciphersuite: cs}

	return nil
}

// Encode serializes the secret package into a compact byte slice. The result must be kept private.
func (s *Round1SecretPackage) Encode() ([]byte, error) {
	if s.consumed {
		return nil, frost.ErrPackageConsumed
	}

	cs := s.Ciphersuite
	e := internal.NewEncoder(byte(cs), cs.ScalarLength()+6+len(s.coefficients)*(cs.ScalarLength()+cs.ElementLength())).
		Bytes(s.Identifier.Encode()).
		UInt16(s.MinSigners).
		UInt16(s.MaxSigners).
		UInt16(uint16(len(s.coefficients)))

	for _, c := range s.coefficients {
		e.Scalar(c)
	}

	return e.Elements(s.Commitment).Encoded(), nil
}

// Decode attempts to deserialize the encoded secret package.
func (s *Round1SecretPackage) Decode(data []byte) error {
	d, cs, err := newDecoder(data)
	if err != nil {
		return err
	}

	id := readIdentifier(d, cs)
	minSigners := d.UInt16()
	maxSigners := d.UInt16()
	n := int(d.UInt16())
	coefficients := make(shamir.Polynomial, 0, n)

	for range n {
		c := d.Scalar("coefficient")
		if c == nil {
			break
		}

		coefficients = append(coefficients, c)
	}

	commitment := d.Elements("commitment", n)

	if err = d.Done(); err != nil {
		return decodingError(err)
	}

	secret := &Round1SecretPackage{
		Identifier:   id,
		coefficients: coefficients,
		Commitment:   commitment,
		MinSigners:   minSigners,
		MaxSigners:   maxSigners,
		Ciphersuite:  cs,
	}

	if err = secret.validate(); err != nil {
		return err
	}

	*s = *secret

	return nil
}

func (s *Round1SecretPackage) validate() error {
	conf := &frost.Configuration{MinSigners: s.MinSigners, MaxSigners: s.MaxSigners}
	if err := conf.Validate(s.Ciphersuite); err != nil {
		return err
	}

	if len(s.coefficients) != int(s.MinSigners) || len(s.Commitment) != int(s.MinSigners) {
		return frost.ErrInvalidCoefficients
	}

	g := s.Ciphersuite.Group()
	for i, c := range s.coefficients {
		if g.Base().Multiply(c).Equal(s.Commitment[i]) != 1 {
			return fmt.Errorf("%w: commitment does not match coefficient %d", frost.ErrInvalidCoefficients, i)
		}
	}

	return nil
}

// Encode serializes the secret package into a compact byte slice. The result must be kept private.
func (s *Round2SecretPackage) Encode() ([]byte, error) {
	if s.consumed {
		return nil, frost.ErrPackageConsumed
	}

	cs := s.Ciphersuite

	return internal.NewEncoder(byte(cs), 2*cs.ScalarLength()+6+len(s.Commitment)*cs.ElementLength()).
		Bytes(s.Identifier.Encode()).
		Scalar(s.secretShare).
		UInt16(s.MinSigners).
		UInt16(s.MaxSigners).
		UInt16(uint16(len(s.Commitment))).
		Elements(s.Commitment).
		Encoded(), nil
}

// Decode attempts to deserialize the encoded secret package.
func (s *Round2SecretPackage) Decode(data []byte) error {
	d, cs, err := newDecoder(data)
	if err != nil {
		return err
	}

	secret := &Round2SecretPackage{
		Identifier:  readIdentifier(d, cs),
		secretShare: d.Scalar("secret share"),
		MinSigners:  d.UInt16(),
		MaxSigners:  d.UInt16(),
		Ciphersuite: cs,
	}
	secret.Commitment = d.Elements("commitment", int(d.UInt16()))

	if err = d.Done(); err != nil {
		return decodingError(err)
	}

	if err = secret.validate(); err != nil {
		return err
	}

	*s = *secret

	return nil
}

func (s *Round2SecretPackage) validate() error {
	conf := &frost.Configuration{MinSigners: s.MinSigners, MaxSigners: s.MaxSigners}
	if err := conf.Validate(s.Ciphersuite); err != nil {
		return err
	}

	if len(s.Commitment) != int(s.MinSigners) {
		return frost.ErrInvalidCoefficients
	}

	share := &frost.SecretShare{
		Identifier:   s.Identifier,
		SigningShare: s.secretShare,
		Commitment:   s.Commitment,
		Ciphersuite:  s.Ciphersuite,
	}

	_, _, err := share.Verify()

	return err
}

func hexScalar(cs frost.Ciphersuite, s, name string) (*group.Scalar, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", frost.ErrDeserialization, name, err)
	}

	sc, err := internal.GetCiphersuite(byte(cs)).DecodeScalar(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", frost.ErrDeserialization, name, err)
	}

	return sc, nil
}

type jsonRound1Package struct {
	Header           frost.Header `json:"header"`
	Commitment       []string     `json:"commitment"`
	ProofOfKnowledge string       `json:"proof_of_knowledge"`
}

// MarshalJSON encodes the package in JSON.
func (p *Round1Package) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonRound1Package{
		Header:           frost.NewHeader(p.Ciphersuite),
		Commitment:       frost.EncodeCommitmentHex(p.Commitment),
		ProofOfKnowledge: hex.EncodeToString(p.ProofOfKnowledge.Encode()),
	})
}

// UnmarshalJSON decodes data into p, or returns an error.
func (p *Round1Package) UnmarshalJSON(data []byte) error {
	j := new(jsonRound1Package)
	if err := json.Unmarshal(data, j); err != nil {
		return decodingError(err)
	}

	cs, err := j.Header.Suite()
	if err != nil {
		return err
	}

	commitment, err := frost.DecodeCommitmentHex(cs, j.Commitment)
	if err != nil {
		return err
	}

	proof, err := hex.DecodeString(j.ProofOfKnowledge)
	if err != nil {
		return decodingError(err)
	}

	sig, err := cs.DecodeSignature(proof)
	if err != nil {
		return decodingError(err)
	}

	*p = Round1Package{Commitment: commitment, ProofOfKnowledge: sig, Ciphersuite: cs}

	return nil
}

type jsonRound2Package struct {
	Header       frost.Header `json:"header"`
	SigningShare string       `json:"signing_share"`
}

// MarshalJSON encodes the package in JSON.
func (p *Round2Package) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonRound2Package{
		Header:       frost.NewHeader(p.Ciphersuite),
		SigningShare: hex.EncodeToString(p.SigningShare.Encode()),
	})
}

// UnmarshalJSON decodes data into p, or returns an error.
func (p *Round2Package) UnmarshalJSON(data []byte) error {
	j := new(jsonRound2Package)
	if err := json.Unmarshal(data, j); err != nil {
		return decodingError(err)
	}

	cs, err := j.Header.Suite()
	if err != nil {
		return err
	}

	share, err := hexScalar(cs, j.SigningShare, "signing_share")
	if err != nil {
		return err
	}

	*p = Round2Package{SigningShare: share, Ciphersuite: cs}

	return nil
}

type jsonRound1Secret struct {
	Header       frost.Header `json:"header"`
	Identifier   string       `json:"identifier"`
	Coefficients []string     `json:"coefficients"`
	Commitment   []string     `json:"commitment"`
	MinSigners   uint16       `json:"min_signers"`
	MaxSigners   uint16       `json:"max_signers"`
}

// MarshalJSON encodes the secret package in JSON. The result must be kept private.
func (s *Round1SecretPackage) MarshalJSON() ([]byte, error) {
	if s.consumed {
		return nil, frost.ErrPackageConsumed
	}

	coefficients := make([]string, len(s.coefficients))
	for i, c := range s.coefficients {
		coefficients[i] = hex.EncodeToString(c.Encode())
	}

	return json.Marshal(&jsonRound1Secret{
		Header:       frost.NewHeader(s.Ciphersuite),
		Identifier:   s.Identifier.String(),
		Coefficients: coefficients,
		Commitment:   frost.EncodeCommitmentHex(s.Commitment),
		MinSigners:   s.MinSigners,
		MaxSigners:   s.MaxSigners,
	})
}

// UnmarshalJSON decodes data into s, or returns an error.
func (s *Round1SecretPackage) UnmarshalJSON(data []byte) error {
	j := new(jsonRound1Secret)
	if err := json.Unmarshal(data, j); err != nil {
		return decodingError(err)
	}

	cs, err := j.Header.Suite()
	if err != nil {
		return err
	}

	secret := &Round1SecretPackage{
		MinSigners:   j.MinSigners,
		MaxSigners:   j.MaxSigners,
		Ciphersuite:  cs,
		coefficients: make(shamir.Polynomial, len(j.Coefficients)),
	}

	if secret.Identifier, err = cs.IdentifierFromHex(j.Identifier); err != nil {
		return err
	}

	for i, c := range j.Coefficients {
		if secret.coefficients[i], err = hexScalar(cs, c, "coefficients"); err != nil {
			return err
		}
	}

	if secret.Commitment, err = frost.DecodeCommitmentHex(cs, j.Commitment); err != nil {
		return err
	}

	if err = secret.validate(); err != nil {
		return err
	}

	*s = *secret

	return nil
}

type jsonRound2Secret struct {
	Header      frost.Header `json:"header"`
	Identifier  string       `json:"identifier"`
	SecretShare string       `json:"secret_share"`
	Commitment  []string     `json:"commitment"`
	MinSigners  uint16       `json:"min_signers"`
	MaxSigners  uint16       `json:"max_signers"`
}

// MarshalJSON encodes the secret package in JSON. The result must be kept private.
func (s *Round2SecretPackage) MarshalJSON() ([]byte, error) {
	if s.consumed {
		return nil, frost.ErrPackageConsumed
	}

	return json.Marshal(&jsonRound2Secret{
		Header:      frost.NewHeader(s.Ciphersuite),
		Identifier:  s.Identifier.String(),
		SecretShare: hex.EncodeToString(s.secretShare.Encode()),
		Commitment:  frost.EncodeCommitmentHex(s.Commitment),
		MinSigners:  s.MinSigners,
		MaxSigners:  s.MaxSigners,
	})
}

// UnmarshalJSON decodes data into s, or returns an error.
func (s *Round2SecretPackage) UnmarshalJSON(data []byte) error {
	j := new(jsonRound2Secret)
	if err := json.Unmarshal(data, j); err != nil {
		return decodingError(err)
	}

	cs, err := j.Header.Suite()
	if err != nil {
		return err
	}

	secret := &Round2SecretPackage{
		MinSigners:  j.MinSigners,
		MaxSigners:  j.MaxSigners,
		Ciphersuite: cs,
	}

	if secret.Identifier, err = cs.IdentifierFromHex(j.Identifier); err != nil {
		return err
	}

	if secret.secretShare, err = hexScalar(cs, j.SecretShare, "secret_share"); err != nil {
		return err
	}

	if secret.Commitment, err = frost.DecodeCommitmentHex(cs, j.Commitment); err != nil {
		return err
	}

	if err = secret.validate(); err != nil {
		return err
	}

	*s = *secret

	return nil
}
