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

	"github.com/zecdev/frost/internal/vss"
)

// VerifiableCommitment is the commitment to the coefficients of a secret polynomial, constant term first. Its first
// element is the verifying key of the polynomial's secret.
type VerifiableCommitment []*group.Element

// VerifyingKey returns the commitment to the constant term.
func (v VerifiableCommitment) VerifyingKey() *group.Element {
	return v[0].Copy()
}

// VerifyingShare returns the public point of the committed polynomial at the identifier.
func (v VerifiableCommitment) VerifyingShare(id Identifier) *group.Element {
	return vss.DerivePublicPoint(id.Ciphersuite().Group(), vss.Commitment(v), id.Scalar())
}

func (v VerifiableCommitment) validate() error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty commitment", ErrInvalidCoefficients)
	}

	for _, e := range v {
		if e == nil || e.IsIdentity() {
			return fmt.Errorf("%w: nil or identity commitment element", ErrInvalidCoefficients)
		}
	}

	return nil
}

func (v VerifiableCommitment) copy() VerifiableCommitment {
	c := make(VerifiableCommitment, len(v))
	for i, e := range v {
		c[i] = e.Copy()
	}

	return c
}

// SecretShare is a participant's share of the group secret as output by the trusted dealer or by the DKG, together
// with the commitment to the polynomial that produced it.
type SecretShare struct {
	Identifier   Identifier
	SigningShare *group.Scalar
	Commitment   VerifiableCommitment
	Ciphersuite  Ciphersuite
}

// Verify checks the signing share against the commitment, and returns the participant's verifying share and the
// group verifying key.
func (s *SecretShare) Verify() (verifyingShare, verifyingKey *group.Element, err error) {
	if err = s.Ciphersuite.check(); err != nil {
		return nil, nil, err
	}

	if err = s.Identifier.validate(s.Ciphersuite); err != nil {
		return nil, nil, err
	}

	if s.SigningShare == nil || s.SigningShare.IsZero() {
		return nil, nil, fmt.Errorf("%w: missing signing share", ErrInvalidSecretShare)
	}

	if err = s.Commitment.validate(); err != nil {
		return nil, nil, err
	}

	g := s.Ciphersuite.Group()
	if !vss.Verify(g, s.Identifier.Scalar(), s.SigningShare, vss.Commitment(s.Commitment)) {
		return nil, nil, culprit(ErrInvalidSecretShare, s.Identifier)
	}

	return g.Base().Multiply(s.SigningShare), s.Commitment.VerifyingKey(), nil
}

// VerifyAndPackage verifies the secret share against its commitment, and returns the key package the participant uses
// for signing.
func VerifyAndPackage(share *SecretShare) (*KeyPackage, error) {
	if share == nil {
		return nil, fmt.Errorf("%w: nil secret share", ErrInvalidSecretShare)
	}

	if len(share.Commitment) < 2 {
		return nil, fmt.Errorf("%w: commitment to %d coefficients", ErrInvalidMinSigners, len(share.Commitment))
	}

	verifyingShare, verifyingKey, err := share.Verify()
	if err != nil {
		return nil, err
	}

	return &KeyPackage{
		Ciphersuite:    share.Ciphersuite,
		Identifier:     share.Identifier,
		SigningShare:   share.SigningShare.Copy(),
		VerifyingShare: verifyingShare,
		VerifyingKey:   verifyingKey,
		MinSigners:     uint16(len(share.Commitment)),
	}, nil
}

// KeyPackage holds everything a participant needs to sign: its identifier, its secret signing share, its public
// verifying share, the group verifying key, and the signing threshold.
type KeyPackage struct {
	Identifier     Identifier
	SigningShare   *group.Scalar
	VerifyingShare *group.Element
	VerifyingKey   *group.Element
	MinSigners     uint16
	Ciphersuite    Ciphersuite
}

// Validate checks the key package for completeness, and that the verifying share matches the signing share.
func (k *KeyPackage) Validate() error {
	if k == nil {
		return fmt.Errorf("%w: nil key package", ErrInvalidKeyPackage)
	}

	if err := k.Ciphersuite.check(); err != nil {
		return err
	}

	if err := k.Identifier.validate(k.Ciphersuite); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKeyPackage, err)
	}

	switch {
	case k.SigningShare == nil || k.SigningShare.IsZero():
		return fmt.Errorf("%w: %w", ErrInvalidKeyPackage, ErrMalformedSigningKey)
	case k.VerifyingShare == nil || k.VerifyingShare.IsIdentity():
		return fmt.Errorf("%w: %w: verifying share", ErrInvalidKeyPackage, ErrMalformedVerifyingKey)
	case k.VerifyingKey == nil || k.VerifyingKey.IsIdentity():
		return fmt.Errorf("%w: %w", ErrInvalidKeyPackage, ErrMalformedVerifyingKey)
	case k.MinSigners < 2:
		return fmt.Errorf("%w: %w", ErrInvalidKeyPackage, ErrInvalidMinSigners)
	}

	if k.Ciphersuite.Group().Base().Multiply(k.SigningShare).Equal(k.VerifyingShare) != 1 {
		return fmt.Errorf("%w: verifying share does not match signing share", ErrInvalidKeyPackage)
	}

	return nil
}

// Public returns the public key share of the key package.
func (k *KeyPackage) Public() (Identifier, *group.Element) {
	return k.Identifier, k.VerifyingShare.Copy()
}

// PublicKeyPackage holds the public information of a signing group: the verifying share of every participant, the
// group verifying key, and the signing threshold if known.
type PublicKeyPackage struct {
	VerifyingShares map[Identifier]*group.Element
	VerifyingKey    *group.Element

	// MinSigners is 0 if unknown, e.g. for packages decoded from sources that do not record the threshold.
	MinSigners  uint16
	Ciphersuite Ciphersuite
}

// NewPublicKeyPackage returns a public key package from the verifying shares of all participants and the group
// verifying key.
func NewPublicKeyPackage(
	c Ciphersuite,
	verifyingShares map[Identifier]*group.Element,
	verifyingKey *group.Element,
	minSigners uint16,
) (*PublicKeyPackage, error) {
	p := &PublicKeyPackage{
		Ciphersuite:     c,
		VerifyingShares: verifyingShares,
		VerifyingKey:    verifyingKey,
		MinSigners:      minSigners,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate checks the public key package for completeness.
func (p *PublicKeyPackage) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil public key package", ErrInvalidPublicKeyPackage)
	}

	if err := p.Ciphersuite.check(); err != nil {
		return err
	}

	if p.VerifyingKey == nil || p.VerifyingKey.IsIdentity() {
		return fmt.Errorf("%w: %w", ErrInvalidPublicKeyPackage, ErrMalformedVerifyingKey)
	}

	if p.MinSigners != 0 && int(p.MinSigners) > len(p.VerifyingShares) {
		return fmt.Errorf("%w: %w", ErrInvalidPublicKeyPackage, ErrInvalidMinSigners)
	}

	for id, share := range p.VerifyingShares {
		if err := id.validate(p.Ciphersuite); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPublicKeyPackage, err)
		}

		if share == nil || share.IsIdentity() {
			return fmt.Errorf("%w: %w", ErrInvalidPublicKeyPackage, culprit(ErrMalformedVerifyingKey, id))
		}
	}

	return nil
}

// Identifiers returns the identifiers of the participants, in ascending order.
func (p *PublicKeyPackage) Identifiers() []Identifier {
	ids := make([]Identifier, 0, len(p.VerifyingShares))
	for id := range p.VerifyingShares {
		ids = append(ids, id)
	}

	SortIdentifiers(ids)

	return ids
}

// VerifyingShare returns the verifying share of the participant, or nil.
func (p *PublicKeyPackage) VerifyingShare(id Identifier) *group.Element {
	return p.VerifyingShares[id]
}

func publicKeyPackageFromCommitment(
	c Ciphersuite,
	ids []Identifier,
	commitment VerifiableCommitment,
) *PublicKeyPackage {
	shares := make(map[Identifier]*group.Element, len(ids))
	for _, id := range ids {
		shares[id] = commitment.VerifyingShare(id)
	}

	return &PublicKeyPackage{
		Ciphersuite:     c,
		VerifyingShares: shares,
		VerifyingKey:    commitment.VerifyingKey(),
		MinSigners:      uint16(len(commitment)),
	}
}

// PublicKeyPackageFromCommitment derives the public key package of the participants from the commitment to the secret
// polynomial, as shared by the trusted dealer or summed over all DKG participants.
func PublicKeyPackageFromCommitment(
	c Ciphersuite,
	ids []Identifier,
	commitment VerifiableCommitment,
) (*PublicKeyPackage, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	if err := commitment.validate(); err != nil {
		return nil, err
	}

	if err := checkIdentifiers(c, ids); err != nil {
		return nil, err
	}

	return publicKeyPackageFromCommitment(c, ids, commitment), nil
}
