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
)

// NewSigningPackage builds the signing package of a session over the message, from the commitments received from the
// participating signers. The commitments are sorted by identifier. If an identifier appears more than once, the last
// commitment for it is kept.
func NewSigningPackage(cs Ciphersuite, message []byte, commitments []*SigningCommitments) (*SigningPackage, error) {
	if err := cs.check(); err != nil {
		return nil, err
	}

	if len(commitments) == 0 {
		return nil, fmt.Errorf("%w: no commitments", ErrIncorrectNumberOfCommitments)
	}

	byID := make(map[Identifier]*SigningCommitments, len(commitments))

	for _, com := range commitments {
		if com == nil {
			return nil, fmt.Errorf("%w: nil commitment", ErrInvalidSigningCommitment)
		}

		if err := com.Validate(cs); err != nil {
			return nil, err
		}

		byID[com.Identifier] = com.Copy()
	}

	sp := &SigningPackage{
		Message:     append([]byte{}, message...),
		Commitments: make([]*SigningCommitments, 0, len(byID)),
		Ciphersuite: cs,
	}

	for _, com := range byID {
		sp.Commitments = append(sp.Commitments, com)
	}

	sortCommitments(sp.Commitments)

	return sp, nil
}

func aggregationError(err error) error {
	return fmt.Errorf("%w: %w", ErrAggregationFailed, err)
}

// sessionContext holds what the coordinator derives from a signing package to verify signature shares.
type sessionContext struct {
	cs              *internal.Ciphersuite
	list            internal.CommitmentList
	bindingFactors  internal.BindingFactors
	groupCommitment *group.Element
	challenge       *group.Scalar
	publicKeys      *PublicKeyPackage
}

func newSessionContext(
	sp *SigningPackage,
	pkp *PublicKeyPackage,
	randomizer *Randomizer,
) (*sessionContext, error) {
	if err := pkp.Validate(); err != nil {
		return nil, err
	}

	cs := pkp.Ciphersuite

	if err := cs.checkRandomizer(randomizer); err != nil {
		return nil, err
	}

	if sp == nil || sp.Ciphersuite != cs {
		return nil, fmt.Errorf("%w: nil signing package or unexpected ciphersuite", ErrSigningPackageDeserialization)
	}

	if len(sp.Commitments) == 0 {
		return nil, fmt.Errorf("%w: no commitments", ErrIncorrectNumberOfCommitments)
	}

	list, err := sp.validate()
	if err != nil {
		return nil, err
	}

	if randomizer != nil {
		if pkp, err = pkp.Randomize(randomizer); err != nil {
			return nil, err
		}
	}

	suite := cs.suite()
	groupCommitment, bindingFactors := suite.GroupCommitmentAndBindingFactors(pkp.VerifyingKey, sp.Message, list)

	return &sessionContext{
		cs:              suite,
		list:            list,
		bindingFactors:  bindingFactors,
		groupCommitment: groupCommitment,
		challenge:       suite.SchnorrChallenge(sp.Message, groupCommitment, pkp.VerifyingKey),
		publicKeys:      pkp,
	}, nil
}

func (s *sessionContext) verifyShare(share *SignatureShare) error {
	if share == nil || share.Share == nil {
		return fmt.Errorf("%w: nil signature share", ErrInvalidSignatureShare)
	}

	if err := share.Identifier.validate(s.publicKeys.Ciphersuite); err != nil {
		return err
	}

	verifyingShare := s.publicKeys.VerifyingShare(share.Identifier)
	if verifyingShare == nil {
		return culprit(ErrUnknownIdentifier, share.Identifier)
	}

	id := share.Identifier.Scalar()

	com := s.list.Get(id)
	if com == nil {
		return culprit(ErrUnknownIdentifier, share.Identifier)
	}

	lambdaChall, err := s.cs.ChallengeFactor(id, s.list, s.challenge)
	if err != nil {
		return err
	}

	// z_i * G == D_i + rho_i * E_i + lambda_i * c * Y_i
	l := s.cs.Group.Base().Multiply(share.Share)
	r := internal.CommitmentShare(com, s.bindingFactors.Get(id)).
		Add(verifyingShare.Copy().Multiply(lambdaChall))

	if l.Equal(r) != 1 {
		return culprit(ErrInvalidSignatureShare, share.Identifier)
	}

	return nil
}

// VerifySignatureShare verifies a single signature share against the signer's verifying share in the public key
// package. It allows the coordinator to identify a misbehaving signer.
func VerifySignatureShare(
	signingPackage *SigningPackage,
	share *SignatureShare,
	publicKeys *PublicKeyPackage,
	randomizer *Randomizer,
) error {
	session, err := newSessionContext(signingPackage, publicKeys, randomizer)
	if err != nil {
		return err
	}

	return session.verifyShare(share)
}

// Aggregate verifies the signature shares of the signers in the signing package, and aggregates them into a Schnorr
// signature valid under the group verifying key, or the randomized group verifying key if a randomizer is given.
// If a share is invalid, the returned error is a *CulpritError identifying its signer.
func Aggregate(
	signingPackage *SigningPackage,
	shares []*SignatureShare,
	publicKeys *PublicKeyPackage,
	randomizer *Randomizer,
) (*Signature, error) {
	session, err := newSessionContext(signingPackage, publicKeys, randomizer)
	if err != nil {
		return nil, aggregationError(err)
	}

	if publicKeys.MinSigners != 0 && len(shares) < int(publicKeys.MinSigners) {
		return nil, aggregationError(fmt.Errorf("%w: got %d, need at least %d", ErrIncorrectNumberOfShares,
			len(shares), publicKeys.MinSigners))
	}

	if len(shares) != len(session.list) {
		return nil, aggregationError(fmt.Errorf("%w: %d shares for %d commitments", ErrUnknownIdentifier,
			len(shares), len(session.list)))
	}

	seen := make(map[Identifier]struct{}, len(shares))
	z := session.cs.Group.NewScalar().Zero()

	for _, share := range shares {
		if share != nil {
			if _, ok := seen[share.Identifier]; ok {
				return nil, aggregationError(culprit(ErrDuplicatedShares, share.Identifier))
			}

			seen[share.Identifier] = struct{}{}
		}

		if err = session.verifyShare(share); err != nil {
			return nil, aggregationError(err)
		}

		z.Add(share.Share)
	}

	signature := &Signature{
		R:           session.groupCommitment,
		Z:           z,
		Ciphersuite: publicKeys.Ciphersuite,
	}

	if err = verify(session.cs, signingPackage.Message, signature, session.publicKeys.VerifyingKey); err != nil {
		return nil, aggregationError(err)
	}

	return signature, nil
}
