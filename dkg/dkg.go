// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package dkg implements the Distributed Key Generation described in FROST,
// using zero-knowledge proofs in Schnorr signatures.
//
// Each participant runs three parts:
//   - Part1 returns a secret package to keep, and a Round1Package to broadcast to all other participants;
//   - Part2 ingests the Round1Packages of all other participants, and returns a secret package to keep and one
//     Round2Package per peer, each to be sent over a confidential and authenticated channel to its recipient;
//   - Part3 ingests the Round1Packages and the Round2Packages received, and returns the participant's KeyPackage and
//     the group's PublicKeyPackage.
//
// Secret packages are consumed by the part that uses them, and cannot be used twice.
package dkg

import (
	"fmt"
	"maps"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost"
	"github.com/zecdev/frost/internal"
	"github.com/zecdev/frost/internal/schnorr"
	"github.com/zecdev/frost/internal/shamir"
	"github.com/zecdev/frost/internal/vss"
)

// Round1SecretPackage is the secret state of a participant between Part1 and Part2. It must be kept private.
type Round1SecretPackage struct {
	Identifier   frost.Identifier
	coefficients shamir.Polynomial
	Commitment   frost.VerifiableCommitment
	MinSigners   uint16
	MaxSigners   uint16
	Ciphersuite  frost.Ciphersuite
	consumed     bool
}

// Round1Package is the output of Part1, to be broadcast to all other participants.
type Round1Package struct {
	Commitment       frost.VerifiableCommitment
	ProofOfKnowledge *frost.Signature
	Ciphersuite      frost.Ciphersuite
}

// Round2SecretPackage is the secret state of a participant between Part2 and Part3. It must be kept private.
type Round2SecretPackage struct {
	Identifier  frost.Identifier
	Commitment  frost.VerifiableCommitment
	secretShare *group.Scalar
	MinSigners  uint16
	MaxSigners  uint16
	Ciphersuite frost.Ciphersuite
	consumed    bool
}

// Round2Package is an output of Part2, to be sent confidentially to a single peer.
type Round2Package struct {
	SigningShare *group.Scalar
	Ciphersuite  frost.Ciphersuite
}

// Consumed returns whether the package was already used by Part2.
func (s *Round1SecretPackage) Consumed() bool {
	return s.consumed
}

// Consumed returns whether the package was already used by Part3.
func (s *Round2SecretPackage) Consumed() bool {
	return s.consumed
}

func (s *Round1SecretPackage) zero() {
	s.coefficients.Zero()
	s.consumed = true
}

func (s *Round2SecretPackage) zero() {
	if s.secretShare != nil {
		s.secretShare.Zero()
	}

	s.consumed = true
}

func checkIdentifier(cs frost.Ciphersuite, id frost.Identifier) error {
	if id.IsZero() || id.Ciphersuite() != cs {
		return fmt.Errorf("%w: %s", frost.ErrMalformedIdentifier, id)
	}

	return nil
}

func culprit(err error, id frost.Identifier) error {
	return &frost.CulpritError{Err: err, Culprit: id}
}

func toSchnorr(p *frost.Signature) *schnorr.Signature {
	return &schnorr.Signature{R: p.R, Z: p.Z}
}

// Part1 starts the DKG for the participant identified by id: it draws a random secret polynomial of minSigners
// coefficients, commits to it, and proves knowledge of its constant term.
func Part1(
	cs frost.Ciphersuite,
	id frost.Identifier,
	maxSigners, minSigners uint16,
) (*Round1SecretPackage, *Round1Package, error) {
	conf := &frost.Configuration{MinSigners: minSigners, MaxSigners: maxSigners}
	if err := conf.Validate(cs); err != nil {
		return nil, nil, err
	}

	if err := checkIdentifier(cs, id); err != nil {
		return nil, nil, err
	}

	suite := internal.GetCiphersuite(byte(cs))
	g := suite.Group

	coefficients := shamir.NewPolynomial(g, nil, minSigners)
	commitment := frost.VerifiableCommitment(vss.Commit(g, coefficients))
	proof := schnorr.ProveKnowledge(suite, id.Scalar(), coefficients[0], commitment[0])

	secret := &Round1SecretPackage{
		Identifier:   id,
		coefficients: coefficients,
		Commitment:   commitment,
		MinSigners:   minSigners,
		MaxSigners:   maxSigners,
		Ciphersuite:  cs,
	}

	public := &Round1Package{
		Commitment:       copyCommitment(commitment),
		ProofOfKnowledge: &frost.Signature{R: proof.R, Z: proof.Z, Ciphersuite: cs},
		Ciphersuite:      cs,
	}

	return secret, public, nil
}

func copyCommitment(v frost.VerifiableCommitment) frost.VerifiableCommitment {
	c := make(frost.VerifiableCommitment, len(v))
	for i, e := range v {
		c[i] = e.Copy()
	}

	return c
}

func (p *Round1Package) verify(cs frost.Ciphersuite, sender frost.Identifier, minSigners uint16) error {
	if p == nil || p.Ciphersuite != cs {
		return culprit(fmt.Errorf("%w: nil round 1 package or unexpected ciphersuite", frost.ErrDeserialization),
			sender)
	}

	if len(p.Commitment) != int(minSigners) {
		return culprit(frost.ErrDKGPart2IncorrectNumberOfCommitments, sender)
	}

	if !validElements(p.Commitment) {
		return culprit(frost.ErrInvalidCoefficients, sender)
	}

	if p.ProofOfKnowledge == nil ||
		!schnorr.VerifyKnowledge(
			internal.GetCiphersuite(byte(cs)),
			sender.Scalar(),
			p.Commitment[0],
			toSchnorr(p.ProofOfKnowledge),
		) {
		return culprit(frost.ErrInvalidProofOfKnowledge, sender)
	}

	return nil
}

func validElements(commitment frost.VerifiableCommitment) bool {
	for _, e := range commitment {
		if e == nil || e.IsIdentity() {
			return false
		}
	}

	return true
}

func sortedPeers(
	cs frost.Ciphersuite,
	self frost.Identifier,
	maxSigners uint16,
	ids []frost.Identifier,
	sizeErr error,
) ([]frost.Identifier, error) {
	if len(ids) != int(maxSigners)-1 {
		return nil, fmt.Errorf("%w: got %d, expected %d", sizeErr, len(ids), maxSigners-1)
	}

	for _, id := range ids {
		if err := checkIdentifier(cs, id); err != nil {
			return nil, err
		}

		if id == self {
			return nil, fmt.Errorf("%w: own identifier among the packages", sizeErr)
		}
	}

	frost.SortIdentifiers(ids)

	return ids, nil
}

// Part2 verifies the Round1Packages of all other participants, keyed by their sender, and returns the secret package
// for Part3 and the Round2Package for each peer, keyed by recipient. An invalid package returns a *frost.CulpritError
// naming its sender.
func Part2(
	secret *Round1SecretPackage,
	round1 map[frost.Identifier]*Round1Package,
) (*Round2SecretPackage, map[frost.Identifier]*Round2Package, error) {
	if secret == nil || secret.consumed {
		return nil, nil, frost.ErrPackageConsumed
	}

	cs := secret.Ciphersuite

	peers, err := sortedPeers(cs, secret.Identifier, secret.MaxSigners, slices.Collect(maps.Keys(round1)),
		frost.ErrDKGPart2IncorrectNumberOfPackages)
	if err != nil {
		return nil, nil, err
	}

	for _, peer := range peers {
		if err = round1[peer].verify(cs, peer, secret.MinSigners); err != nil {
			return nil, nil, err
		}
	}

	g := cs.Group()
	round2 := make(map[frost.Identifier]*Round2Package, len(peers))

	for _, peer := range peers {
		round2[peer] = &Round2Package{
			SigningShare: secret.coefficients.Evaluate(g, peer.Scalar()),
			Ciphersuite:  cs,
		}
	}

	next := &Round2SecretPackage{
		Identifier:  secret.Identifier,
		Commitment:  copyCommitment(secret.Commitment),
		secretShare: secret.coefficients.Evaluate(g, secret.Identifier.Scalar()),
		MinSigners:  secret.MinSigners,
		MaxSigners:  secret.MaxSigners,
		Ciphersuite: cs,
	}

	secret.zero()

	return next, round2, nil
}

// Part3 verifies the secret shares received from all other participants against their round 1 commitments, and
// returns the participant's KeyPackage and the group's PublicKeyPackage. round1 and round2 packages are keyed by their
// sender. An invalid share returns a *frost.CulpritError naming its sender.
func Part3(
	secret *Round2SecretPackage,
	round1 map[frost.Identifier]*Round1Package,
	round2 map[frost.Identifier]*Round2Package,
) (*frost.KeyPackage, *frost.PublicKeyPackage, error) {
	if secret == nil || secret.consumed {
		return nil, nil, frost.ErrPackageConsumed
	}

	cs := secret.Ciphersuite

	peers, err := sortedPeers(cs, secret.Identifier, secret.MaxSigners, slices.Collect(maps.Keys(round1)),
		frost.ErrDKGPart3IncorrectNumberOfPackages)
	if err != nil {
		return nil, nil, err
	}

	if len(round2) != len(round1) {
		return nil, nil, fmt.Errorf("%w: %d round 2 packages for %d round 1 packages",
			frost.ErrDKGPart3IncorrectNumberOfPackages, len(round2), len(round1))
	}

	for _, peer := range peers {
		if _, ok := round2[peer]; !ok {
			return nil, nil, culprit(frost.ErrDKGPart3PackageSendersMismatch, peer)
		}
	}

	g := cs.Group()
	self := secret.Identifier.Scalar()
	signingShare := secret.secretShare.Copy()
	commitments := []vss.Commitment{vss.Commitment(secret.Commitment)}

	for _, peer := range peers {
		r1, r2 := round1[peer], round2[peer]

		if r1 == nil || r1.Ciphersuite != cs || len(r1.Commitment) != int(secret.MinSigners) ||
			!validElements(r1.Commitment) {
			return nil, nil, culprit(frost.ErrDKGPart3IncorrectRound1Packages, peer)
		}

		if r2 == nil || r2.Ciphersuite != cs || r2.SigningShare == nil {
			return nil, nil, culprit(fmt.Errorf("%w: nil round 2 package or unexpected ciphersuite",
				frost.ErrDeserialization), peer)
		}

		if !vss.Verify(g, self, r2.SigningShare, vss.Commitment(r1.Commitment)) {
			return nil, nil, culprit(frost.ErrInvalidSecretShare, peer)
		}

		signingShare.Add(r2.SigningShare)
		commitments = append(commitments, vss.Commitment(r1.Commitment))
	}

	groupCommitment := frost.VerifiableCommitment(vss.Sum(g, commitments...))
	ids := append([]frost.Identifier{secret.Identifier}, peers...)

	publicKeys, err := frost.PublicKeyPackageFromCommitment(cs, ids, groupCommitment)
	if err != nil {
		return nil, nil, err
	}

	if g.Base().Multiply(signingShare).Equal(publicKeys.VerifyingShare(secret.Identifier)) != 1 {
		return nil, nil, frost.ErrDKGPart3IncorrectRound1Packages
	}

	keyPackage, err := frost.VerifyAndPackage(&frost.SecretShare{
		Identifier:   secret.Identifier,
		SigningShare: signingShare,
		Commitment:   groupCommitment,
		Ciphersuite:  cs,
	})
	if err != nil {
		return nil, nil, err
	}

	secret.zero()

	return keyPackage, publicKeys, nil
}
