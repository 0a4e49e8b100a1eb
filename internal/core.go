// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"encoding/hex"
	"errors"
	"fmt"

	group "github.com/bytemare/crypto"
)

var (
	errNilCommitment       = errors.New("commitment is nil")
	errIdentityCommitment  = errors.New("nonce commitment is nil or the identity element")
	errGeneratorCommitment = errors.New("nonce commitment is the group generator")
	errZeroIdentifier      = errors.New("identifier is zero")
	errDuplicateCommitment = errors.New("commitment list contains multiple commitments of the same participant")
)

// GroupCommitmentAndBindingFactors computes and returns the group commitment element and signers' binding factors.
func (c *Ciphersuite) GroupCommitmentAndBindingFactors(
	pk *group.Element,
	message []byte,
	commitments CommitmentList,
) (*group.Element, BindingFactors) {
	bindingFactors := c.BindingFactors(pk, commitments, message)
	groupCommitment := c.groupCommitment(commitments, bindingFactors)

	return groupCommitment, bindingFactors
}

func (c *Ciphersuite) groupCommitment(commitments CommitmentList, bf BindingFactors) *group.Element {
	gc := c.Group.NewElement().Identity()

	for _, com := range commitments {
		factor := bf.Get(com.ID)
		bindingNonce := com.BindingNonce.Copy().Multiply(factor)
		gc.Add(com.HidingNonce).Add(bindingNonce)
	}

	return gc
}

// CommitmentShare returns D_i + rho_i * E_i, the contribution of one participant to the group commitment.
func CommitmentShare(com *Commitment, bindingFactor *group.Scalar) *group.Element {
	return com.HidingNonce.Copy().Add(com.BindingNonce.Copy().Multiply(bindingFactor))
}

// SchnorrChallenge computes the per-message SchnorrChallenge.
func (c *Ciphersuite) SchnorrChallenge(msg []byte, r, pk *group.Element) *group.Scalar {
	return c.H2(Concatenate(r.Encode(), pk.Encode(), msg))
}

// VerifyCommitment checks a single commitment's consistency: a non-zero identifier and nonce commitments that are
// neither the identity element nor the generator.
func (c *Ciphersuite) VerifyCommitment(com *Commitment) error {
	if com == nil || com.ID == nil {
		return errNilCommitment
	}

	if com.ID.IsZero() {
		return errZeroIdentifier
	}

	base := c.Group.Base()

	for _, nonce := range []*group.Element{com.HidingNonce, com.BindingNonce} {
		if nonce == nil || nonce.IsIdentity() {
			return fmt.Errorf("%w: participant %v", errIdentityCommitment, hex.EncodeToString(com.ID.Encode()))
		}

		if nonce.Equal(base) == 1 {
			return fmt.Errorf("%w: participant %v", errGeneratorCommitment, hex.EncodeToString(com.ID.Encode()))
		}
	}

	return nil
}

// VerifyCommitmentList checks for the Commitment list integrity, and sorts it if necessary.
func (c *Ciphersuite) VerifyCommitmentList(coms CommitmentList) error {
	if !coms.IsSorted(c.Group) {
		coms.Sort(c.Group)
	}

	// set to detect duplication
	set := make(map[string]struct{}, len(coms))

	for _, com := range coms {
		if err := c.VerifyCommitment(com); err != nil {
			return err
		}

		id := string(com.ID.Encode())
		if _, exists := set[id]; exists {
			return fmt.Errorf("%w: participant %v", errDuplicateCommitment, hex.EncodeToString(com.ID.Encode()))
		}

		set[id] = struct{}{}
	}

	return nil
}
