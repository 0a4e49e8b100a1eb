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
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost/internal"
)

// SigningCommitments is a participant's one-time commitment holding its identifier, and hiding and binding nonce
// commitments.
type SigningCommitments struct {
	Identifier  Identifier
	Hiding      *group.Element
	Binding     *group.Element
	Ciphersuite Ciphersuite
}

// Validate returns an error if the commitment is incomplete, or if a nonce commitment is the identity or the generator.
func (c *SigningCommitments) Validate(cs Ciphersuite) error {
	if c == nil {
		return fmt.Errorf("%w: nil commitment", ErrInvalidSigningCommitment)
	}

	if c.Ciphersuite != cs {
		return fmt.Errorf("%w: commitment for participant %s has an unexpected ciphersuite: expected %s, got %s",
			ErrInvalidSigningCommitment, c.Identifier, cs, c.Ciphersuite)
	}

	if err := c.Identifier.validate(cs); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSigningCommitment, err)
	}

	if err := cs.suite().VerifyCommitment(c.internal()); err != nil {
		return culprit(fmt.Errorf("%w: %w", ErrInvalidSigningCommitment, err), c.Identifier)
	}

	return nil
}

// Copy returns a new SigningCommitments struct populated with the same values as the receiver.
func (c *SigningCommitments) Copy() *SigningCommitments {
	return &SigningCommitments{
		Identifier:  c.Identifier,
		Hiding:      c.Hiding.Copy(),
		Binding:     c.Binding.Copy(),
		Ciphersuite: c.Ciphersuite,
	}
}

// Equal returns whether both commitments hold the same identifier and nonce commitments.
func (c *SigningCommitments) Equal(o *SigningCommitments) bool {
	if c == nil || o == nil {
		return c == o
	}

	return c.Ciphersuite == o.Ciphersuite &&
		c.Identifier == o.Identifier &&
		c.Hiding.Equal(o.Hiding) == 1 &&
		c.Binding.Equal(o.Binding) == 1
}

func (c *SigningCommitments) internal() *internal.Commitment {
	var id *group.Scalar
	if !c.Identifier.IsZero() {
		id = c.Identifier.Scalar()
	}

	return &internal.Commitment{
		ID:           id,
		HidingNonce:  c.Hiding,
		BindingNonce: c.Binding,
	}
}

// SigningPackage is built by the coordinator for a signing session: the message to sign and the commitments of the
// participating signers, sorted by identifier.
type SigningPackage struct {
	Message     []byte
	Commitments []*SigningCommitments
	Ciphersuite Ciphersuite
}

// Identifiers returns the identifiers of the signers in the package.
func (s *SigningPackage) Identifiers() []Identifier {
	ids := make([]Identifier, len(s.Commitments))
	for i, com := range s.Commitments {
		ids[i] = com.Identifier
	}

	return ids
}

// Commitment returns the commitment of the signer, or nil if it is not in the package.
func (s *SigningPackage) Commitment(id Identifier) *SigningCommitments {
	for _, com := range s.Commitments {
		if com.Identifier == id {
			return com
		}
	}

	return nil
}

// validate checks the package's commitments, and returns them as a sorted internal commitment list.
func (s *SigningPackage) validate() (internal.CommitmentList, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil signing package", ErrSigningPackageDeserialization)
	}

	if err := s.Ciphersuite.check(); err != nil {
		return nil, err
	}

	list := make(internal.CommitmentList, len(s.Commitments))
	seen := make(map[Identifier]struct{}, len(s.Commitments))

	for i, com := range s.Commitments {
		if err := com.Validate(s.Ciphersuite); err != nil {
			return nil, err
		}

		if _, ok := seen[com.Identifier]; ok {
			return nil, culprit(ErrDuplicatedIdentifier, com.Identifier)
		}

		seen[com.Identifier] = struct{}{}
		list[i] = com.internal()
	}

	if err := s.Ciphersuite.suite().VerifyCommitmentList(list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSigningCommitment, err)
	}

	return list, nil
}

func cmpSigningCommitments(a, b *SigningCommitments) int {
	return a.Identifier.Compare(b.Identifier)
}

func sortCommitments(commitments []*SigningCommitments) {
	slices.SortFunc(commitments, cmpSigningCommitments)
}
