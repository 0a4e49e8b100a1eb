// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"bytes"
	"cmp"
	"slices"

	group "github.com/bytemare/crypto"
)

// Commitment is the arithmetic view of a signer's commitment: its identifier as a scalar and its two nonce
// commitments.
type Commitment struct {
	ID           *group.Scalar
	HidingNonce  *group.Element
	BindingNonce *group.Element
}

// CommitmentList is a list of commitments, sorted by ascending identifier before use.
type CommitmentList []*Commitment

// littleEndian returns whether the group encodes scalars in little-endian byte order.
func littleEndian(g group.Group) bool {
	return g == group.Ristretto255Sha512 || g == group.Edwards25519Sha512
}

// CompareEncodedScalars returns -1, 0, or 1 if the integer encoded in a is respectively lower, equal to, or greater
// than the one encoded in b, given the byte order of the group. Both encodings must have the same length, or be empty.
func CompareEncodedScalars(g group.Group, a, b []byte) int {
	if len(a) != len(b) {
		return cmp.Compare(len(a), len(b))
	}

	if !littleEndian(g) {
		return bytes.Compare(a, b)
	}

	for i := len(a) - 1; i >= 0; i-- {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}

	return 0
}

// CompareScalars returns -1, 0, or 1 if a is respectively lower, equal to, or greater than b, as integers.
func CompareScalars(g group.Group, a, b *group.Scalar) int {
	return CompareEncodedScalars(g, a.Encode(), b.Encode())
}

// Sort sorts the list in ascending order of identifiers.
func (c CommitmentList) Sort(g group.Group) {
	slices.SortFunc(c, func(a, b *Commitment) int {
		return CompareScalars(g, a.ID, b.ID)
	})
}

// IsSorted returns whether the list is sorted in ascending order by identifier.
func (c CommitmentList) IsSorted(g group.Group) bool {
	return slices.IsSortedFunc(c, func(a, b *Commitment) int {
		return CompareScalars(g, a.ID, b.ID)
	})
}

// Get returns the commitment of the participant with the corresponding identifier, or nil if it was not found.
func (c CommitmentList) Get(id *group.Scalar) *Commitment {
	for _, com := range c {
		if com.ID.Equal(id) == 1 {
			return com
		}
	}

	return nil
}

// Participants returns the list of identifiers in the list.
func (c CommitmentList) Participants() []*group.Scalar {
	identifiers := make([]*group.Scalar, 0, len(c))
	for _, l := range c {
		identifiers = append(identifiers, l.ID)
	}

	return identifiers
}

// Encode returns the concatenation of each identifier and its hiding and binding commitments, as used in the
// binding factor derivation.
func (c CommitmentList) Encode(cs *Ciphersuite) []byte {
	size := len(c) * (cs.ScalarLength() + 2*cs.ElementLength())
	encoded := make([]byte, 0, size)

	for _, com := range c {
		encoded = append(encoded, com.ID.Encode()...)
		encoded = append(encoded, com.HidingNonce.Encode()...)
		encoded = append(encoded, com.BindingNonce.Encode()...)
	}

	return encoded
}
