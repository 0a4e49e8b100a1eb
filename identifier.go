// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package frost

import (
	"cmp"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost/internal"
)

// Identifier is a participant identifier: a non-zero scalar of a ciphersuite. Identifiers are comparable, and can be
// used as map keys. The zero value is not a valid identifier.
type Identifier struct {
	encoded     string
	ciphersuite Ciphersuite
}

// IdentifierFromUint16 returns the identifier of value n. n must be non-zero.
func (c Ciphersuite) IdentifierFromUint16(n uint16) (Identifier, error) {
	if err := c.check(); err != nil {
		return Identifier{}, err
	}

	if n == 0 {
		return Identifier{}, fmt.Errorf("%w: identifier is zero", ErrMalformedIdentifier)
	}

	return c.identifierFromScalar(c.Group().NewScalar().SetUInt64(uint64(n)))
}

// DeriveIdentifier deterministically derives an identifier from an arbitrary byte string, e.g. a participant's name.
func (c Ciphersuite) DeriveIdentifier(seed []byte) (Identifier, error) {
	if err := c.check(); err != nil {
		return Identifier{}, err
	}

	if !c.SupportsIdentifierDerivation() {
		return Identifier{}, ErrIdentifierDerivationNotSupported
	}

	return c.identifierFromScalar(c.suite().HID(seed))
}

// DecodeIdentifier decodes the canonical scalar encoding of an identifier.
func (c Ciphersuite) DecodeIdentifier(data []byte) (Identifier, error) {
	if err := c.check(); err != nil {
		return Identifier{}, err
	}

	s, err := c.decodeScalar(data)
	if err != nil {
		return Identifier{}, fmt.Errorf("%w: %w", ErrMalformedIdentifier, err)
	}

	return c.identifierFromScalar(s)
}

// IdentifierFromHex decodes the hexadecimal encoding of an identifier, as used in JSON.
func (c Ciphersuite) IdentifierFromHex(s string) (Identifier, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return Identifier{}, fmt.Errorf("%w: %w", ErrMalformedIdentifier, err)
	}

	return c.DecodeIdentifier(data)
}

// IdentifierFromJSON decodes an identifier from its JSON representation, a quoted hexadecimal string.
func (c Ciphersuite) IdentifierFromJSON(data []byte) (Identifier, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return Identifier{}, fmt.Errorf("%w: %w", ErrMalformedIdentifier, err)
	}

	return c.IdentifierFromHex(s)
}

func (c Ciphersuite) identifierFromScalar(s *group.Scalar) (Identifier, error) {
	if s.IsZero() {
		return Identifier{}, fmt.Errorf("%w: identifier is zero", ErrMalformedIdentifier)
	}

	return Identifier{ciphersuite: c, encoded: string(s.Encode())}, nil
}

// Ciphersuite returns the ciphersuite of the identifier.
func (i Identifier) Ciphersuite() Ciphersuite {
	return i.ciphersuite
}

// IsZero returns whether i is the zero value, and therefore not a valid identifier.
func (i Identifier) IsZero() bool {
	return i.encoded == ""
}

// Scalar returns a copy of the scalar value of the identifier, or nil for the zero value.
func (i Identifier) Scalar() *group.Scalar {
	if i.IsZero() {
		return nil
	}

	s, err := i.ciphersuite.decodeScalar([]byte(i.encoded))
	if err != nil {
		// Identifiers are only built from valid scalars.
		panic(err)
	}

	return s
}

// Encode returns the canonical scalar encoding of the identifier.
func (i Identifier) Encode() []byte {
	return []byte(i.encoded)
}

// String returns the hexadecimal encoding of the identifier.
func (i Identifier) String() string {
	return hex.EncodeToString([]byte(i.encoded))
}

// Compare returns -1, 0, or 1 if i is respectively lower, equal to, or greater than j, as integers. The zero value
// sorts first. Identifiers of different ciphersuites are ordered by ciphersuite.
func (i Identifier) Compare(j Identifier) int {
	if i.ciphersuite != j.ciphersuite && !i.IsZero() && !j.IsZero() {
		return cmp.Compare(i.ciphersuite, j.ciphersuite)
	}

	cs := i.ciphersuite
	if i.IsZero() {
		cs = j.ciphersuite
	}

	if !cs.Available() {
		return cmp.Compare(i.encoded, j.encoded)
	}

	return internal.CompareEncodedScalars(cs.Group(), []byte(i.encoded), []byte(j.encoded))
}

// MarshalJSON encodes the identifier as a quoted hexadecimal string.
func (i Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

func (i Identifier) validate(c Ciphersuite) error {
	if i.IsZero() {
		return fmt.Errorf("%w: empty identifier", ErrMalformedIdentifier)
	}

	if i.ciphersuite != c {
		return fmt.Errorf("%w: identifier of ciphersuite %s used with %s", ErrMalformedIdentifier, i.ciphersuite, c)
	}

	return nil
}

// SortIdentifiers sorts the identifiers in ascending integer order.
func SortIdentifiers(ids []Identifier) {
	slices.SortFunc(ids, Identifier.Compare)
}

// defaultIdentifiers returns the identifiers 1 to n.
func (c Ciphersuite) defaultIdentifiers(n uint16) []Identifier {
	ids := make([]Identifier, n)
	for i := range ids {
		ids[i], _ = c.IdentifierFromUint16(uint16(i + 1))
	}

	return ids
}

func checkIdentifiers(c Ciphersuite, ids []Identifier) error {
	seen := make(map[Identifier]struct{}, len(ids))
	for _, id := range ids {
		if err := id.validate(c); err != nil {
			return err
		}

		if _, ok := seen[id]; ok {
			return culprit(ErrDuplicatedIdentifier, id)
		}

		seen[id] = struct{}{}
	}

	return nil
}
