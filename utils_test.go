// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package frost_test

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
	"testing"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost"
)

type tableTest struct {
	frost.Ciphersuite
	minSigners, maxSigners uint16
}

func testAll(t *testing.T, f func(*testing.T, *tableTest)) {
	for _, cs := range frost.Ciphersuites() {
		test := &tableTest{Ciphersuite: cs, minSigners: 2, maxSigners: 3}
		t.Run(cs.String(), func(t *testing.T) {
			f(t, test)
		})
	}
}

// randomizerFor returns a randomizer for the signing package if the ciphersuite requires one.
func (test *tableTest) randomizerFor(
	t *testing.T,
	publicKeys *frost.PublicKeyPackage,
	sp *frost.SigningPackage,
) *frost.Randomizer {
	t.Helper()

	if test.SigningMode() != frost.RandomizedSigning {
		return nil
	}

	r, err := frost.RandomizerFromSigningPackage(publicKeys, sp)
	if err != nil {
		t.Fatal(err)
	}

	return r
}

func expectError(expectedError error, f func() error) error {
	if err := f(); err == nil || err.Error() != expectedError.Error() {
		return fmt.Errorf("expected %q, got %q", expectedError, err)
	}

	return nil
}

func expectErrorIs(expectedError error, f func() error) error {
	if err := f(); !errors.Is(err, expectedError) {
		return fmt.Errorf("expected %q, got %q", expectedError, err)
	}

	return nil
}

func expectErrorPrefix(expectedErrorMessagePrefix string, f func() error) error {
	if err := f(); err == nil || !strings.HasPrefix(err.Error(), expectedErrorMessagePrefix) {
		return fmt.Errorf("expected error prefix %q, got %q", expectedErrorMessagePrefix, err)
	}

	return nil
}

func badScalar(t *testing.T, g group.Group) []byte {
	order, ok := new(big.Int).SetString(g.Order(), 0)
	if !ok {
		t.Errorf("setting int in base %d failed: %v", 0, g.Order())
	}

	encoded := make([]byte, g.ScalarLength())
	order.FillBytes(encoded)

	if g == group.Ristretto255Sha512 || g == group.Edwards25519Sha512 {
		slices.Reverse(encoded)
	}

	return encoded
}

func badElement(t *testing.T, g group.Group) []byte {
	order, ok := new(big.Int).SetString(g.Order(), 0)
	if !ok {
		t.Errorf("setting int in base %d failed: %v", 0, g.Order())
	}

	encoded := make([]byte, g.ElementLength())
	order.FillBytes(encoded)

	if g == group.Ristretto255Sha512 || g == group.Edwards25519Sha512 {
		slices.Reverse(encoded)
	}

	return encoded
}

func trustedDealer(t *testing.T, test *tableTest) (map[frost.Identifier]*frost.KeyPackage, *frost.PublicKeyPackage) {
	t.Helper()

	keys, err := frost.TrustedDealerKeygen(test.Ciphersuite, &frost.Configuration{
		MinSigners: test.minSigners,
		MaxSigners: test.maxSigners,
	})
	if err != nil {
		t.Fatal(err)
	}

	keyPackages := make(map[frost.Identifier]*frost.KeyPackage, len(keys.SecretShares))

	for id, share := range keys.SecretShares {
		kp, err := frost.VerifyAndPackage(share)
		if err != nil {
			t.Fatal(err)
		}

		keyPackages[id] = kp
	}

	return keyPackages, keys.PublicKeyPackage
}

// session holds the state of a signing session for the given signers.
type session struct {
	signingPackage *frost.SigningPackage
	nonces         map[frost.Identifier]*frost.SigningNonces
	randomizer     *frost.Randomizer
}

func newSession(
	t *testing.T,
	test *tableTest,
	message []byte,
	keyPackages map[frost.Identifier]*frost.KeyPackage,
	publicKeys *frost.PublicKeyPackage,
	signers []frost.Identifier,
) *session {
	t.Helper()

	s := &session{nonces: make(map[frost.Identifier]*frost.SigningNonces, len(signers))}
	commitments := make([]*frost.SigningCommitments, 0, len(signers))

	for _, id := range signers {
		nonces, com, err := frost.Commit(keyPackages[id])
		if err != nil {
			t.Fatal(err)
		}

		s.nonces[id] = nonces
		commitments = append(commitments, com)
	}

	sp, err := frost.NewSigningPackage(test.Ciphersuite, message, commitments)
	if err != nil {
		t.Fatal(err)
	}

	s.signingPackage = sp
	s.randomizer = test.randomizerFor(t, publicKeys, sp)

	return s
}

func (s *session) sign(t *testing.T, keyPackages map[frost.Identifier]*frost.KeyPackage) []*frost.SignatureShare {
	t.Helper()

	shares := make([]*frost.SignatureShare, 0, len(s.nonces))

	for _, id := range s.signingPackage.Identifiers() {
		share, err := frost.Sign(s.signingPackage, s.nonces[id], keyPackages[id], s.randomizer)
		if err != nil {
			t.Fatal(err)
		}

		shares = append(shares, share)
	}

	return shares
}

// runFrost signs the message with the given signers, and verifies the aggregated signature.
func runFrost(
	t *testing.T,
	test *tableTest,
	message []byte,
	keyPackages map[frost.Identifier]*frost.KeyPackage,
	publicKeys *frost.PublicKeyPackage,
	signers []frost.Identifier,
) (*frost.Signature, *session) {
	t.Helper()

	s := newSession(t, test, message, keyPackages, publicKeys, signers)
	shares := s.sign(t, keyPackages)

	for _, share := range shares {
		if err := frost.VerifySignatureShare(s.signingPackage, share, publicKeys, s.randomizer); err != nil {
			t.Fatal(err)
		}
	}

	signature, err := frost.Aggregate(s.signingPackage, shares, publicKeys, s.randomizer)
	if err != nil {
		t.Fatal(err)
	}

	if err = frost.VerifySignature(message, signature, publicKeys, s.randomizer); err != nil {
		t.Fatal(err)
	}

	return signature, s
}

func identifiers(t *testing.T, cs frost.Ciphersuite, n ...uint16) []frost.Identifier {
	t.Helper()

	ids := make([]frost.Identifier, len(n))

	for i, v := range n {
		id, err := cs.IdentifierFromUint16(v)
		if err != nil {
			t.Fatal(err)
		}

		ids[i] = id
	}

	return ids
}
