// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package dkg_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/zecdev/frost"
	"github.com/zecdev/frost/debug"
	"github.com/zecdev/frost/dkg"
)

type participant struct {
	id      frost.Identifier
	secret1 *dkg.Round1SecretPackage
	secret2 *dkg.Round2SecretPackage
	round1  *dkg.Round1Package
	round2  map[frost.Identifier]*dkg.Round2Package
}

func testAll(t *testing.T, f func(*testing.T, frost.Ciphersuite)) {
	for _, cs := range frost.Ciphersuites() {
		t.Run(cs.String(), func(t *testing.T) {
			f(t, cs)
		})
	}
}

func expectErrorIs(expectedError error, f func() error) error {
	if err := f(); !errors.Is(err, expectedError) {
		return fmt.Errorf("expected %q, got %q", expectedError, err)
	}

	return nil
}

func expectCulprit(t *testing.T, err, expectedError error, expectedCulprit frost.Identifier) {
	t.Helper()

	if !errors.Is(err, expectedError) {
		t.Fatalf("expected %q, got %q", expectedError, err)
	}

	c, ok := frost.Culprit(err)
	if !ok || c != expectedCulprit {
		t.Fatalf("expected culprit %s, got %s", expectedCulprit, c)
	}
}

func part1(t *testing.T, cs frost.Ciphersuite, minSigners, maxSigners uint16) []*participant {
	t.Helper()

	ids := make([]frost.Identifier, maxSigners)

	for i := range maxSigners {
		id, err := cs.IdentifierFromUint16(i + 1)
		if err != nil {
			t.Fatal(err)
		}

		ids[i] = id
	}

	return part1WithIdentifiers(t, cs, minSigners, ids)
}

func part1WithIdentifiers(t *testing.T, cs frost.Ciphersuite, minSigners uint16, ids []frost.Identifier) []*participant {
	t.Helper()

	maxSigners := uint16(len(ids))
	participants := make([]*participant, maxSigners)

	for i, id := range ids {
		secret, public, err := dkg.Part1(cs, id, maxSigners, minSigners)
		if err != nil {
			t.Fatal(err)
		}

		participants[i] = &participant{id: id, secret1: secret, round1: public}
	}

	return participants
}

// receivedRound1 returns the round 1 packages of all participants but p, keyed by sender.
func receivedRound1(p *participant, participants []*participant) map[frost.Identifier]*dkg.Round1Package {
	r := make(map[frost.Identifier]*dkg.Round1Package, len(participants)-1)

	for _, peer := range participants {
		if peer.id != p.id {
			r[peer.id] = peer.round1
		}
	}

	return r
}

// receivedRound2 returns the round 2 packages sent to p, keyed by sender.
func receivedRound2(p *participant, participants []*participant) map[frost.Identifier]*dkg.Round2Package {
	r := make(map[frost.Identifier]*dkg.Round2Package, len(participants)-1)

	for _, peer := range participants {
		if peer.id != p.id {
			r[peer.id] = peer.round2[p.id]
		}
	}

	return r
}

func part2(t *testing.T, participants []*participant) {
	t.Helper()

	for _, p := range participants {
		secret, round2, err := dkg.Part2(p.secret1, receivedRound1(p, participants))
		if err != nil {
			t.Fatal(err)
		}

		if len(round2) != len(participants)-1 {
			t.Fatalf("expected %d round 2 packages, got %d", len(participants)-1, len(round2))
		}

		p.secret2, p.round2 = secret, round2
	}
}

func runDKG(
	t *testing.T,
	cs frost.Ciphersuite,
	minSigners, maxSigners uint16,
) (map[frost.Identifier]*frost.KeyPackage, *frost.PublicKeyPackage) {
	t.Helper()

	return part3(t, part1(t, cs, minSigners, maxSigners), minSigners)
}

// part3 runs part 2 and 3 for all participants, and checks they agree on the public key package.
func part3(
	t *testing.T,
	participants []*participant,
	minSigners uint16,
) (map[frost.Identifier]*frost.KeyPackage, *frost.PublicKeyPackage) {
	t.Helper()

	part2(t, participants)

	keyPackages := make(map[frost.Identifier]*frost.KeyPackage, len(participants))
	var publicKeys *frost.PublicKeyPackage

	for _, p := range participants {
		kp, pkp, err := dkg.Part3(p.secret2, receivedRound1(p, participants), receivedRound2(p, participants))
		if err != nil {
			t.Fatal(err)
		}

		if publicKeys != nil && !bytes.Equal(publicKeys.Encode(), pkp.Encode()) {
			t.Fatal("participants disagree on the public key package")
		}

		if kp.MinSigners != minSigners || kp.Identifier != p.id {
			t.Fatal("unexpected key package")
		}

		keyPackages[p.id] = kp
		publicKeys = pkp
	}

	return keyPackages, publicKeys
}

func sign(
	t *testing.T,
	message []byte,
	keyPackages map[frost.Identifier]*frost.KeyPackage,
	publicKeys *frost.PublicKeyPackage,
	signers []frost.Identifier,
) *frost.Signature {
	t.Helper()

	cs := publicKeys.Ciphersuite
	nonces := make(map[frost.Identifier]*frost.SigningNonces, len(signers))
	commitments := make([]*frost.SigningCommitments, 0, len(signers))

	for _, id := range signers {
		n, com, err := frost.Commit(keyPackages[id])
		if err != nil {
			t.Fatal(err)
		}

		nonces[id] = n
		commitments = append(commitments, com)
	}

	sp, err := frost.NewSigningPackage(cs, message, commitments)
	if err != nil {
		t.Fatal(err)
	}

	var randomizer *frost.Randomizer
	if cs.SigningMode() == frost.RandomizedSigning {
		if randomizer, err = frost.RandomizerFromSigningPackage(publicKeys, sp); err != nil {
			t.Fatal(err)
		}
	}

	shares := make([]*frost.SignatureShare, 0, len(signers))

	for _, id := range signers {
		share, err := frost.Sign(sp, nonces[id], keyPackages[id], randomizer)
		if err != nil {
			t.Fatal(err)
		}

		shares = append(shares, share)
	}

	signature, err := frost.Aggregate(sp, shares, publicKeys, randomizer)
	if err != nil {
		t.Fatal(err)
	}

	if err = frost.VerifySignature(message, signature, publicKeys, randomizer); err != nil {
		t.Fatal(err)
	}

	return signature
}

func TestDKG(t *testing.T) {
	testAll(t, func(t *testing.T, cs frost.Ciphersuite) {
		keyPackages, publicKeys := runDKG(t, cs, 3, 5)

		ids := publicKeys.Identifiers()
		if len(ids) != 5 {
			t.Fatalf("expected 5 verifying shares, got %d", len(ids))
		}

		sign(t, []byte("message"), keyPackages, publicKeys, ids[:3])
		sign(t, []byte("message"), keyPackages, publicKeys, ids[2:])
	})
}

func TestDKG_CustomIdentifiers(t *testing.T) {
	testAll(t, func(t *testing.T, cs frost.Ciphersuite) {
		custom := make([]frost.Identifier, 0, 3)

		for _, n := range []uint16{256, 3, 2} {
			id, err := cs.IdentifierFromUint16(n)
			if err != nil {
				t.Fatal(err)
			}

			custom = append(custom, id)
		}

		derived := make([]frost.Identifier, 0, 4)

		for _, seed := range []string{"alice", "bob", "carol", "dave"} {
			id, err := cs.DeriveIdentifier([]byte(seed))
			if err != nil {
				t.Fatal(err)
			}

			derived = append(derived, id)
		}

		for _, ids := range [][]frost.Identifier{custom, derived} {
			keyPackages, publicKeys := part3(t, part1WithIdentifiers(t, cs, 2, ids), 2)

			sign(t, []byte("message"), keyPackages, publicKeys, ids)
			sign(t, []byte("message"), keyPackages, publicKeys, []frost.Identifier{ids[2], ids[0]})

			// A signer decoding the public key package on its own gets the same one.
			encoded, err := json.Marshal(publicKeys)
			if err != nil {
				t.Fatal(err)
			}

			decoded := new(frost.PublicKeyPackage)
			if err = json.Unmarshal(encoded, decoded); err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(decoded.Encode(), publicKeys.Encode()) {
				t.Fatal("unexpected public key package")
			}
		}
	})
}

func TestDKG_GroupSecret(t *testing.T) {
	testAll(t, func(t *testing.T, cs frost.Ciphersuite) {
		keyPackages, publicKeys := runDKG(t, cs, 2, 3)

		kps := make([]*frost.KeyPackage, 0, len(keyPackages))
		for _, id := range publicKeys.Identifiers()[1:] {
			kps = append(kps, keyPackages[id])
		}

		secret, err := debug.RecoverGroupSecret(kps)
		if err != nil {
			t.Fatal(err)
		}

		if debug.PublicKeyFromSecret(cs, secret).Equal(publicKeys.VerifyingKey) != 1 {
			t.Fatal("the recovered secret does not match the group verifying key")
		}

		// The group secret signs like the group, in the standard signing mode.
		if cs.SigningMode() == frost.StandardSigning {
			sig, err := cs.SignWithKey([]byte("message"), secret)
			if err != nil {
				t.Fatal(err)
			}

			if err = frost.VerifySignature([]byte("message"), sig, publicKeys, nil); err != nil {
				t.Fatal(err)
			}
		}
	})
}

func TestDKG_InvalidProofOfKnowledge(t *testing.T) {
	testAll(t, func(t *testing.T, cs frost.Ciphersuite) {
		participants := part1(t, cs, 2, 3)
		cheater := participants[1]

		// A valid proof from another participant does not prove knowledge of the cheater's secret.
		cheater.round1.ProofOfKnowledge = participants[2].round1.ProofOfKnowledge

		_, _, err := dkg.Part2(participants[0].secret1, receivedRound1(participants[0], participants))
		expectCulprit(t, err, frost.ErrInvalidProofOfKnowledge, cheater.id)

		if participants[0].secret1.Consumed() {
			t.Fatal("a failed part 2 must not consume the secret package")
		}
	})
}

func TestDKG_InvalidCommitment(t *testing.T) {
	testAll(t, func(t *testing.T, cs frost.Ciphersuite) {
		participants := part1(t, cs, 2, 3)
		cheater := participants[2]
		cheater.round1.Commitment = cheater.round1.Commitment[:1]

		_, _, err := dkg.Part2(participants[0].secret1, receivedRound1(participants[0], participants))
		expectCulprit(t, err, frost.ErrDKGPart2IncorrectNumberOfCommitments, cheater.id)

		cheater.round1.Commitment = append(cheater.round1.Commitment, cs.Group().NewElement().Identity())

		_, _, err = dkg.Part2(participants[0].secret1, receivedRound1(participants[0], participants))
		expectCulprit(t, err, frost.ErrInvalidCoefficients, cheater.id)
	})
}

func TestDKG_Part3_InvalidRound1Package(t *testing.T) {
	testAll(t, func(t *testing.T, cs frost.Ciphersuite) {
		g := cs.Group()

		for name, tamper := range map[string]func(frost.VerifiableCommitment) frost.VerifiableCommitment{
			"nil element": func(c frost.VerifiableCommitment) frost.VerifiableCommitment {
				return frost.VerifiableCommitment{c[0], nil}
			},
			"identity element": func(c frost.VerifiableCommitment) frost.VerifiableCommitment {
				return frost.VerifiableCommitment{c[0], g.NewElement().Identity()}
			},
			"short commitment": func(c frost.VerifiableCommitment) frost.VerifiableCommitment {
				return c[:1]
			},
			"nil commitment": func(frost.VerifiableCommitment) frost.VerifiableCommitment {
				return nil
			},
		} {
			t.Run(name, func(t *testing.T) {
				participants := part1(t, cs, 2, 3)
				part2(t, participants)

				victim, cheater := participants[0], participants[2]
				round1 := receivedRound1(victim, participants)
				round1[cheater.id] = &dkg.Round1Package{
					Commitment:       tamper(cheater.round1.Commitment),
					ProofOfKnowledge: cheater.round1.ProofOfKnowledge,
					Ciphersuite:      cs,
				}

				_, _, err := dkg.Part3(victim.secret2, round1, receivedRound2(victim, participants))
				expectCulprit(t, err, frost.ErrDKGPart3IncorrectRound1Packages, cheater.id)

				if victim.secret2.Consumed() {
					t.Fatal("a failed part 3 must not consume the secret package")
				}

				round1[cheater.id] = nil
				_, _, err = dkg.Part3(victim.secret2, round1, receivedRound2(victim, participants))
				expectCulprit(t, err, frost.ErrDKGPart3IncorrectRound1Packages, cheater.id)
			})
		}
	})
}

func TestDKG_InvalidSecretShare(t *testing.T) {
	testAll(t, func(t *testing.T, cs frost.Ciphersuite) {
		participants := part1(t, cs, 2, 3)
		part2(t, participants)

		victim, cheater := participants[0], participants[1]
		cheater.round2[victim.id].SigningShare.Add(cs.Group().NewScalar().One())

		_, _, err := dkg.Part3(victim.secret2, receivedRound1(victim, participants),
			receivedRound2(victim, participants))
		expectCulprit(t, err, frost.ErrInvalidSecretShare, cheater.id)

		if victim.secret2.Consumed() {
			t.Fatal("a failed part 3 must not consume the secret package")
		}
	})
}

func TestDKG_Consumed(t *testing.T) {
	testAll(t, func(t *testing.T, cs frost.Ciphersuite) {
		participants := part1(t, cs, 2, 3)
		part2(t, participants)

		p := participants[0]
		if !p.secret1.Consumed() {
			t.Fatal("expected the round 1 secret package to be consumed")
		}

		if err := expectErrorIs(frost.ErrPackageConsumed, func() error {
			_, _, err := dkg.Part2(p.secret1, receivedRound1(p, participants))
			return err
		}); err != nil {
			t.Fatal(err)
		}

		if _, err := p.secret1.Encode(); !errors.Is(err, frost.ErrPackageConsumed) {
			t.Fatalf("expected %q, got %q", frost.ErrPackageConsumed, err)
		}

		round1, round2 := receivedRound1(p, participants), receivedRound2(p, participants)
		if _, _, err := dkg.Part3(p.secret2, round1, round2); err != nil {
			t.Fatal(err)
		}

		if err := expectErrorIs(frost.ErrPackageConsumed, func() error {
			_, _, err := dkg.Part3(p.secret2, round1, round2)
			return err
		}); err != nil {
			t.Fatal(err)
		}

		if err := expectErrorIs(frost.ErrPackageConsumed, func() error {
			_, _, err := dkg.Part2(nil, round1)
			return err
		}); err != nil {
			t.Fatal(err)
		}
	})
}

func TestDKG_Part1_Errors(t *testing.T) {
	cs := frost.Ristretto255
	id, err := cs.IdentifierFromUint16(1)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		expectedError          error
		name                   string
		id                     frost.Identifier
		minSigners, maxSigners uint16
	}{
		{name: "min signers too low", id: id, minSigners: 1, maxSigners: 3, expectedError: frost.ErrInvalidMinSigners},
		{name: "max signers too low", id: id, minSigners: 2, maxSigners: 1, expectedError: frost.ErrInvalidMaxSigners},
		{name: "min above max", id: id, minSigners: 4, maxSigners: 3, expectedError: frost.ErrInvalidMinSigners},
		{name: "zero identifier", minSigners: 2, maxSigners: 3, expectedError: frost.ErrMalformedIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := expectErrorIs(tt.expectedError, func() error {
				_, _, err := dkg.Part1(cs, tt.id, tt.maxSigners, tt.minSigners)
				return err
			}); err != nil {
				t.Fatal(err)
			}
		})
	}

	other, err := frost.P256.IdentifierFromUint16(1)
	if err != nil {
		t.Fatal(err)
	}

	if err = expectErrorIs(frost.ErrMalformedIdentifier, func() error {
		_, _, err := dkg.Part1(cs, other, 3, 2)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	if err = expectErrorIs(frost.ErrInvalidCiphersuite, func() error {
		_, _, err := dkg.Part1(0, id, 3, 2)
		return err
	}); err != nil {
		t.Fatal(err)
	}
}

func TestDKG_WrongNumberOfPackages(t *testing.T) {
	cs := frost.Ed25519
	participants := part1(t, cs, 2, 3)
	p := participants[0]

	// Missing a package.
	round1 := receivedRound1(p, participants)
	delete(round1, participants[2].id)

	if err := expectErrorIs(frost.ErrDKGPart2IncorrectNumberOfPackages, func() error {
		_, _, err := dkg.Part2(p.secret1, round1)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	// Own package in place of a peer's.
	round1 = receivedRound1(p, participants)
	delete(round1, participants[2].id)
	round1[p.id] = p.round1

	if err := expectErrorIs(frost.ErrDKGPart2IncorrectNumberOfPackages, func() error {
		_, _, err := dkg.Part2(p.secret1, round1)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	part2(t, participants)

	round1 = receivedRound1(p, participants)
	round2 := receivedRound2(p, participants)
	delete(round2, participants[1].id)

	if err := expectErrorIs(frost.ErrDKGPart3IncorrectNumberOfPackages, func() error {
		_, _, err := dkg.Part3(p.secret2, round1, round2)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	// Round 2 packages from someone who did not send a round 1 package.
	outsider, err := cs.IdentifierFromUint16(4)
	if err != nil {
		t.Fatal(err)
	}

	round2[outsider] = receivedRound2(p, participants)[participants[1].id]

	_, _, err = dkg.Part3(p.secret2, round1, round2)
	expectCulprit(t, err, frost.ErrDKGPart3PackageSendersMismatch, participants[1].id)

	delete(round1, participants[1].id)

	if err = expectErrorIs(frost.ErrDKGPart3IncorrectNumberOfPackages, func() error {
		_, _, err := dkg.Part3(p.secret2, round1, receivedRound2(p, participants))
		return err
	}); err != nil {
		t.Fatal(err)
	}
}

func TestEncoding(t *testing.T) {
	testAll(t, func(t *testing.T, cs frost.Ciphersuite) {
		participants := part1(t, cs, 2, 3)

		// Every participant restores its secret package from its encoding before each part.
		for _, p := range participants {
			encoded, err := p.secret1.Encode()
			if err != nil {
				t.Fatal(err)
			}

			p.secret1 = new(dkg.Round1SecretPackage)
			if err = p.secret1.Decode(encoded); err != nil {
				t.Fatal(err)
			}

			r1 := new(dkg.Round1Package)
			if err = r1.Decode(p.round1.Encode()); err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(r1.Encode(), p.round1.Encode()) {
				t.Fatal("round 1 package re-encoding differs")
			}

			p.round1 = r1
		}

		part2(t, participants)

		for _, p := range participants {
			j, err := json.Marshal(p.secret2)
			if err != nil {
				t.Fatal(err)
			}

			p.secret2 = new(dkg.Round2SecretPackage)
			if err = json.Unmarshal(j, p.secret2); err != nil {
				t.Fatal(err)
			}

			for id, r2 := range p.round2 {
				decoded := new(dkg.Round2Package)
				if err = decoded.Decode(r2.Encode()); err != nil {
					t.Fatal(err)
				}

				p.round2[id] = decoded
			}
		}

		for _, p := range participants {
			if _, _, err := dkg.Part3(p.secret2, receivedRound1(p, participants),
				receivedRound2(p, participants)); err != nil {
				t.Fatal(err)
			}
		}
	})
}

func TestJSON(t *testing.T) {
	testAll(t, func(t *testing.T, cs frost.Ciphersuite) {
		participants := part1(t, cs, 2, 3)
		p := participants[0]

		j, err := json.Marshal(p.round1)
		if err != nil {
			t.Fatal(err)
		}

		r1 := new(dkg.Round1Package)
		if err = json.Unmarshal(j, r1); err != nil {
			t.Fatal(err)
		}

		if !bytes.Equal(r1.Encode(), p.round1.Encode()) {
			t.Fatal("round 1 package JSON round trip differs")
		}

		if j, err = json.Marshal(p.secret1); err != nil {
			t.Fatal(err)
		}

		s1 := new(dkg.Round1SecretPackage)
		if err = json.Unmarshal(j, s1); err != nil {
			t.Fatal(err)
		}

		part2(t, participants)

		for _, r2 := range p.round2 {
			if j, err = json.Marshal(r2); err != nil {
				t.Fatal(err)
			}

			decoded := new(dkg.Round2Package)
			if err = json.Unmarshal(j, decoded); err != nil {
				t.Fatal(err)
			}

			if !bytes.Equal(decoded.Encode(), r2.Encode()) {
				t.Fatal("round 2 package JSON round trip differs")
			}
		}

		// The decoded copy of the consumed secret package is still usable.
		if _, _, err = dkg.Part2(s1, receivedRound1(p, participants)); err != nil {
			t.Fatal(err)
		}
	})
}

func TestEncoding_Errors(t *testing.T) {
	testAll(t, func(t *testing.T, cs frost.Ciphersuite) {
		participants := part1(t, cs, 2, 3)
		p := participants[0]

		encoded, err := p.secret1.Encode()
		if err != nil {
			t.Fatal(err)
		}

		// A coefficient that does not match its commitment.
		tampered := bytes.Clone(encoded)
		offset := 1 + cs.ScalarLength() + 6
		copy(tampered[offset:], tampered[offset+cs.ScalarLength():offset+2*cs.ScalarLength()])

		if err = expectErrorIs(frost.ErrInvalidCoefficients, func() error {
			return new(dkg.Round1SecretPackage).Decode(tampered)
		}); err != nil {
			t.Fatal(err)
		}

		round1 := p.round1.Encode()

		for name, data := range map[string][]byte{
			"empty":     nil,
			"truncated": round1[:len(round1)-1],
			"trailing":  append(bytes.Clone(round1), 1),
			"suite":     append([]byte{0}, round1[1:]...),
		} {
			if err = new(dkg.Round1Package).Decode(data); err == nil {
				t.Fatalf("%s: expected an error", name)
			}
		}

		if err = new(dkg.Round2Package).Decode([]byte{byte(cs)}); err == nil {
			t.Fatal("expected an error")
		}
	})
}
