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
	"sync"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost/internal"
)

// SigningNonces holds a participant's secret hiding and binding nonces and their commitments. Nonces are agnostic of
// the upcoming message to sign, and can therefore be pre-computed and the commitments shared before the signing
// session. They must be kept secret, and must only ever be used for a single signature share: Sign consumes them.
//
// SigningNonces are safe for concurrent use: of concurrent calls to Sign with the same nonces, at most one produces a
// signature share. A SigningNonces must not be copied after first use.
type SigningNonces struct {
	hiding      *group.Scalar
	binding     *group.Scalar
	commitments *SigningCommitments
	mu          sync.Mutex
	consumed    bool
}

// Commitments returns a copy of the commitments to the nonces, as sent to the coordinator.
func (n *SigningNonces) Commitments() *SigningCommitments {
	return n.commitments.Copy()
}

// Ciphersuite returns the ciphersuite of the nonces.
func (n *SigningNonces) Ciphersuite() Ciphersuite {
	return n.commitments.Ciphersuite
}

// Consumed returns whether the nonces were already used to produce a signature share.
func (n *SigningNonces) Consumed() bool {
	defer n.acquire()()
	return n.consumed
}

// Zero zeroes-out the nonces and marks them as consumed.
func (n *SigningNonces) Zero() {
	defer n.acquire()()
	n.zero()
}

// acquire locks n if it is not nil, and returns the function releasing it.
func (n *SigningNonces) acquire() func() {
	if n == nil {
		return func() {}
	}

	n.mu.Lock()

	return n.mu.Unlock
}

func (n *SigningNonces) zero() {
	if n.hiding != nil {
		n.hiding.Zero()
	}

	if n.binding != nil {
		n.binding.Zero()
	}

	n.consumed = true
}

func (n *SigningNonces) check() error {
	switch {
	case n == nil || n.commitments == nil:
		return fmt.Errorf("%w: nil nonces", ErrNonceSerialization)
	case n.consumed:
		return ErrNonceAlreadyUsed
	case n.hiding == nil || n.binding == nil || n.hiding.IsZero() || n.binding.IsZero():
		return fmt.Errorf("%w: nonces are missing or zero", ErrNonceSerialization)
	}

	return nil
}

func generateNonce(cs *internal.Ciphersuite, secret *group.Scalar) *group.Scalar {
	random := internal.RandomBytes(32)
	return cs.H3(internal.Concatenate(random, secret.Encode()))
}

// Commit generates a participant's nonces and commitment, to be used in the second FROST round. The nonces must be
// kept secret, and the commitment sent to the coordinator.
func Commit(kp *KeyPackage) (*SigningNonces, *SigningCommitments, error) {
	if err := kp.Validate(); err != nil {
		return nil, nil, err
	}

	cs := kp.Ciphersuite.suite()
	hn := generateNonce(cs, kp.SigningShare)
	bn := generateNonce(cs, kp.SigningShare)
	com := &SigningCommitments{
		Identifier:  kp.Identifier,
		Hiding:      cs.Group.Base().Multiply(hn),
		Binding:     cs.Group.Base().Multiply(bn),
		Ciphersuite: kp.Ciphersuite,
	}

	nonces := &SigningNonces{
		hiding:      hn,
		binding:     bn,
		commitments: com,
	}

	return nonces, com.Copy(), nil
}

// Encode serializes the nonces and their commitments, so they can be stored privately between the two rounds.
// Consumed nonces cannot be encoded.
func (n *SigningNonces) Encode() ([]byte, error) {
	defer n.acquire()()

	if err := n.check(); err != nil {
		return nil, err
	}

	cs := n.Ciphersuite()

	return internal.NewEncoder(byte(cs), 3*cs.ScalarLength()+2*cs.ElementLength()).
		Scalar(n.hiding).
		Scalar(n.binding).
		Bytes(n.commitments.Identifier.Encode()).
		Element(n.commitments.Hiding).
		Element(n.commitments.Binding).
		Encoded(), nil
}

// Decode attempts to deserialize the encoded nonces, and checks them against their commitments.
func (n *SigningNonces) Decode(data []byte) error {
	d, err := internal.NewDecoder(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNonceSerialization, err)
	}

	cs := Ciphersuite(d.Ciphersuite().ID)
	hn := d.Scalar("hiding nonce")
	bn := d.Scalar("binding nonce")
	com := readCommitment(d, cs)

	if err = d.Done(); err != nil {
		return fmt.Errorf("%w: %w", ErrNonceSerialization, err)
	}

	if err = com.Validate(cs); err != nil {
		return fmt.Errorf("%w: %w", ErrNonceSerialization, err)
	}

	nonces := &SigningNonces{hiding: hn, binding: bn, commitments: com}
	if err = nonces.check(); err != nil {
		return err
	}

	base := cs.Group().Base()
	if base.Copy().Multiply(hn).Equal(com.Hiding) != 1 || base.Multiply(bn).Equal(com.Binding) != 1 {
		return fmt.Errorf("%w: nonces do not match their commitments", ErrNonceSerialization)
	}

	defer n.acquire()()
	n.hiding, n.binding, n.commitments, n.consumed = hn, bn, com, false

	return nil
}
