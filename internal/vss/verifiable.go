// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package vss implements Feldman verifiable secret sharing commitments over a secret polynomial.
package vss

import (
	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost/internal/shamir"
)

// Commitment holds the commitments to the coefficients of a secret polynomial, constant term first.
type Commitment []*group.Element

// Commit returns the commitment to each coefficient of p.
func Commit(g group.Group, p shamir.Polynomial) Commitment {
	coms := make(Commitment, len(p))
	for i, coeff := range p {
		coms[i] = g.Base().Multiply(coeff)
	}

	return coms
}

// DerivePublicPoint returns the public point of the polynomial committed to in coms, evaluated at i.
func DerivePublicPoint(g group.Group, coms Commitment, i *group.Scalar) *group.Element {
	publicPoint := g.NewElement().Identity()
	one := g.NewScalar().One()

	j := g.NewScalar().Zero()
	for _, com := range coms {
		publicPoint.Add(com.Copy().Multiply(i.Copy().Pow(j)))
		j.Add(one)
	}

	return publicPoint
}

// Verify returns whether the secret share of identifier id is consistent with the commitment.
func Verify(g group.Group, id, secret *group.Scalar, coms Commitment) bool {
	ski := g.Base().Multiply(secret)
	prime := DerivePublicPoint(g, coms, id)

	return ski.Equal(prime) == 1
}

// Sum returns the coefficient-wise sum of the commitments, which is the commitment to the sum of their polynomials.
// All commitments must have the same length.
func Sum(g group.Group, commitments ...Commitment) Commitment {
	if len(commitments) == 0 {
		return nil
	}

	sum := make(Commitment, len(commitments[0]))
	for i := range sum {
		sum[i] = g.NewElement().Identity()
	}

	for _, com := range commitments {
		for i, c := range com {
			sum[i].Add(c)
		}
	}

	return sum
}
