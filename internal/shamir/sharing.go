// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package shamir

import (
	"errors"

	group "github.com/bytemare/crypto"
)

var errTooFewShares = errors.New("not enough shares to recover the secret")

// Share is the evaluation of a secret polynomial at a participant's identifier.
type Share struct {
	ID     *group.Scalar
	Secret *group.Scalar
}

// Shard evaluates the polynomial at each identifier and returns the resulting shares, in the same order.
func Shard(g group.Group, p Polynomial, ids []*group.Scalar) []*Share {
	shares := make([]*Share, len(ids))
	for i, id := range ids {
		shares[i] = &Share{
			ID:     id.Copy(),
			Secret: p.Evaluate(g, id),
		}
	}

	return shares
}

// Combine recovers the constant term of the polynomial from at least min shares.
func Combine(g group.Group, shares []*Share, min int) (*group.Scalar, error) {
	if len(shares) < min {
		return nil, errTooFewShares
	}

	return PolynomialInterpolateConstant(g, shares)
}
