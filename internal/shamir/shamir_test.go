// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package shamir_test

import (
	"errors"
	"testing"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost/internal/shamir"
)

var groups = map[string]group.Group{
	"ristretto255": group.Ristretto255Sha512,
	"edwards25519": group.Edwards25519Sha512,
	"P-256":        group.P256Sha256,
	"secp256k1":    group.Secp256k1,
}

func testAll(t *testing.T, f func(*testing.T, group.Group)) {
	for name, g := range groups {
		t.Run(name, func(t *testing.T) {
			f(t, g)
		})
	}
}

func scalars(g group.Group, values ...uint64) []*group.Scalar {
	s := make([]*group.Scalar, len(values))
	for i, v := range values {
		s[i] = g.NewScalar().SetUInt64(v)
	}

	return s
}

func TestNewPolynomial(t *testing.T) {
	testAll(t, func(t *testing.T, g group.Group) {
		secret := g.NewScalar().Random()
		p := shamir.NewPolynomial(g, secret, 3)

		if len(p) != 3 {
			t.Fatalf("expected 3 coefficients, got %d", len(p))
		}

		if p[0].Equal(secret) != 1 {
			t.Fatal("the constant term must be the secret")
		}

		if p[0] == secret {
			t.Fatal("the constant term must be a copy of the secret")
		}

		if p.Evaluate(g, g.NewScalar().Zero()).Equal(secret) != 1 {
			t.Fatal("evaluating at zero must return the secret")
		}

		random := shamir.NewPolynomial(g, nil, 2)
		if random[0].IsZero() {
			t.Fatal("unexpected zero constant term")
		}

		p.Zero()

		for _, c := range p {
			if !c.IsZero() {
				t.Fatal("expected zeroed coefficients")
			}
		}
	})
}

func TestEvaluate(t *testing.T) {
	testAll(t, func(t *testing.T, g group.Group) {
		// 5 + 3x + 2x^2
		p := shamir.Polynomial(scalars(g, 5, 3, 2))

		for x, expected := range map[uint64]uint64{0: 5, 1: 10, 2: 19, 10: 235} {
			if p.Evaluate(g, g.NewScalar().SetUInt64(x)).Equal(g.NewScalar().SetUInt64(expected)) != 1 {
				t.Fatalf("unexpected evaluation at %d", x)
			}
		}
	})
}

func TestShardAndCombine(t *testing.T) {
	testAll(t, func(t *testing.T, g group.Group) {
		secret := g.NewScalar().Random()
		p := shamir.NewPolynomial(g, secret, 3)
		shares := shamir.Shard(g, p, scalars(g, 1, 2, 3, 4, 5))

		for _, subset := range [][]*shamir.Share{
			shares[:3],
			shares[2:],
			{shares[4], shares[0], shares[2]},
			shares,
		} {
			recovered, err := shamir.Combine(g, subset, 3)
			if err != nil {
				t.Fatal(err)
			}

			if recovered.Equal(secret) != 1 {
				t.Fatal("recovered secret differs")
			}
		}

		if _, err := shamir.Combine(g, shares[:2], 3); err == nil {
			t.Fatal("expected an error with too few shares")
		}

		// Below the threshold, interpolation succeeds but yields another value.
		wrong, err := shamir.PolynomialInterpolateConstant(g, shares[:2])
		if err != nil {
			t.Fatal(err)
		}

		if wrong.Equal(secret) == 1 {
			t.Fatal("unexpected recovery below the threshold")
		}
	})
}

func TestDeriveInterpolatingValue(t *testing.T) {
	testAll(t, func(t *testing.T, g group.Group) {
		points := shamir.Polynomial(scalars(g, 1, 2, 3))

		// The Lagrange coefficients over any point set sum to one.
		sum := g.NewScalar().Zero()
		for _, x := range points {
			l, err := shamir.DeriveInterpolatingValue(g, x, points)
			if err != nil {
				t.Fatal(err)
			}

			sum.Add(l)
		}

		if sum.Equal(g.NewScalar().One()) != 1 {
			t.Fatal("expected the Lagrange coefficients to sum to one")
		}

		// For {1, 2, 3}, the coefficient of 1 is 2*3 / ((2-1)(3-1)) = 3.
		l, err := shamir.DeriveInterpolatingValue(g, points[0], points)
		if err != nil {
			t.Fatal(err)
		}

		if l.Equal(g.NewScalar().SetUInt64(3)) != 1 {
			t.Fatal("unexpected Lagrange coefficient")
		}
	})
}

func TestDeriveInterpolatingValue_Errors(t *testing.T) {
	g := group.Ristretto255Sha512
	zero := g.NewScalar().Zero()

	tests := []struct {
		expectedError error
		x             *group.Scalar
		name          string
		points        shamir.Polynomial
	}{
		{name: "zero x", x: zero, points: scalars(g, 1, 2), expectedError: shamir.ErrZeroIdentifier},
		{
			name:          "zero point",
			x:             g.NewScalar().One(),
			points:        scalars(g, 1, 0),
			expectedError: shamir.ErrZeroIdentifier,
		},
		{
			name:          "not found",
			x:             g.NewScalar().SetUInt64(3),
			points:        scalars(g, 1, 2),
			expectedError: shamir.ErrIdentifierNotFound,
		},
		{
			name:          "duplicates",
			x:             g.NewScalar().One(),
			points:        scalars(g, 1, 2, 2),
			expectedError: shamir.ErrDuplicateIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := shamir.DeriveInterpolatingValue(g, tt.x, tt.points); !errors.Is(err, tt.expectedError) {
				t.Fatalf("expected %q, got %q", tt.expectedError, err)
			}
		})
	}
}
