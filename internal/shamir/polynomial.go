// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package shamir implements polynomial evaluation and interpolation over the scalar field, for Shamir secret sharing.
package shamir

import (
	"errors"

	group "github.com/bytemare/crypto"
)

var (
	// ErrZeroIdentifier indicates a zero scalar was used as an interpolation point.
	ErrZeroIdentifier = errors.New("identifier is zero")

	// ErrDuplicateIdentifier indicates an interpolation point appears more than once.
	ErrDuplicateIdentifier = errors.New("duplicated identifier")

	// ErrIdentifierNotFound indicates the point to interpolate is not among the provided points.
	ErrIdentifierNotFound = errors.New("identifier not found in the list of points")
)

// Polynomial over scalars, represented as a list of t coefficients, where t is the threshold.
// The constant term is in the first position and the highest degree coefficient is in the last position.
type Polynomial []*group.Scalar

// NewPolynomial returns a polynomial of threshold coefficients. The constant term is set to secret, or to a random
// scalar if secret is nil, and all other coefficients are random.
func NewPolynomial(g group.Group, secret *group.Scalar, threshold uint16) Polynomial {
	p := make(Polynomial, threshold)

	if secret == nil {
		p[0] = g.NewScalar().Random()
	} else {
		p[0] = secret.Copy()
	}

	for i := 1; i < int(threshold); i++ {
		p[i] = g.NewScalar().Random()
	}

	return p
}

func verifyInterpolatingInput(x *group.Scalar, p Polynomial) error {
	if x.IsZero() {
		return ErrZeroIdentifier
	}

	if p.HasZero() {
		return ErrZeroIdentifier
	}

	if !p.Has(x) {
		return ErrIdentifierNotFound
	}

	if p.HasDuplicates() {
		return ErrDuplicateIdentifier
	}

	return nil
}

// Has returns whether s is a coefficient of the polynomial.
func (p Polynomial) Has(s *group.Scalar) bool {
	for _, si := range p {
		if si.Equal(s) == 1 {
			return true
		}
	}

	return false
}

// HasZero returns whether one of the polynomials coefficients is 0.
func (p Polynomial) HasZero() bool {
	for _, xj := range p {
		if xj.IsZero() {
			return true
		}
	}

	return false
}

// HasDuplicates returns whether the polynomial has at least one coefficient that appears more than once.
func (p Polynomial) HasDuplicates() bool {
	visited := make(map[string]bool, len(p))

	for _, pi := range p {
		enc := string(pi.Encode())
		if visited[enc] {
			return true
		}

		visited[enc] = true
	}

	return false
}

// Evaluate evaluates the polynomial p at point x using Horner's method.
func (p Polynomial) Evaluate(g group.Group, x *group.Scalar) *group.Scalar {
	value := g.NewScalar().Zero()
	for i := len(p) - 1; i >= 0; i-- {
		value.Multiply(x)
		value.Add(p[i])
	}

	return value
}

// Zero sets all coefficients to zero.
func (p Polynomial) Zero() {
	for _, c := range p {
		c.Zero()
	}
}

// DeriveInterpolatingValue derives the Lagrange coefficient of xi over the set of points coeffs. xi, and none of the
// points must be non-zero scalars, and xi must be one of the points.
func DeriveInterpolatingValue(g group.Group, xi *group.Scalar, coeffs Polynomial) (*group.Scalar, error) {
	if err := verifyInterpolatingInput(xi, coeffs); err != nil {
		return nil, err
	}

	numerator := g.NewScalar().One()
	denominator := g.NewScalar().One()

	for _, coeff := range coeffs {
		if coeff.Equal(xi) == 1 {
			continue
		}

		numerator.Multiply(coeff)
		denominator.Multiply(coeff.Copy().Subtract(xi))
	}

	return numerator.Multiply(denominator.Invert()), nil
}

// PolynomialInterpolateConstant recovers the constant term of the interpolating polynomial defined by the set of
// shares.
func PolynomialInterpolateConstant(g group.Group, points []*Share) (*group.Scalar, error) {
	xCoords := make(Polynomial, 0, len(points))
	for _, p := range points {
		xCoords = append(xCoords, p.ID)
	}

	f0 := g.NewScalar().Zero()

	for _, p := range points {
		l, err := DeriveInterpolatingValue(g, p.ID, xCoords)
		if err != nil {
			return nil, err
		}

		f0.Add(p.Secret.Copy().Multiply(l))
	}

	return f0, nil
}
