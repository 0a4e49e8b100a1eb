// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/zecdev/frost/internal/shamir"
)

// Lambda returns the interpolating value of the participant id among the participants.
func Lambda(g group.Group, id *group.Scalar, participants []*group.Scalar) (*group.Scalar, error) {
	l, err := shamir.DeriveInterpolatingValue(g, id, participants)
	if err != nil {
		return nil, fmt.Errorf("anomaly in participant identifiers: %w", err)
	}

	return l, nil
}

// ChallengeFactor returns lambda_i * c, the factor applied to a participant's key share in its signature share.
func (c *Ciphersuite) ChallengeFactor(
	id *group.Scalar,
	commitments CommitmentList,
	challenge *group.Scalar,
) (*group.Scalar, error) {
	lambda, err := Lambda(c.Group, id, commitments.Participants())
	if err != nil {
		return nil, err
	}

	return lambda.Multiply(challenge), nil
}
