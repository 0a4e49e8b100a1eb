// SPDX-License-Identifier: MIT
//
// Copyright (C) 2023 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	group "github.com/bytemare/crypto"
)

// BindingFactors maps the encoded identifier of a participant to its binding factor.
type BindingFactors map[string]*group.Scalar

// Get returns the binding factor of the participant with identifier id, or nil.
func (b BindingFactors) Get(id *group.Scalar) *group.Scalar {
	return b[string(id.Encode())]
}

// BindingFactors computes the binding factors of all participants in the sorted commitment list, under the public
// key pk and for the message msg.
func (c *Ciphersuite) BindingFactors(pk *group.Element, list CommitmentList, msg []byte) BindingFactors {
	encodedCommitHash := c.H5(list.Encode(c))
	h := c.H4(msg)
	rhoInputPrefix := Concatenate(pk.Encode(), h, encodedCommitHash)
	bindingFactors := make(BindingFactors, len(list))

	for _, com := range list {
		id := com.ID.Encode()
		bindingFactors[string(id)] = c.H1(Concatenate(rhoInputPrefix, id))
	}

	return bindingFactors
}
