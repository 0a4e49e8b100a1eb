// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package internal provides values, structures, and functions to operate FROST that are not part of the public API.
package internal

import (
	cryptorand "crypto/rand"
	"fmt"
)

// Concatenate returns the concatenation of all bytes composing the input elements.
func Concatenate(input ...[]byte) []byte {
	if len(input) == 0 {
		return []byte{}
	}

	if len(input) == 1 {
		if len(input[0]) == 0 {
			return nil
		}

		// shallow clone
		return append(input[0][:0:0], input[0]...)
	}

	length := 0
	for _, in := range input {
		length += len(in)
	}

	buf := make([]byte, 0, length)

	for _, in := range input {
		buf = append(buf, in...)
	}

	return buf
}

// RandomBytes returns length bytes from crypto/rand, and panics if it fails.
func RandomBytes(length int) []byte {
	r := make([]byte, length)
	if _, err := cryptorand.Read(r); err != nil {
		panic(fmt.Errorf("reading random bytes: %w", err))
	}

	return r
}
