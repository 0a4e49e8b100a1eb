// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package cli

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/zecdev/frost"
)

const (
	publicPerm = 0o644
	secretPerm = 0o600
	dirPerm    = 0o700

	publicFile = "public.json"
)

var errMessage = errors.New("exactly one of --message and --message-hex must be set")

// writeJSON writes v to path, creating the parent directories. Secret files are only readable by their owner.
func writeJSON(path string, v any, secret bool) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	if err = os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}

	perm := os.FileMode(publicPerm)
	if secret {
		perm = secretPerm
	}

	return os.WriteFile(path, append(data, '\n'), perm)
}

func readJSON(path string, v json.Unmarshaler) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err = v.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	return nil
}

func readRandomizer(path string, cs frost.Ciphersuite) (*frost.Randomizer, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r, err := frost.RandomizerFromJSON(cs, data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return r, nil
}

// parseIdentifier accepts a participant index, e.g. "1", or the hexadecimal encoding of an identifier.
func parseIdentifier(cs frost.Ciphersuite, s string) (frost.Identifier, error) {
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		return cs.IdentifierFromUint16(uint16(n))
	}

	return cs.IdentifierFromHex(s)
}

func parseIdentifiers(cs frost.Ciphersuite, list []string) ([]frost.Identifier, error) {
	ids := make([]frost.Identifier, len(list))

	for i, s := range list {
		id, err := parseIdentifier(cs, s)
		if err != nil {
			return nil, fmt.Errorf("identifier %q: %w", s, err)
		}

		ids[i] = id
	}

	return ids, nil
}

func parseMessage(message, messageHex string) ([]byte, error) {
	switch {
	case message != "" && messageHex != "":
		return nil, errMessage
	case messageHex != "":
		return hex.DecodeString(messageHex)
	case message != "":
		return []byte(message), nil
	default:
		return nil, errMessage
	}
}

func shareFile(dir string, id frost.Identifier) string {
	return filepath.Join(dir, "share-"+id.String()+".json")
}

func keyFile(dir string, id frost.Identifier) string {
	return filepath.Join(dir, "key-"+id.String()+".json")
}

func noncesFile(dir string, id frost.Identifier) string {
	return filepath.Join(dir, "nonces-"+id.String()+".json")
}

func commitmentsFile(dir string, id frost.Identifier) string {
	return filepath.Join(dir, "commitments-"+id.String()+".json")
}
