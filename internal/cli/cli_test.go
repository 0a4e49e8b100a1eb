// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zecdev/frost"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := NewRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, logs, err := run(t, args...)
	require.NoError(t, err, "frostctl %s\n%s", strings.Join(args, " "), logs)

	return out
}

func identifier(t *testing.T, cs frost.Ciphersuite, n uint16) frost.Identifier {
	t.Helper()

	id, err := cs.IdentifierFromUint16(n)
	require.NoError(t, err)

	return id
}

// signingSession runs commit, signing-package, sign, aggregate and verify for the given signers, whose key packages
// are in dir.
func signingSession(t *testing.T, dir string, cs frost.Ciphersuite, randomized bool, signers ...uint16) {
	t.Helper()

	suite := "--ciphersuite=" + cs.String()
	commitments := make([]string, 0, len(signers))

	for _, n := range signers {
		id := identifier(t, cs, n)
		mustRun(t, "commit", suite, "--key", keyFile(dir, id), "--out", dir)
		commitments = append(commitments, "--commitment", commitmentsFile(dir, id))
	}

	sp := filepath.Join(dir, "signing-package.json")
	mustRun(t, append([]string{"signing-package", "--message", "i am a message", "--out", sp}, commitments...)...)

	var randomizer []string
	if randomized {
		r := filepath.Join(dir, "randomizer.json")
		mustRun(t, "randomizer", "--public", filepath.Join(dir, publicFile), "--signing-package", sp, "--out", r)
		randomizer = []string{"--randomizer", r}
	}

	shares := make([]string, 0, len(signers))

	for _, n := range signers {
		id := identifier(t, cs, n)
		share := filepath.Join(dir, "sigshare-"+id.String()+".json")
		mustRun(t, append([]string{
			"sign", "--signing-package", sp, "--nonces", noncesFile(dir, id), "--key", keyFile(dir, id),
			"--out", share,
		}, randomizer...)...)

		_, err := os.Stat(noncesFile(dir, id))
		assert.ErrorIs(t, err, os.ErrNotExist, "nonces must be deleted after signing")

		shares = append(shares, "--share", share)
	}

	sig := filepath.Join(dir, "signature.json")
	args := []string{"aggregate", "--signing-package", sp, "--public", filepath.Join(dir, publicFile), "--out", sig}
	mustRun(t, append(append(args, shares...), randomizer...)...)

	out := mustRun(t, append([]string{
		"verify", "--public", filepath.Join(dir, publicFile), "--message", "i am a message", "--signature", sig,
	}, randomizer...)...)
	assert.Equal(t, "valid\n", out)

	_, _, err := run(t, append([]string{
		"verify", "--public", filepath.Join(dir, publicFile), "--message", "i am not a message", "--signature", sig,
	}, randomizer...)...)
	require.ErrorIs(t, err, frost.ErrInvalidSignature)
}

func TestKeygenAndSign(t *testing.T) {
	for _, cs := range []frost.Ciphersuite{frost.Ed25519, frost.Secp256k1} {
		t.Run(cs.String(), func(t *testing.T) {
			dir := t.TempDir()

			mustRun(t, "keygen", "--ciphersuite", cs.String(), "--min", "2", "--max", "3", "--out", dir)

			for n := uint16(1); n <= 3; n++ {
				id := identifier(t, cs, n)
				require.FileExists(t, shareFile(dir, id))
				mustRun(t, "commit", "--share", shareFile(dir, id), "--out", dir)
				require.FileExists(t, keyFile(dir, id))
			}

			signingSession(t, dir, cs, false, 1, 3)
		})
	}
}

func TestKeygen_SplitSecret(t *testing.T) {
	dir := t.TempDir()
	secret := "7b1c33d3f5291d85de664833beb1ad469f7fb6025a0ec78b3a790c6e13a98304"

	mustRun(t, "keygen", "--secret-hex", secret, "--min", "2", "--max", "3", "--out", dir)

	data, err := os.ReadFile(filepath.Join(dir, publicFile))
	require.NoError(t, err)

	var public struct {
		VerifyingKey string `json:"verifying_key"`
	}
	require.NoError(t, json.Unmarshal(data, &public))
	assert.Len(t, public.VerifyingKey, 64)

	info, err := os.Stat(shareFile(dir, identifier(t, frost.Ed25519, 2)))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(secretPerm), info.Mode().Perm())
}

func TestKeygen_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, "keygen", "--min", "1", "--max", "3", "--out", dir)
	require.ErrorIs(t, err, frost.ErrInvalidMinSigners)

	_, _, err = run(t, "keygen", "--min", "2", "--max", "3", "--out", dir,
		"--secret-hex", "68656c6c6f49616d616e696e76616c6964736563726574313131313131313131")
	require.ErrorIs(t, err, frost.ErrMalformedSigningKey)

	_, _, err = run(t, "keygen", "--min", "2", "--max", "3", "--out", dir, "--identifier", "1,2")
	require.ErrorIs(t, err, frost.ErrInvalidMaxSigners)

	_, _, err = run(t, "keygen", "--ciphersuite", "ed448")
	require.ErrorIs(t, err, frost.ErrInvalidCiphersuite)
}

func TestKeygen_CustomIdentifiers(t *testing.T) {
	dir := t.TempDir()

	mustRun(t, "keygen", "--min", "2", "--max", "3", "--out", dir, "--identifier", "10", "--identifier", "20,30")

	for _, n := range []uint16{10, 20, 30} {
		id := identifier(t, frost.Ed25519, n)
		mustRun(t, "commit", "--share", shareFile(dir, id), "--out", dir)
	}

	signingSession(t, dir, frost.Ed25519, false, 20, 30)
}

func TestRandomizedSigning(t *testing.T) {
	dir := t.TempDir()
	cs := frost.Ristretto255Blake2b

	mustRun(t, "keygen", "--ciphersuite", "ristretto255-blake2b", "--min", "2", "--max", "3", "--out", dir)

	for n := uint16(1); n <= 3; n++ {
		mustRun(t, "commit", "--share", shareFile(dir, identifier(t, cs, n)), "--out", dir)
	}

	signingSession(t, dir, cs, true, 2, 3)
}

func TestSign_NonceReuse(t *testing.T) {
	dir := t.TempDir()
	cs := frost.Ristretto255

	mustRun(t, "keygen", "--ciphersuite", "ristretto255", "--out", dir)

	id1, id2 := identifier(t, cs, 1), identifier(t, cs, 2)
	mustRun(t, "commit", "--share", shareFile(dir, id1), "--out", dir)
	mustRun(t, "commit", "--share", shareFile(dir, id2), "--out", dir)

	sp := filepath.Join(dir, "sp.json")
	mustRun(t, "signing-package", "--message-hex", "deadbeef", "--out", sp,
		"--commitment", commitmentsFile(dir, id1), "--commitment", commitmentsFile(dir, id2))

	args := []string{
		"sign", "--signing-package", sp, "--nonces", noncesFile(dir, id1), "--key", keyFile(dir, id1),
		"--out", filepath.Join(dir, "share.json"),
	}
	mustRun(t, args...)

	_, _, err := run(t, args...)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestAggregate_Culprit(t *testing.T) {
	dir := t.TempDir()
	cs := frost.P256

	mustRun(t, "keygen", "--ciphersuite", "p256", "--out", dir)

	id1, id2 := identifier(t, cs, 1), identifier(t, cs, 2)
	for _, id := range []frost.Identifier{id1, id2} {
		mustRun(t, "commit", "--share", shareFile(dir, id), "--out", dir)
	}

	sp := filepath.Join(dir, "sp.json")
	mustRun(t, "signing-package", "--message", "i am a message", "--out", sp,
		"--commitment", commitmentsFile(dir, id1), "--commitment", commitmentsFile(dir, id2))

	share1, share2 := filepath.Join(dir, "s1.json"), filepath.Join(dir, "s2.json")
	mustRun(t, "sign", "--signing-package", sp, "--nonces", noncesFile(dir, id1), "--key", keyFile(dir, id1),
		"--out", share1)

	// Participant 2 signs another message.
	other := filepath.Join(dir, "other.json")
	mustRun(t, "signing-package", "--message", "i am another message", "--out", other,
		"--commitment", commitmentsFile(dir, id1), "--commitment", commitmentsFile(dir, id2))
	mustRun(t, "sign", "--signing-package", other, "--nonces", noncesFile(dir, id2), "--key", keyFile(dir, id2),
		"--out", share2)

	_, logs, err := run(t, "aggregate", "--signing-package", sp, "--public", filepath.Join(dir, publicFile),
		"--share", share1, "--share", share2, "--out", filepath.Join(dir, "sig.json"))
	require.ErrorIs(t, err, frost.ErrInvalidSignatureShare)

	culprit, ok := frost.Culprit(err)
	require.True(t, ok)
	assert.Equal(t, id2, culprit)
	assert.Contains(t, logs, id2.String())
}

func TestDKG(t *testing.T) {
	dir := t.TempDir()
	cs := frost.Ed25519
	dirFlag := "--dir=" + dir

	for _, part := range []string{"part1", "part2", "part3"} {
		for _, n := range []string{"1", "2", "3"} {
			args := []string{"dkg", part, dirFlag, "--identifier", n}
			if part == "part1" {
				args = append(args, "--min", "2", "--max", "3")
			}

			mustRun(t, args...)
		}
	}

	for n := uint16(1); n <= 3; n++ {
		id := identifier(t, cs, n)
		require.FileExists(t, keyFile(dir, id))
		assert.NoFileExists(t, dkgLayout(dir).secret(id, 1))
		assert.NoFileExists(t, dkgLayout(dir).secret(id, 2))
	}

	signingSession(t, dir, cs, false, 1, 2)
}

func TestDKG_MissingPackages(t *testing.T) {
	dir := t.TempDir()
	dirFlag := "--dir=" + dir

	mustRun(t, "dkg", "part1", dirFlag, "--identifier", "1", "--min", "2", "--max", "3")
	mustRun(t, "dkg", "part1", dirFlag, "--identifier", "2", "--min", "2", "--max", "3")

	_, _, err := run(t, "dkg", "part2", dirFlag, "--identifier", "1")
	require.ErrorIs(t, err, frost.ErrDKGPart2IncorrectNumberOfPackages)

	_, _, err = run(t, "dkg", "part1", dirFlag)
	require.Error(t, err)
}

func TestIdentifier(t *testing.T) {
	out := mustRun(t, "identifier", "index", "1")
	assert.Equal(t, identifier(t, frost.Ed25519, 1).String()+"\n", out)

	out = mustRun(t, "identifier", "derive", "alice@example.com", "--ciphersuite", "secp256k1")

	id, err := frost.Secp256k1.DeriveIdentifier([]byte("alice@example.com"))
	require.NoError(t, err)
	assert.Equal(t, id.String()+"\n", out)

	_, _, err = run(t, "identifier", "index", "0")
	require.ErrorIs(t, err, frost.ErrMalformedIdentifier)
}

func TestConfig(t *testing.T) {
	t.Run("environment", func(t *testing.T) {
		t.Setenv("FROSTCTL_CIPHERSUITE", "p256")

		out := mustRun(t, "identifier", "index", "7")
		assert.Equal(t, identifier(t, frost.P256, 7).String()+"\n", out)
	})

	t.Run("file", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "frostctl.yaml")
		require.NoError(t, os.WriteFile(file, []byte("ciphersuite: ristretto255\nlog-level: debug\nlog-format: json\n"),
			publicPerm))

		out, logs, err := run(t, "--config", file, "identifier", "index", "7")
		require.NoError(t, err)
		assert.Equal(t, identifier(t, frost.Ristretto255, 7).String()+"\n", out)
		assert.Contains(t, logs, `"msg":"configuration loaded"`)
	})

	t.Run("flag over environment", func(t *testing.T) {
		t.Setenv("FROSTCTL_CIPHERSUITE", "p256")

		out := mustRun(t, "--ciphersuite", frost.Secp256k1.String(), "identifier", "index", "7")
		assert.Equal(t, identifier(t, frost.Secp256k1, 7).String()+"\n", out)
	})

	t.Run("errors", func(t *testing.T) {
		_, _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "identifier", "index", "1")
		require.Error(t, err)

		_, _, err = run(t, "--log-level", "loud", "identifier", "index", "1")
		require.Error(t, err)

		_, _, err = run(t, "--log-format", "xml", "identifier", "index", "1")
		require.Error(t, err)
	})
}

func TestParseMessage(t *testing.T) {
	_, err := parseMessage("", "")
	require.ErrorIs(t, err, errMessage)

	_, err = parseMessage("a", "61")
	require.ErrorIs(t, err, errMessage)

	m, err := parseMessage("", "6869")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), m)
}
