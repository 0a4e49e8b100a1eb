// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package frost

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	group "github.com/bytemare/crypto"
)

// jsonVersion is the only supported version of the JSON encodings.
const jsonVersion = 0

var errJSONVersion = errors.New("unsupported JSON encoding version")

// Header prefixes every JSON encoding, identifying the format version and the ciphersuite by its context string.
type Header struct {
	Ciphersuite string `json:"ciphersuite"`
	Version     uint8  `json:"version"`
}

// NewHeader returns the JSON header of the ciphersuite.
func NewHeader(cs Ciphersuite) Header {
	return Header{Version: jsonVersion, Ciphersuite: cs.String()}
}

// Suite returns the ciphersuite identified in the header, or an error if it or the version are not supported.
func (h Header) Suite() (Ciphersuite, error) {
	if h.Version != jsonVersion {
		return 0, fmt.Errorf("%w: %w %d", ErrDeserialization, errJSONVersion, h.Version)
	}

	cs, err := CiphersuiteFromString(h.Ciphersuite)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDeserialization, err)
	}

	return cs, nil
}

func hexScalar(cs Ciphersuite, s, name string) (*group.Scalar, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeserialization, name, err)
	}

	sc, err := cs.decodeScalar(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeserialization, name, err)
	}

	return sc, nil
}

func hexElement(cs Ciphersuite, s, name string) (*group.Element, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeserialization, name, err)
	}

	e, err := cs.decodeElement(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDeserialization, name, err)
	}

	return e, nil
}

func hexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

type jsonCommitments struct {
	Identifier string `json:"identifier,omitempty"`
	Hiding     string `json:"hiding"`
	Binding    string `json:"binding"`
	Header     Header `json:"header"`
}

func (j *jsonCommitments) decode(cs Ciphersuite, id string) (*SigningCommitments, error) {
	identifier, err := cs.IdentifierFromHex(id)
	if err != nil {
		return nil, err
	}

	hiding, err := hexElement(cs, j.Hiding, "hiding")
	if err != nil {
		return nil, err
	}

	binding, err := hexElement(cs, j.Binding, "binding")
	if err != nil {
		return nil, err
	}

	return &SigningCommitments{
		Identifier:  identifier,
		Hiding:      hiding,
		Binding:     binding,
		Ciphersuite: cs,
	}, nil
}

// MarshalJSON encodes the commitment in JSON.
func (c *SigningCommitments) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonCommitments{
		Header:     NewHeader(c.Ciphersuite),
		Identifier: c.Identifier.String(),
		Hiding:     hexEncode(c.Hiding.Encode()),
		Binding:    hexEncode(c.Binding.Encode()),
	})
}

// UnmarshalJSON decodes data into c, or returns an error.
func (c *SigningCommitments) UnmarshalJSON(data []byte) error {
	j := new(jsonCommitments)
	if err := json.Unmarshal(data, j); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialization, err)
	}

	cs, err := j.Header.Suite()
	if err != nil {
		return err
	}

	com, err := j.decode(cs, j.Identifier)
	if err != nil {
		return err
	}

	*c = *com

	return nil
}

type jsonSigningPackage struct {
	Commitments map[string]*jsonCommitments `json:"signing_commitments"`
	Message     string                      `json:"message"`
	Header      Header                      `json:"header"`
}

// MarshalJSON encodes the signing package in JSON.
func (s *SigningPackage) MarshalJSON() ([]byte, error) {
	j := &jsonSigningPackage{
		Header:      NewHeader(s.Ciphersuite),
		Commitments: make(map[string]*jsonCommitments, len(s.Commitments)),
		Message:     hexEncode(s.Message),
	}

	for _, com := range s.Commitments {
		j.Commitments[com.Identifier.String()] = &jsonCommitments{
			Header:  NewHeader(com.Ciphersuite),
			Hiding:  hexEncode(com.Hiding.Encode()),
			Binding: hexEncode(com.Binding.Encode()),
		}
	}

	return json.Marshal(j)
}

// UnmarshalJSON decodes data into s, or returns an error.
func (s *SigningPackage) UnmarshalJSON(data []byte) error {
	j := new(jsonSigningPackage)
	if err := json.Unmarshal(data, j); err != nil {
		return fmt.Errorf("%w: %w", ErrSigningPackageDeserialization, err)
	}

	cs, err := j.Header.Suite()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSigningPackageDeserialization, err)
	}

	msg, err := hex.DecodeString(j.Message)
	if err != nil {
		return fmt.Errorf("%w: message: %w", ErrSigningPackageDeserialization, err)
	}

	sp := &SigningPackage{
		Message:     msg,
		Commitments: make([]*SigningCommitments, 0, len(j.Commitments)),
		Ciphersuite: cs,
	}

	for id, jc := range j.Commitments {
		if jc == nil {
			return fmt.Errorf("%w: null commitment", ErrSigningPackageDeserialization)
		}

		com, err := jc.decode(cs, id)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSigningPackageDeserialization, err)
		}

		sp.Commitments = append(sp.Commitments, com)
	}

	if _, err = sp.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrSigningPackageDeserialization, err)
	}

	sortCommitments(sp.Commitments)
	*s = *sp

	return nil
}

type jsonSecretShare struct {
	Identifier   string   `json:"identifier"`
	SigningShare string   `json:"signing_share"`
	Commitment   []string `json:"commitment"`
	Header       Header   `json:"header"`
}

// EncodeCommitmentHex returns the hexadecimal encodings of the elements of the verifiable commitment.
func EncodeCommitmentHex(v VerifiableCommitment) []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = hexEncode(e.Encode())
	}

	return out
}

// DecodeCommitmentHex decodes the hexadecimal encodings of the elements of a verifiable commitment.
func DecodeCommitmentHex(cs Ciphersuite, elements []string) (VerifiableCommitment, error) {
	v := make(VerifiableCommitment, len(elements))
	for i, e := range elements {
		el, err := hexElement(cs, e, "commitment")
		if err != nil {
			return nil, err
		}

		v[i] = el
	}

	return v, nil
}

// MarshalJSON encodes the secret share in JSON.
func (s *SecretShare) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonSecretShare{
		Header:       NewHeader(s.Ciphersuite),
		Identifier:   s.Identifier.String(),
		SigningShare: hexEncode(s.SigningShare.Encode()),
		Commitment:   EncodeCommitmentHex(s.Commitment),
	})
}

// UnmarshalJSON decodes data into s, or returns an error.
func (s *SecretShare) UnmarshalJSON(data []byte) error {
	j := new(jsonSecretShare)
	if err := json.Unmarshal(data, j); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialization, err)
	}

	cs, err := j.Header.Suite()
	if err != nil {
		return err
	}

	id, err := cs.IdentifierFromHex(j.Identifier)
	if err != nil {
		return err
	}

	share, err := hexScalar(cs, j.SigningShare, "signing_share")
	if err != nil {
		return err
	}

	commitment, err := DecodeCommitmentHex(cs, j.Commitment)
	if err != nil {
		return err
	}

	*s = SecretShare{
		Identifier:   id,
		SigningShare: share,
		Commitment:   commitment,
		Ciphersuite:  cs,
	}

	return nil
}

type jsonKeyPackage struct {
	Identifier     string `json:"identifier"`
	SigningShare   string `json:"signing_share"`
	VerifyingShare string `json:"verifying_share"`
	VerifyingKey   string `json:"verifying_key"`
	Header         Header `json:"header"`
	MinSigners     uint16 `json:"min_signers"`
}

// MarshalJSON encodes the key package in JSON.
func (k *KeyPackage) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonKeyPackage{
		Header:         NewHeader(k.Ciphersuite),
		Identifier:     k.Identifier.String(),
		SigningShare:   hexEncode(k.SigningShare.Encode()),
		VerifyingShare: hexEncode(k.VerifyingShare.Encode()),
		VerifyingKey:   hexEncode(k.VerifyingKey.Encode()),
		MinSigners:     k.MinSigners,
	})
}

// UnmarshalJSON decodes data into k, and validates it, or returns an error.
func (k *KeyPackage) UnmarshalJSON(data []byte) error {
	j := new(jsonKeyPackage)
	if err := json.Unmarshal(data, j); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialization, err)
	}

	cs, err := j.Header.Suite()
	if err != nil {
		return err
	}

	kp := &KeyPackage{MinSigners: j.MinSigners, Ciphersuite: cs}

	if kp.Identifier, err = cs.IdentifierFromHex(j.Identifier); err != nil {
		return err
	}

	if kp.SigningShare, err = hexScalar(cs, j.SigningShare, "signing_share"); err != nil {
		return err
	}

	if kp.VerifyingShare, err = hexElement(cs, j.VerifyingShare, "verifying_share"); err != nil {
		return err
	}

	if kp.VerifyingKey, err = hexElement(cs, j.VerifyingKey, "verifying_key"); err != nil {
		return err
	}

	if err = kp.Validate(); err != nil {
		return err
	}

	*k = *kp

	return nil
}

type jsonPublicKeyPackage struct {
	VerifyingShares map[string]string `json:"verifying_shares"`
	VerifyingKey    string            `json:"verifying_key"`
	Header          Header            `json:"header"`
	MinSigners      uint16            `json:"min_signers,omitempty"`
}

// MarshalJSON encodes the public key package in JSON.
func (p *PublicKeyPackage) MarshalJSON() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	j := &jsonPublicKeyPackage{
		Header:          NewHeader(p.Ciphersuite),
		VerifyingShares: make(map[string]string, len(p.VerifyingShares)),
		VerifyingKey:    hexEncode(p.VerifyingKey.Encode()),
		MinSigners:      p.MinSigners,
	}

	for id, share := range p.VerifyingShares {
		j.VerifyingShares[id.String()] = hexEncode(share.Encode())
	}

	return json.Marshal(j)
}

// UnmarshalJSON decodes data into p, and validates it, or returns an error.
func (p *PublicKeyPackage) UnmarshalJSON(data []byte) error {
	j := new(jsonPublicKeyPackage)
	if err := json.Unmarshal(data, j); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialization, err)
	}

	cs, err := j.Header.Suite()
	if err != nil {
		return err
	}

	pkp := &PublicKeyPackage{
		VerifyingShares: make(map[Identifier]*group.Element, len(j.VerifyingShares)),
		MinSigners:      j.MinSigners,
		Ciphersuite:     cs,
	}

	if pkp.VerifyingKey, err = hexElement(cs, j.VerifyingKey, "verifying_key"); err != nil {
		return err
	}

	for h, share := range j.VerifyingShares {
		id, err := cs.IdentifierFromHex(h)
		if err != nil {
			return err
		}

		if _, ok := pkp.VerifyingShares[id]; ok {
			return fmt.Errorf("%w: %w", ErrDeserialization, culprit(ErrDuplicatedIdentifier, id))
		}

		if pkp.VerifyingShares[id], err = hexElement(cs, share, "verifying_share"); err != nil {
			return err
		}
	}

	if err = pkp.Validate(); err != nil {
		return err
	}

	*p = *pkp

	return nil
}

type jsonNonces struct {
	Commitments *jsonCommitments `json:"commitments"`
	Hiding      string           `json:"hiding"`
	Binding     string           `json:"binding"`
	Header      Header           `json:"header"`
}

// MarshalJSON encodes the nonces in JSON, so they can be stored privately between the two rounds. Consumed nonces
// cannot be encoded.
func (n *SigningNonces) MarshalJSON() ([]byte, error) {
	defer n.acquire()()

	if err := n.check(); err != nil {
		return nil, err
	}

	cs := n.Ciphersuite()

	return json.Marshal(&jsonNonces{
		Header:  NewHeader(cs),
		Hiding:  hexEncode(n.hiding.Encode()),
		Binding: hexEncode(n.binding.Encode()),
		Commitments: &jsonCommitments{
			Header:     NewHeader(cs),
			Identifier: n.commitments.Identifier.String(),
			Hiding:     hexEncode(n.commitments.Hiding.Encode()),
			Binding:    hexEncode(n.commitments.Binding.Encode()),
		},
	})
}

// UnmarshalJSON decodes data into n, and checks the nonces against their commitments, or returns an error.
func (n *SigningNonces) UnmarshalJSON(data []byte) error {
	j := new(jsonNonces)
	if err := json.Unmarshal(data, j); err != nil {
		return fmt.Errorf("%w: %w", ErrNonceSerialization, err)
	}

	cs, err := j.Header.Suite()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNonceSerialization, err)
	}

	if j.Commitments == nil {
		return fmt.Errorf("%w: missing commitments", ErrNonceSerialization)
	}

	hiding, err := hexScalar(cs, j.Hiding, "hiding")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNonceSerialization, err)
	}

	binding, err := hexScalar(cs, j.Binding, "binding")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNonceSerialization, err)
	}

	com, err := j.Commitments.decode(cs, j.Commitments.Identifier)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNonceSerialization, err)
	}

	// Reuse the checks of the compact decoding.
	encoded, err := (&SigningNonces{hiding: hiding, binding: binding, commitments: com}).Encode()
	if err != nil {
		return err
	}

	return n.Decode(encoded)
}

type jsonSignatureShare struct {
	Identifier string `json:"identifier"`
	Share      string `json:"share"`
	Header     Header `json:"header"`
}

// MarshalJSON encodes the signature share in JSON.
func (s *SignatureShare) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonSignatureShare{
		Header:     NewHeader(s.Ciphersuite),
		Identifier: s.Identifier.String(),
		Share:      hexEncode(s.Share.Encode()),
	})
}

// UnmarshalJSON decodes data into s, or returns an error.
func (s *SignatureShare) UnmarshalJSON(data []byte) error {
	j := new(jsonSignatureShare)
	if err := json.Unmarshal(data, j); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialization, err)
	}

	cs, err := j.Header.Suite()
	if err != nil {
		return err
	}

	id, err := cs.IdentifierFromHex(j.Identifier)
	if err != nil {
		return err
	}

	share, err := hexScalar(cs, j.Share, "share")
	if err != nil {
		return err
	}

	*s = SignatureShare{Identifier: id, Share: share, Ciphersuite: cs}

	return nil
}

type jsonSignature struct {
	Signature string `json:"signature"`
	Header    Header `json:"header"`
}

// MarshalJSON encodes the signature in JSON.
func (s *Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonSignature{
		Header:    NewHeader(s.Ciphersuite),
		Signature: hexEncode(s.Encode()),
	})
}

// UnmarshalJSON decodes data into s, or returns an error.
func (s *Signature) UnmarshalJSON(data []byte) error {
	j := new(jsonSignature)
	if err := json.Unmarshal(data, j); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedSignature, err)
	}

	cs, err := j.Header.Suite()
	if err != nil {
		return err
	}

	b, err := hex.DecodeString(j.Signature)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedSignature, err)
	}

	sig, err := cs.DecodeSignature(b)
	if err != nil {
		return err
	}

	*s = *sig

	return nil
}
