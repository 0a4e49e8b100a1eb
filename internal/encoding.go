// SPDX-License-Identifier: MIT
//
// Copyright (C) 2024 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"encoding/binary"
	"errors"
	"fmt"

	group "github.com/bytemare/crypto"
)

var errTrailingData = errors.New("trailing data after encoding")

// Decoder reads the fields of a compact encoding in order. The first error is sticky: once a read fails, all
// subsequent reads return zero values, and Err returns that error.
type Decoder struct {
	cs   *Ciphersuite
	err  error
	data []byte
}

// NewDecoder reads the leading ciphersuite byte of data and returns a decoder for the rest of the input.
func NewDecoder(data []byte) (*Decoder, error) {
	if len(data) == 0 {
		return nil, ErrInvalidLength
	}

	cs := GetCiphersuite(data[0])
	if cs == nil {
		return nil, ErrInvalidCiphersuite
	}

	return &Decoder{cs: cs, data: data[1:]}, nil
}

// NewDecoderFor returns a decoder for data in the ciphersuite, for encodings without a header.
func NewDecoderFor(cs *Ciphersuite, data []byte) *Decoder {
	return &Decoder{cs: cs, data: data}
}

// Ciphersuite returns the ciphersuite of the decoded data.
func (d *Decoder) Ciphersuite() *Ciphersuite {
	return d.cs
}

// Err returns the first error encountered.
func (d *Decoder) Err() error {
	return d.err
}

// Fail records err if no error was recorded before.
func (d *Decoder) Fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// Remaining returns the number of bytes not yet read.
func (d *Decoder) Remaining() int {
	return len(d.data)
}

// Bytes reads the next n bytes.
func (d *Decoder) Bytes(n int) []byte {
	if d.err != nil {
		return nil
	}

	if n < 0 || len(d.data) < n {
		d.err = ErrInvalidLength
		return nil
	}

	out := d.data[:n:n]
	d.data = d.data[n:]

	return out
}

// UInt16 reads a 2 byte little endian integer.
func (d *Decoder) UInt16() uint16 {
	b := d.Bytes(2)
	if b == nil {
		return 0
	}

	return binary.LittleEndian.Uint16(b)
}

// UInt32 reads a 4 byte little endian integer.
func (d *Decoder) UInt32() uint32 {
	b := d.Bytes(4)
	if b == nil {
		return 0
	}

	return binary.LittleEndian.Uint32(b)
}

// Scalar reads a scalar.
func (d *Decoder) Scalar(name string) *group.Scalar {
	b := d.Bytes(d.cs.ScalarLength())
	if b == nil {
		return nil
	}

	s, err := d.cs.DecodeScalar(b)
	if err != nil {
		d.err = fmt.Errorf("decoding %s: %w", name, err)
		return nil
	}

	return s
}

// Element reads a group element, rejecting the identity element.
func (d *Decoder) Element(name string) *group.Element {
	b := d.Bytes(d.cs.ElementLength())
	if b == nil {
		return nil
	}

	e, err := d.cs.DecodeElement(b)
	if err != nil {
		d.err = fmt.Errorf("decoding %s: %w", name, err)
		return nil
	}

	return e
}

// Elements reads n group elements.
func (d *Decoder) Elements(name string, n int) []*group.Element {
	if d.err != nil {
		return nil
	}

	if n*d.cs.ElementLength() > len(d.data) {
		d.err = ErrInvalidLength
		return nil
	}

	out := make([]*group.Element, n)
	for i := range out {
		if out[i] = d.Element(name); out[i] == nil {
			return nil
		}
	}

	return out
}

// Done returns the first error encountered, or an error if not all of the input was consumed.
func (d *Decoder) Done() error {
	if d.err != nil {
		return d.err
	}

	if len(d.data) != 0 {
		return errTrailingData
	}

	return nil
}

// Encoder appends the fields of a compact encoding in order.
type Encoder struct {
	out []byte
}

// NewEncoder returns an encoder starting with the ciphersuite header byte, with capacity for size bytes.
func NewEncoder(cs byte, size int) *Encoder {
	out := make([]byte, 1, size+1)
	out[0] = cs

	return &Encoder{out: out}
}

// Bytes appends raw bytes.
func (e *Encoder) Bytes(b ...[]byte) *Encoder {
	for _, in := range b {
		e.out = append(e.out, in...)
	}

	return e
}

// UInt16 appends a 2 byte little endian integer.
func (e *Encoder) UInt16(i uint16) *Encoder {
	e.out = binary.LittleEndian.AppendUint16(e.out, i)

	return e
}

// UInt32 appends a 4 byte little endian integer.
func (e *Encoder) UInt32(i uint32) *Encoder {
	e.out = binary.LittleEndian.AppendUint32(e.out, i)

	return e
}

// Scalar appends the encoding of s.
func (e *Encoder) Scalar(s *group.Scalar) *Encoder {
	return e.Bytes(s.Encode())
}

// Element appends the encoding of p.
func (e *Encoder) Element(p *group.Element) *Encoder {
	return e.Bytes(p.Encode())
}

// Elements appends the encoding of each element.
func (e *Encoder) Elements(p []*group.Element) *Encoder {
	for _, el := range p {
		e.Element(el)
	}

	return e
}

// Encoded returns the encoding.
func (e *Encoder) Encoded() []byte {
	return e.out
}
