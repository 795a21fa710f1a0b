// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package crc16 implements the bit-serial CRC-16 used by FS2 flash images.
//
// The checksum consumes big-endian 32-bit words one bit at a time, flushes
// the register with 16 zero bits and complements the result. The device
// firmware checks exactly this construction, so it is not replaced by a
// table driven variant.
package crc16

import (
	"encoding/binary"
	"fmt"
)

const (
	// Polynomial is XORed into the register whenever a one is shifted out.
	Polynomial = 0x100b
	// Init is the initial register value.
	Init = 0xffff
	// FieldFill is the value a self-excluded checksum field holds while the
	// checksum covering it is computed.
	FieldFill = 0xffff
	// WordSize is the input granularity in bytes.
	WordSize = 4
)

// AlignmentError is returned when the input is not made of whole words.
type AlignmentError struct {
	Length int
}

func (err *AlignmentError) Error() string {
	return fmt.Sprintf("crc16: length %d is not a multiple of %d", err.Length, WordSize)
}

// FieldError is returned when a self-excluded field is outside the data.
type FieldError struct {
	Offset int
	Length int
}

func (err *FieldError) Error() string {
	return fmt.Sprintf("crc16: field at %#x does not fit into %d bytes", err.Offset, err.Length)
}

// Compute returns the checksum of data. len(data) must be a multiple of 4.
func Compute(data []byte) (uint16, error) {
	if len(data)%WordSize != 0 {
		return 0, &AlignmentError{Length: len(data)}
	}
	crc := uint32(Init)
	for off := 0; off < len(data); off += WordSize {
		dw := binary.BigEndian.Uint32(data[off:])
		for i := 0; i < 32; i++ {
			crc = step(crc, dw>>31)
			dw <<= 1
		}
	}
	for i := 0; i < 16; i++ {
		crc = step(crc, 0)
	}
	return uint16(crc ^ 0xffff), nil
}

// ComputeExcluding returns the checksum of data as if the 16-bit big-endian
// field at offset held FieldFill. data is restored before returning.
func ComputeExcluding(data []byte, offset int) (uint16, error) {
	if offset < 0 || offset+2 > len(data) {
		return 0, &FieldError{Offset: offset, Length: len(data)}
	}
	orig := binary.BigEndian.Uint16(data[offset:])
	binary.BigEndian.PutUint16(data[offset:], FieldFill)
	defer binary.BigEndian.PutUint16(data[offset:], orig)
	return Compute(data)
}

func step(crc, bit uint32) uint32 {
	out := crc & 0x8000
	crc = ((crc << 1) | bit) & 0xffff
	if out != 0 {
		crc ^= Polynomial
	}
	return crc
}
