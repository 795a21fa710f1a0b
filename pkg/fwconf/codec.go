// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fwconf handles the INI configuration embedded in FS2 images.
//
// The configuration is stored as a zlib stream at the best compression
// level, zero padded to a whole number of 32-bit words.
package fwconf

import (
	"github.com/linuxboot/mlxfw/pkg/compression"
)

// Alignment of the compressed configuration inside its section.
const Alignment = 4

var codec compression.Compressor = &compression.ZLIB{}

// PaddedLen returns the padded size of n bytes of compressed data. At least
// one padding byte is added, so aligned data gets a whole word of zeros.
func PaddedLen(n int) int {
	return n + Alignment - n%Alignment
}

// Compress compresses text and pads the result with 1 to Alignment zero
// bytes up to a multiple of Alignment.
func Compress(text []byte) ([]byte, error) {
	zipped, err := codec.Encode(text)
	if err != nil {
		return nil, err
	}
	padded := make([]byte, PaddedLen(len(zipped)))
	copy(padded, zipped)
	return padded, nil
}

// Decompress decompresses a compressed configuration; trailing padding is
// ignored.
func Decompress(data []byte) ([]byte, error) {
	return codec.Decode(data)
}

// DecompressTail decompresses buf[start:]. Failures, including an
// out of range start, yield an empty result: callers probing for a
// configuration treat undecodable data as no data.
func DecompressTail(buf []byte, start int) []byte {
	if start < 0 || start > len(buf) {
		return []byte{}
	}
	text, err := Decompress(buf[start:])
	if err != nil {
		Debug("no configuration at %#x: %v", start, err)
		return []byte{}
	}
	return text
}

// Debug is called with diagnostics while decoding.
var Debug = func(format string, v ...interface{}) {}
