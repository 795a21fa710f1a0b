// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compression implements the stream codecs found in Mellanox
// firmware containers.
//
// MFA archives frame their sections with xz streams; the FS2 configuration
// section is a zlib stream. Codecs are selected by the magic bytes leading
// the compressed data.
package compression

import (
	"bytes"
	"io"
)

// Compressor defines a single compression scheme (such as XZ).
type Compressor interface {
	// Name is typically the name of a class.
	Name() string

	// Decode and Encode obey "x == Decode(Encode(x))".
	Decode(encodedData []byte) ([]byte, error)
	Encode(decodedData []byte) ([]byte, error)

	// NewReader returns a streaming decoder, so that callers can skip into
	// large streams without holding the whole output in memory.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Well-known stream magics.
var (
	XZMagic   = []byte{0xfd, '7', 'z', 'X'}
	ZSTDMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	LZ4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

var magics = []struct {
	magic []byte
	new   func() Compressor
}{
	{XZMagic, func() Compressor { return &XZ{} }},
	{ZSTDMagic, func() Compressor { return &ZSTD{} }},
	{LZ4Magic, func() Compressor { return &LZ4{} }},
}

// CompressorFromMagic returns a Compressor for the stream starting with
// data, or nil if the magic is not known.
func CompressorFromMagic(data []byte) Compressor {
	for _, m := range magics {
		if bytes.HasPrefix(data, m.magic) {
			return m.new()
		}
	}
	return nil
}

