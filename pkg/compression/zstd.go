// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// ZSTD implements Compressor and uses the klauspost implementation.
type ZSTD struct{}

// Name returns the type of compression employed.
func (c *ZSTD) Name() string {
	return "ZSTD"
}

// Decode decodes a byte slice of ZSTD data.
func (c *ZSTD) Decode(encodedData []byte) ([]byte, error) {
	d, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return d.DecodeAll(encodedData, nil)
}

// Encode encodes a byte slice with ZSTD.
func (c *ZSTD) Encode(decodedData []byte) ([]byte, error) {
	e, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, err
	}
	defer e.Close()
	return e.EncodeAll(decodedData, nil), nil
}

// NewReader returns a streaming ZSTD decoder.
func (c *ZSTD) NewReader(r io.Reader) (io.ReadCloser, error) {
	d, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return d.IOReadCloser(), nil
}
