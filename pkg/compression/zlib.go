// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

const zlibCompressionLevel = 9

// ZLIB implements Compressor for raw zlib streams (RFC 1950) at the best
// compression level.
type ZLIB struct{}

// Name returns the type of compression employed.
func (c *ZLIB) Name() string {
	return "ZLIB"
}

// Decode decodes a byte slice of ZLIB data. Bytes following the end of the
// stream are ignored.
func (c *ZLIB) Decode(encodedData []byte) ([]byte, error) {
	r, err := c.NewReader(bytes.NewReader(encodedData))
	if err != nil {
		return nil, err
	}
	decodedData, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		return nil, err
	}
	return decodedData, nil
}

// Encode encodes a byte slice with ZLIB.
func (c *ZLIB) Encode(decodedData []byte) ([]byte, error) {
	var encodedData bytes.Buffer

	w, err := zlib.NewWriterLevel(&encodedData, zlibCompressionLevel)
	if err != nil {
		return nil, err
	}

	_, err = w.Write(decodedData)
	w.Close()
	if err != nil {
		return nil, err
	}
	return encodedData.Bytes(), nil
}

// NewReader returns a streaming ZLIB decoder.
func (c *ZLIB) NewReader(r io.Reader) (io.ReadCloser, error) {
	return zlib.NewReader(r)
}
