// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"bytes"
	"io"
	"math/rand"
	"reflect"
	"testing"
)

func testData() []byte {
	r := rand.New(rand.NewSource(1))
	b := make([]byte, 64*1024)
	r.Read(b[:len(b)/2])
	// the second half compresses well
	copy(b[len(b)/2:], bytes.Repeat([]byte("[ADAPTER]\nPSID = MT_0000000001\n"), 1024))
	return b
}

var tests = []struct {
	name       string
	compressor Compressor
	magic      []byte
}{
	{"xz", &XZ{}, XZMagic},
	{"zstd", &ZSTD{}, ZSTDMagic},
	{"lz4", &LZ4{}, LZ4Magic},
	{"zlib", &ZLIB{}, []byte{0x78, 0xda}},
}

func TestEncodeDecode(t *testing.T) {
	want := testData()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := tt.compressor.Encode(want)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(encoded, tt.magic) {
				t.Errorf("encoded stream starts with % x, want % x", encoded[:len(tt.magic)], tt.magic)
			}
			got, err := tt.compressor.Decode(encoded)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("decompressed data did not match, (got: %d bytes, want: %d bytes)", len(got), len(want))
			}
		})
	}
}

func TestNewReader(t *testing.T) {
	want := testData()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := tt.compressor.Encode(want)
			if err != nil {
				t.Fatal(err)
			}
			r, err := tt.compressor.NewReader(bytes.NewReader(encoded))
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()
			if _, err := io.CopyN(io.Discard, r, 1000); err != nil {
				t.Fatal(err)
			}
			got := make([]byte, 100)
			if _, err := io.ReadFull(r, got); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, want[1000:1100]) {
				t.Fatalf("streamed slice did not match")
			}
		})
	}
}

func TestCompressorFromMagic(t *testing.T) {
	data := testData()[:4096]
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := tt.compressor.Encode(data)
			if err != nil {
				t.Fatal(err)
			}
			c := CompressorFromMagic(encoded)
			if tt.name == "zlib" {
				if c != nil {
					t.Fatalf("zlib is not framed by magic, got %s", c.Name())
				}
				return
			}
			if c == nil || c.Name() != tt.compressor.Name() {
				t.Fatalf("compressor from magic did not match (got: %v, want: %s)", c, tt.compressor.Name())
			}
		})
	}
	if c := CompressorFromMagic([]byte("MFAR")); c != nil {
		t.Errorf("got %s for unknown magic, want nil", c.Name())
	}
}

func TestDecodeGarbage(t *testing.T) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.compressor.Decode([]byte("definitely not compressed")); err == nil {
				t.Errorf("got nil error decoding garbage")
			}
		})
	}
}
