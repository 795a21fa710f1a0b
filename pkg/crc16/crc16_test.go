// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crc16

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	var tests = []struct {
		name string
		data []byte
		want uint16
	}{
		{"empty", []byte{}, 0x0955},
		{"zero word", []byte{0, 0, 0, 0}, 0x0009},
		{"ones", []byte{0xff, 0xff, 0xff, 0xff}, 0xc41a},
		{"one word", []byte{0x12, 0x34, 0x56, 0x78}, 0x025e},
		{"ascii", []byte("ABCDEFGH"), 0xe625},
		{"counter", []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, 0xc884},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.data)
			require.NoError(t, err)
			require.Equal(t, tt.want, got, "got %#04x, want %#04x", got, tt.want)
		})
	}
}

func TestComputeEmptyIsFlushedInit(t *testing.T) {
	crc := uint32(Init)
	for i := 0; i < 16; i++ {
		crc = step(crc, 0)
	}
	got, err := Compute(nil)
	require.NoError(t, err)
	require.Equal(t, uint16(^crc), got)
}

func TestComputeUnaligned(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 7} {
		_, err := Compute(make([]byte, n))
		var alignErr *AlignmentError
		require.True(t, errors.As(err, &alignErr), "length %d", n)
		require.Equal(t, n, alignErr.Length)
	}
}

func TestComputeExcluding(t *testing.T) {
	data := []byte("0123456789abcdefghijklmnopqrstuvwxyz0123")
	const field = 0x22

	first, err := ComputeExcluding(data, field)
	require.NoError(t, err)

	// the field content does not matter
	binary.BigEndian.PutUint16(data[field:], 0x1234)
	second, err := ComputeExcluding(data, field)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, uint16(0x1234), binary.BigEndian.Uint16(data[field:]))

	// installing the result is idempotent
	binary.BigEndian.PutUint16(data[field:], first)
	third, err := ComputeExcluding(data, field)
	require.NoError(t, err)
	require.Equal(t, first, third)

	_, err = ComputeExcluding(data, len(data)-1)
	require.Error(t, err)
}
