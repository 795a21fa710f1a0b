// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfa

import (
	"errors"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/linuxboot/mlxfw/pkg/compression"
)

var codecs = []struct {
	name  string
	codec compression.Compressor
}{
	{"stored", nil},
	{"xz", &compression.XZ{}},
	{"zstd", &compression.ZSTD{}},
}

func TestList(t *testing.T) {
	for _, c := range codecs {
		t.Run(c.name, func(t *testing.T) {
			a, err := NewArchive(buildArchive(t, testVariants, c.codec))
			require.NoError(t, err)

			entries, err := a.List()
			require.NoError(t, err)
			require.Len(t, entries, len(testVariants))
			for i, e := range entries {
				v := testVariants[i]
				require.Equal(t, v.psid, e.PSID)
				require.Equal(t, v.pn, e.PartNumber)
				require.Equal(t, uint32(len(v.image)), e.Length)
			}
			require.Equal(t, "Dell branded édition", entries[3].Description)
			require.Equal(t, "ConnectX-4 Lx EN 25GbE dual-port SFP28", entries[0].Description)
		})
	}
}

func TestExtract(t *testing.T) {
	for _, c := range codecs {
		t.Run(c.name, func(t *testing.T) {
			a, err := NewArchive(buildArchive(t, testVariants, c.codec))
			require.NoError(t, err)
			if c.codec != nil {
				require.Equal(t, c.codec.Name(), a.Frame(KindPayload).Codec.Name())
			}

			entries, err := a.List()
			require.NoError(t, err)
			for i, e := range entries {
				v := testVariants[i]
				got, err := a.Extract(e.PSID)
				if v.image == nil {
					var nf *NotFoundError
					require.True(t, errors.As(err, &nf), "got %v", err)
					require.True(t, nf.Empty)
					continue
				}
				require.NoError(t, err)
				require.Len(t, got, int(e.Length))
				require.Equal(t, v.image, got)
			}
		})
	}
}

func TestExtractNotFound(t *testing.T) {
	a, err := NewArchive(buildArchive(t, testVariants, &compression.XZ{}))
	require.NoError(t, err)

	for _, psid := range []string{"NOPE", "mt_2420110034", "MT_2420110034 ", ""} {
		_, err := a.Extract(psid)
		var nf *NotFoundError
		require.True(t, errors.As(err, &nf), "%q: got %v", psid, err)
		require.False(t, nf.Empty)
		require.Equal(t, psid, nf.PSID)
	}
}

func TestBadArchives(t *testing.T) {
	good := buildArchive(t, testVariants, &compression.XZ{})
	var tests = []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("MFAX"), good[4:]...)},
		{"no frames", good[:FramesOffset]},
		{"truncated frame", good[:len(good)-10]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewArchive(tt.data)
			var fe *FormatError
			require.True(t, errors.As(err, &fe), "got %v", err)
		})
	}
	_, err := NewArchive([]byte("MFAX"))
	require.True(t, errors.Is(err, ErrBadMagic))
}

func TestListUnresolvableIndex(t *testing.T) {
	variants := append([]testVariant(nil), testVariants...)
	variants[3].badMeta = true
	a, err := NewArchive(buildArchive(t, variants, nil))
	require.NoError(t, err)

	entries, err := a.List()
	require.NoError(t, err)
	require.Len(t, entries, len(variants))
	require.Equal(t, "DEL0000000003", entries[3].PSID)
	require.Equal(t, "0X5MG", entries[3].PartNumber)
	require.Zero(t, entries[3].Length)
	require.Equal(t, uint32(len(variants[0].image)), entries[0].Length)

	_, err = a.Extract("DEL0000000003")
	var fe *FormatError
	require.True(t, errors.As(err, &fe), "got %v", err)

	got, err := a.Extract("MT_2420110034")
	require.NoError(t, err)
	require.Equal(t, variants[0].image, got)
}

func TestPayloadLengthPastStream(t *testing.T) {
	a, err := NewArchive(buildArchive(t, testVariants, &compression.XZ{}))
	require.NoError(t, err)

	// a length far past the stream fails on EOF, not on allocation
	_, err = a.ReadPayload(0, 0x7fffffff)
	var fe *FormatError
	require.True(t, errors.As(err, &fe), "got %v", err)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	got, err := a.ReadPayload(16, 32)
	require.NoError(t, err)
	require.Equal(t, testVariants[0].image[16:48], got)
}

func TestCorruptPayload(t *testing.T) {
	data := buildArchive(t, testVariants, &compression.XZ{})
	a, err := NewArchive(data)
	require.NoError(t, err)

	p := a.Frame(KindPayload)
	// keep the magic, break the stream
	for i := p.Offset + 16; i < p.Offset+int(p.Length)-16; i++ {
		data[i] ^= 0x5a
	}
	_, err = a.Extract("DEL0000000003")
	var fe *FormatError
	require.True(t, errors.As(err, &fe), "got %v", err)
}

func TestOpen(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/fw/fw-ConnectX4Lx.mfa", buildArchive(t, testVariants, &compression.XZ{}), 0o644))

	a, err := Open(fs, "/fw/fw-ConnectX4Lx.mfa")
	require.NoError(t, err)
	got, err := a.Extract("MT_2190110032")
	require.NoError(t, err)
	require.Equal(t, testVariants[1].image, got)

	_, err = Open(fs, "/fw/missing.mfa")
	require.Error(t, err)
}

func TestDecoders(t *testing.T) {
	require.Contains(t, Decoders(), DefaultDecoder)
	require.Error(t, RegisterDecoder(DefaultDecoder, nil))

	a, err := NewArchive(buildArchive(t, testVariants, nil))
	require.NoError(t, err)
	_, err = NewDecoder("regex", a)
	require.Error(t, err)

	d, err := NewStrideDecoder(a)
	require.NoError(t, err)
	require.Len(t, d.Records(), len(testVariants))
	require.Len(t, d.Records()[1].Indexes, 2)
}
