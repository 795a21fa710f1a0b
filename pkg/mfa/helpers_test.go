// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfa

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linuxboot/mlxfw/pkg/compression"
)

type testVariant struct {
	psid  string
	pn    string
	desc  string
	image []byte
	// leading index entries pointing at zero length metadata
	holes int
	// index pointing past the metadata frame
	badMeta bool
}

func testImage(seed byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = seed + byte(i*7)
	}
	return b
}

var testVariants = []testVariant{
	{psid: "MT_2420110034", pn: "MCX4121A-ACAT", desc: "ConnectX-4 Lx EN 25GbE dual-port SFP28", image: testImage(1, 4096)},
	{psid: "MT_2190110032", pn: "MCX4111A-XCAT", desc: "ConnectX-4 Lx EN 10GbE single-port SFP28", image: testImage(2, 1000), holes: 1},
	{psid: "MT_0000000008", pn: "MCX4131A-BCAT", desc: "ConnectX-4 Lx EN 40GbE single-port QSFP28"},
	{psid: "DEL0000000003", pn: "0X5MG", desc: "Dell branded \xe9dition", image: testImage(3, 8192)},
}

// metaSize is the stride of metadata entries: offset, length, 16 reserved
// bytes.
const metaSize = 24

func frame(kind FrameKind, data []byte, codec compression.Compressor) ([]byte, error) {
	flag := uint8(0)
	if codec != nil {
		var err error
		if data, err = codec.Encode(data); err != nil {
			return nil, err
		}
		flag = 1
	}
	var b bytes.Buffer
	b.WriteByte(byte(kind))
	b.Write([]byte{0, 0})
	b.WriteByte(flag)
	binary.Write(&b, binary.BigEndian, uint32(len(data)))
	b.Write(data)
	return b.Bytes(), nil
}

func buildArchive(t *testing.T, variants []testVariant, codec compression.Compressor) []byte {
	t.Helper()
	var toc, meta, payload bytes.Buffer
	addMeta := func(off, length int) uint32 {
		at := uint32(meta.Len())
		binary.Write(&meta, binary.BigEndian, int32(off))
		binary.Write(&meta, binary.BigEndian, int32(length))
		meta.Write(make([]byte, metaSize-8))
		return at
	}
	for _, v := range variants {
		var idx []uint32
		for i := 0; i < v.holes; i++ {
			idx = append(idx, addMeta(0, 0))
		}
		if v.image != nil {
			idx = append(idx, addMeta(payload.Len(), len(v.image)))
			payload.Write(v.image)
		} else {
			idx = append(idx, addMeta(0, 0))
		}
		if v.badMeta {
			idx = []uint32{0x1000}
		}

		desc := []byte{0, 0, 0, 0}
		desc = append(desc, []byte("FW\x00"+v.pn+"\x00A1\x00"+v.desc+"\x00")...)
		for len(desc)%4 != 0 {
			desc = append(desc, 0)
		}

		var h RecordHeader
		copy(h.RawPSID[:], v.psid)
		h.Count = uint8(len(idx))
		h.DescLen = uint16(len(desc))
		require.NoError(t, binary.Write(&toc, binary.BigEndian, h))
		toc.Write(desc)
		for i, m := range idx {
			require.NoError(t, binary.Write(&toc, binary.BigEndian, Index{MetaOffset: m, Kind: uint16(i)}))
			toc.Write(make([]byte, IndexSize-8))
		}
	}

	out := bytes.NewBuffer([]byte(Magic))
	out.Write(make([]byte, FramesOffset-len(Magic)))
	for _, f := range []struct {
		kind FrameKind
		data []byte
	}{{KindTOC, toc.Bytes()}, {KindMeta, meta.Bytes()}, {KindPayload, payload.Bytes()}} {
		b, err := frame(f.kind, f.data, codec)
		require.NoError(t, err)
		out.Write(b)
	}
	return out.Bytes()
}
