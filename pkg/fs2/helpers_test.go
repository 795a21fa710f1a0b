// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs2

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linuxboot/mlxfw/pkg/crc16"
	"github.com/linuxboot/mlxfw/pkg/fwconf"
)

const testINI = `[PS_INFO]
Name = MCX4121A-ACA_Ax

[ADAPTER]
PSID = MT_2420110034
adapter_vendor_id = 0x15b3

[HCA]
hca_header_device_id = 0x1015
`

const newINI = `[PS_INFO]
Name = MCX4121A-ACA_Ax

[ADAPTER]
PSID = MT_2420110099
adapter_vendor_id = 0x15b3

[HCA]
hca_header_device_id = 0x1015
eth_xfi_en = true
num_pfs = 2
`

type testSection struct {
	typ  SectionType
	data []byte
}

func imageInfoData(psid string, width int) []byte {
	var b bytes.Buffer
	b.Write([]byte{byte(TagFwVersion), 0, 0, 8})
	b.Write([]byte{0, 14, 0, 32, 0, 10, 0x07, 0xe8})
	b.Write([]byte{byte(TagPSID), 0, byte(width >> 8), byte(width)})
	field := make([]byte, width)
	copy(field, psid)
	b.Write(field)
	b.Write([]byte{byte(TagEnd), 0, 0, 0})
	for b.Len()%4 != 0 {
		b.WriteByte(0)
	}
	return b.Bytes()
}

func fwConfData(t *testing.T, text string) []byte {
	t.Helper()
	zipped, err := fwconf.Compress([]byte(text))
	require.NoError(t, err)
	return zipped
}

func defaultSections(t *testing.T) []testSection {
	return []testSection{
		{TypeBoot2, bytes.Repeat([]byte{0xb0, 0x07}, 16)},
		{TypeImageInfo, imageInfoData("MT_2420110034", 16)},
		{TypeUserData, bytes.Repeat([]byte{0x5a}, 64)},
		{TypeFWConf, fwConfData(t, testINI)},
	}
}

// buildImage lays out sections from ChainStart with valid section CRCs and
// a valid whole-image CRC.
func buildImage(t *testing.T, sections []testSection) []byte {
	t.Helper()
	buf := make([]byte, ChainStart)
	copy(buf, "MTFW")
	for i := 4; i < ChainStart; i++ {
		buf[i] = byte(i)
	}
	for n, s := range sections {
		require.Zero(t, len(s.data)%4)
		h := SectionHeader{Type: s.typ, Size: uint32(len(s.data) / 4)}
		off := len(buf)
		next := off + sectionLength(h)
		if n == len(sections)-1 {
			h.Next = LastNext
		} else {
			h.Next = uint32(next)
		}
		var b bytes.Buffer
		require.NoError(t, binary.Write(&b, binary.BigEndian, h))
		b.Write(s.data)
		if s.typ.Known() {
			crc, err := crc16.Compute(b.Bytes())
			require.NoError(t, err)
			require.NoError(t, binary.Write(&b, binary.BigEndian, uint32(crc)))
		}
		buf = append(buf, b.Bytes()...)
	}
	crc, err := crc16.ComputeExcluding(buf, CRCOffset)
	require.NoError(t, err)
	binary.BigEndian.PutUint16(buf[CRCOffset:], crc)
	return buf
}

func loadDefault(t *testing.T) (*Image, []byte) {
	t.Helper()
	data := buildImage(t, defaultSections(t))
	i, err := Load(data)
	require.NoError(t, err)
	return i, data
}
