// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fs2 reads and patches Mellanox FS2 flash images.
//
// An FS2 image is a chain of sections starting at ChainStart. Each section
// is a 16 byte header, its data and a trailing CRC dword:
//
//	+------+------+-------+------+----------------+-----+
//	| type | size | param | next | size*4 bytes   | crc |
//	+------+------+-------+------+----------------+-----+
//
// The CRC dword is not counted by the size field and is absent from the
// boot2 pseudo-section. A next of LastNext terminates the chain. The whole
// image is covered by another CRC stored at CRCOffset.
//
// Two sections matter here: FW_CONF holds the zlib compressed INI
// configuration and IMG_INFO holds a tag table including the PSID. After
// any edit both the section CRC and the image CRC must be recomputed,
// otherwise the image is well formed but does not boot.
package fs2

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/spf13/afero"

	"github.com/linuxboot/mlxfw/pkg/check"
	"github.com/linuxboot/mlxfw/pkg/crc16"
)

// Image layout constants.
const (
	ChainStart        = 0x38
	CRCOffset         = 0x22
	LastNext          = 0xff000000
	SectionHeaderSize = 16
	SectionCRCSize    = 4
)

// Debug is called with diagnostics while decoding.
var Debug = func(format string, v ...interface{}) {}

// Image is an FS2 image held in memory. It exclusively owns its buffer;
// offsets in Sections and Tags refer to it.
type Image struct {
	buf      []byte
	sections []Section

	// info is derived from buf and dropped by every mutation.
	info *imageInfo
}

// Open reads the image at path.
func Open(fs afero.Fs, path string) (*Image, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Load decodes an image. The data is copied.
func Load(data []byte) (*Image, error) {
	buf := append([]byte(nil), data...)
	sections, err := walk(buf)
	if err != nil {
		return nil, err
	}
	i := &Image{buf: buf, sections: sections}
	if _, err := i.imageInfo(); err != nil {
		return nil, err
	}
	return i, nil
}

// walk decodes the section chain of buf. It stops at the section whose
// next is LastNext or at the end of buf, and fails if a section does not
// fit or if there is no IMG_INFO section.
func walk(buf []byte) ([]Section, error) {
	var sections []Section
	hasInfo := false
	for off := ChainStart; off > 0 && off < len(buf); {
		if err := check.Field(uint(len(buf)), off, SectionHeaderSize); err != nil {
			return nil, &FormatError{Offset: off, Reason: "truncated section header", Err: err}
		}
		var s Section
		if err := binary.Read(bytes.NewReader(buf[off:off+SectionHeaderSize]), binary.BigEndian, &s.SectionHeader); err != nil {
			return nil, &FormatError{Offset: off, Reason: "reading section header", Err: err}
		}
		s.Offset = off
		s.Length = sectionLength(s.SectionHeader)
		if err := check.Field(uint(len(buf)), off, s.Length); err != nil {
			return nil, &FormatError{Offset: off, Reason: fmt.Sprintf("%v section runs past the end of the image", s.Type), Err: err}
		}
		s.CRC = binary.BigEndian.Uint32(buf[s.CRCOffset():])
		Debug("%v", &s)
		sections = append(sections, s)
		if s.Type == TypeImageInfo {
			hasInfo = true
		}
		off = s.End()
		if s.Last() {
			break
		}
	}
	if !hasInfo {
		return nil, &FormatError{Offset: ChainStart, Reason: "no IMG_INFO section", Err: &MissingSectionError{Type: TypeImageInfo}}
	}
	return sections, nil
}

// Bytes returns the image buffer. It must not be modified.
func (i *Image) Bytes() []byte {
	return i.buf
}

// Sections returns the section chain in image order.
func (i *Image) Sections() []Section {
	return append([]Section(nil), i.sections...)
}

// Section returns the first section of type t.
func (i *Image) Section(t SectionType) (Section, bool) {
	for _, s := range i.sections {
		if s.Type == t {
			return s, true
		}
	}
	return Section{}, false
}

// CRC returns the stored whole-image CRC.
func (i *Image) CRC() uint16 {
	return binary.BigEndian.Uint16(i.buf[CRCOffset:])
}

// ComputeCRC computes the whole-image CRC, the CRC field itself excluded.
func (i *Image) ComputeCRC() (uint16, error) {
	if err := check.Aligned(0, len(i.buf), crc16.WordSize); err != nil {
		return 0, err
	}
	return crc16.ComputeExcluding(i.buf, CRCOffset)
}

// UpdateCRC computes and stores the whole-image CRC.
func (i *Image) UpdateCRC() error {
	crc, err := i.ComputeCRC()
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(i.buf[CRCOffset:], crc)
	return nil
}

// computeSectionCRC computes the CRC of s over its header and data.
func (i *Image) computeSectionCRC(s *Section) (uint16, error) {
	if err := check.Aligned(s.Offset, s.CRCOffset()-s.Offset, crc16.WordSize); err != nil {
		return 0, err
	}
	return crc16.Compute(i.buf[s.Offset:s.CRCOffset()])
}

// updateSectionCRC computes and stores the CRC of the section at index n.
func (i *Image) updateSectionCRC(n int) error {
	s := &i.sections[n]
	crc, err := i.computeSectionCRC(s)
	if err != nil {
		return err
	}
	s.CRC = uint32(crc)
	binary.BigEndian.PutUint32(i.buf[s.CRCOffset():], s.CRC)
	return nil
}

func (i *Image) sectionIndex(t SectionType) int {
	for n, s := range i.sections {
		if s.Type == t {
			return n
		}
	}
	return -1
}
