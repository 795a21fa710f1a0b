// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs2

import (
	"fmt"
)

// SectionType is the type field of a section header.
type SectionType uint32

// Section types. Types outside 1..TypeLast are boot2 code.
const (
	TypeBoot2 SectionType = iota
	TypeDDR
	TypeCNF
	TypeJMP
	TypeEMT
	TypeROM
	TypeGUID
	TypeBoardID
	TypeUserData
	TypeFWConf
	TypeImageInfo
	TypeDDRZ
	TypeHashFile
	TypeLast
)

var sectionNames = []string{
	"BOOT2", "DDR", "CNF", "JMP", "EMT", "ROM", "GUID", "BOARD_ID",
	"USER_DATA", "FW_CONF", "IMG_INFO", "DDRZ", "HASH_FILE", "LAST",
}

// Known reports whether t is one of the enumerated section types. Only
// those carry the CRC dword that is not counted by the size field.
func (t SectionType) Known() bool {
	return t > TypeBoot2 && t <= TypeLast
}

func (t SectionType) String() string {
	if !t.Known() {
		return sectionNames[TypeBoot2]
	}
	return sectionNames[t]
}

// SectionHeader is the on-disk header of a section, big-endian.
type SectionHeader struct {
	Type SectionType
	// Size of the data in dwords.
	Size  uint32
	Param uint32
	// Next is LastNext for the last section.
	Next uint32
}

// Section is a section found while walking the chain.
type Section struct {
	SectionHeader
	// Offset of the header in the image.
	Offset int
	// Length in bytes, header and CRC included.
	Length int
	// CRC as stored in the last dword of the section.
	CRC uint32
}

// sectionLength returns the byte size of a section from its header.
func sectionLength(h SectionHeader) int {
	n := int(h.Size)*4 + SectionHeaderSize
	if h.Type.Known() {
		n += SectionCRCSize
	}
	return n
}

// Name returns the name of the section type.
func (s *Section) Name() string {
	return s.Type.String()
}

// End returns the offset following the section.
func (s *Section) End() int {
	return s.Offset + s.Length
}

// CRCOffset returns the offset of the section CRC.
func (s *Section) CRCOffset() int {
	return s.End() - SectionCRCSize
}

// DataOffset returns the offset of the section data.
func (s *Section) DataOffset() int {
	return s.Offset + SectionHeaderSize
}

// Last reports whether the section terminates the chain.
func (s *Section) Last() bool {
	return s.Next == LastNext
}

func (s *Section) String() string {
	return fmt.Sprintf("%-10s offset=%#08x length=%#08x next=%#08x crc=%#04x", s.Name(), s.Offset, s.Length, s.Next, uint16(s.CRC))
}
