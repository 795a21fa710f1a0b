// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs2

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/linuxboot/mlxfw/pkg/check"
)

// TagType identifies an image info tag.
type TagType uint8

// Image info tags.
const (
	TagFormatRevision TagType = iota
	TagFwVersion
	TagFwBuildTime
	TagDeviceType
	TagPSID
	TagVSD
	TagSupportedPSIDs
	TagProductVer
	TagVSDVendorID
	TagIsGA
	TagHwDevsID
	TagMicVersion
	TagMinFitVersion
	TagHwAccessKey
	TagProfilesList
	TagSupportedProfs
	TagConfigInfo
	TagTLVsFormat
	TagTracerHash
	TagConfigArea
	TagPSInfo

	TagEnd TagType = 0xff
)

// TagHeaderSize is the size of tag, reserved byte and size.
const TagHeaderSize = 4

var tagNames = []string{
	"IiFormatRevision", "FwVersion", "FwBuildTime", "DeviceType", "PSID",
	"VSD", "SupportedPsids", "ProductVer", "VsdVendorId", "IsGa",
	"HwDevsId", "MicVersion", "MinFitVersion", "HwAccessKey",
	"PROFILES_LIST", "SUPPORTED_PROFS", "CONFIG_INFO", "TLVS_FORMAT",
	"TRACER_HASH", "ConfigArea", "PSInfo",
}

func (t TagType) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag%#02x", uint8(t))
}

// Tag is one entry of the image info tag table.
type Tag struct {
	Type TagType
	// Offset of the tag header in the image.
	Offset int
	// Data is a copy of the tag payload.
	Data []byte
}

// DataOffset returns the offset of the payload in the image.
func (t *Tag) DataOffset() int {
	return t.Offset + TagHeaderSize
}

// String returns the payload as text, NUL padding removed.
func (t *Tag) String() string {
	return strings.TrimRight(string(t.Data), "\x00")
}

// imageInfo is the decoded tag table. It caches offsets into the buffer and
// must be rebuilt after the buffer changes.
type imageInfo struct {
	tags       []Tag
	psid       string
	psidOffset int
	psidWidth  int
	hasPSID    bool
}

// invalidate drops every view derived from the buffer.
func (i *Image) invalidate() {
	i.info = nil
}

// imageInfo returns the decoded tag table, decoding it if needed.
func (i *Image) imageInfo() (*imageInfo, error) {
	if i.info != nil {
		return i.info, nil
	}
	n := i.sectionIndex(TypeImageInfo)
	if n < 0 {
		return nil, &MissingSectionError{Type: TypeImageInfo}
	}
	info, err := decodeImageInfo(i.buf, &i.sections[n])
	if err != nil {
		return nil, err
	}
	i.info = info
	return info, nil
}

func decodeImageInfo(buf []byte, s *Section) (*imageInfo, error) {
	info := &imageInfo{}
	end := s.CRCOffset()
	for off := s.DataOffset(); off < end; {
		if err := check.Field(uint(end), off, TagHeaderSize); err != nil {
			return nil, &FormatError{Offset: off, Reason: "truncated image info tag", Err: err}
		}
		t := Tag{Type: TagType(buf[off]), Offset: off}
		if t.Type == TagEnd {
			break
		}
		size := int(binary.BigEndian.Uint16(buf[off+2:]))
		if err := check.Field(uint(end), t.DataOffset(), size); err != nil {
			return nil, &FormatError{Offset: off, Reason: fmt.Sprintf("%v tag overruns IMG_INFO", t.Type), Err: err}
		}
		t.Data = append([]byte(nil), buf[t.DataOffset():t.DataOffset()+size]...)
		Debug("tag %v at %#x, %d bytes", t.Type, off, size)
		if t.Type == TagPSID && !info.hasPSID {
			info.hasPSID = true
			info.psid = strings.TrimSpace(t.String())
			info.psidOffset = t.DataOffset()
			info.psidWidth = size
		}
		info.tags = append(info.tags, t)
		off = t.DataOffset() + size
	}
	return info, nil
}

// ImageInfo returns the image info tags in table order.
func (i *Image) ImageInfo() ([]Tag, error) {
	info, err := i.imageInfo()
	if err != nil {
		return nil, err
	}
	return append([]Tag(nil), info.tags...), nil
}

// Tag returns the first tag of type t.
func (i *Image) Tag(t TagType) (Tag, bool) {
	info, err := i.imageInfo()
	if err != nil {
		return Tag{}, false
	}
	for _, tag := range info.tags {
		if tag.Type == t {
			return tag, true
		}
	}
	return Tag{}, false
}

// PSID returns the PSID of the image info.
func (i *Image) PSID() (string, error) {
	info, err := i.imageInfo()
	if err != nil {
		return "", err
	}
	if !info.hasPSID {
		return "", ErrNoPSID
	}
	return info.psid, nil
}

// PSIDField returns the offset and the width of the PSID payload.
func (i *Image) PSIDField() (offset, width int, err error) {
	info, err := i.imageInfo()
	if err != nil {
		return 0, 0, err
	}
	if !info.hasPSID {
		return 0, 0, ErrNoPSID
	}
	return info.psidOffset, info.psidWidth, nil
}
