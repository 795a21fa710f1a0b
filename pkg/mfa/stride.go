// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfa

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/linuxboot/mlxfw/pkg/check"
)

// Table of contents record layout, as written by mstflint.
//
//	+------+-------+---+---------+------------------+-------------------+
//	| psid | count | - | descLen | descriptor area  | count * index     |
//	| 32   | 1     | 1 | 2       | descLen bytes    | 40 bytes each     |
//	+------+-------+---+---------+------------------+-------------------+
//
// The NUL separated strings of the descriptor area start 4 bytes in and
// span at most 140 bytes: "?\0PN\0?\0DESCRIPTION\0...".
const (
	RecordHeaderSize = 36
	IndexSize        = 40
	stringsOffset    = 4
	stringsMaxLen    = 140
)

// RecordHeader is the fixed head of a table of contents record.
type RecordHeader struct {
	RawPSID [32]byte
	Count   uint8
	_       uint8
	DescLen uint16
}

// Index points at a Meta in the metadata frame.
type Index struct {
	MetaOffset uint32
	Kind       uint16
	Attr       uint16
}

// Meta locates an image in the decompressed payload.
type Meta struct {
	Offset int32
	Length int32
}

// Record is a decoded table of contents record.
type Record struct {
	RecordHeader
	Offset      int
	PSID        string
	PartNumber  string
	Description string
	Indexes     []Index
}

// StrideDecoder walks the table of contents record by record, each record
// being RecordHeaderSize + DescLen + Count*IndexSize bytes long.
type StrideDecoder struct {
	a       *Archive
	records []Record
}

var _ Decoder = (*StrideDecoder)(nil)

func init() {
	if err := RegisterDecoder("stride", func(a *Archive) (Decoder, error) {
		return NewStrideDecoder(a)
	}); err != nil {
		panic(err)
	}
}

// NewStrideDecoder decodes the table of contents of a.
func NewStrideDecoder(a *Archive) (*StrideDecoder, error) {
	d := &StrideDecoder{a: a}
	toc := a.TOC
	seen := make(map[string]bool)
	for off := 0; off < len(toc); {
		if err := check.Field(uint(len(toc)), off, RecordHeaderSize); err != nil {
			if isZero(toc[off:]) {
				break
			}
			return nil, &FormatError{Offset: off, Reason: "truncated TOC record", Err: err}
		}
		var r Record
		if err := binary.Read(bytes.NewReader(toc[off:off+RecordHeaderSize]), binary.BigEndian, &r.RecordHeader); err != nil {
			return nil, &FormatError{Offset: off, Reason: "reading TOC record", Err: err}
		}
		stride := RecordHeaderSize + int(r.DescLen) + IndexSize*int(r.Count)
		if err := check.Field(uint(len(toc)), off, stride); err != nil {
			return nil, &FormatError{Offset: off, Reason: "TOC record overruns table", Err: err}
		}
		r.Offset = off
		r.PSID = strings.TrimRight(string(r.RawPSID[:]), "\x00")
		if r.PSID == "" && r.Count == 0 && r.DescLen == 0 {
			// zero fill after the last record
			break
		}
		r.PartNumber, r.Description = descriptor(toc[off+RecordHeaderSize : off+RecordHeaderSize+int(r.DescLen)])

		idx := off + RecordHeaderSize + int(r.DescLen)
		for i := 0; i < int(r.Count); i++ {
			var x Index
			if err := binary.Read(bytes.NewReader(toc[idx:idx+IndexSize]), binary.BigEndian, &x); err != nil {
				return nil, &FormatError{Offset: idx, Reason: "reading TOC index", Err: err}
			}
			r.Indexes = append(r.Indexes, x)
			idx += IndexSize
		}
		if seen[r.PSID] {
			Debug("duplicate PSID %q at %#x, the first record wins", r.PSID, off)
		}
		seen[r.PSID] = true
		d.records = append(d.records, r)
		off += stride
	}
	return d, nil
}

// Records returns the decoded records in table order.
func (d *StrideDecoder) Records() []Record {
	return d.records
}

// List implements Decoder. Every record is listed; a record whose metadata
// can not be resolved is listed without an image.
func (d *StrideDecoder) List() ([]Entry, error) {
	entries := make([]Entry, 0, len(d.records))
	for i := range d.records {
		r := &d.records[i]
		e := Entry{PSID: r.PSID, PartNumber: r.PartNumber, Description: r.Description}
		m, ok, err := d.resolve(r)
		switch {
		case err != nil:
			Debug("listing %s without an image: %v", r.PSID, err)
		case ok:
			e.Offset, e.Length = uint32(m.Offset), uint32(m.Length)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Extract implements Decoder.
func (d *StrideDecoder) Extract(psid string) ([]byte, error) {
	r := d.find(psid)
	if r == nil {
		return nil, &NotFoundError{PSID: psid}
	}
	m, ok, err := d.resolve(r)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{PSID: psid, Empty: true}
	}
	Debug("%s: image at %#x, %#x bytes", psid, m.Offset, m.Length)
	return d.a.ReadPayload(uint32(m.Offset), uint32(m.Length))
}

func (d *StrideDecoder) find(psid string) *Record {
	for i := range d.records {
		if d.records[i].PSID == psid {
			return &d.records[i]
		}
	}
	return nil
}

// resolve returns the first Meta of r with a positive length.
func (d *StrideDecoder) resolve(r *Record) (Meta, bool, error) {
	meta := d.a.Meta
	for _, x := range r.Indexes {
		if err := check.Field(uint(len(meta)), int(x.MetaOffset), 8); err != nil {
			return Meta{}, false, &FormatError{Offset: r.Offset, Reason: fmt.Sprintf("%s: metadata offset %#x", r.PSID, x.MetaOffset), Err: err}
		}
		var m Meta
		if err := binary.Read(bytes.NewReader(meta[x.MetaOffset:x.MetaOffset+8]), binary.BigEndian, &m); err != nil {
			return Meta{}, false, &FormatError{Offset: int(x.MetaOffset), Reason: "reading metadata", Err: err}
		}
		if m.Length > 0 {
			if m.Offset < 0 {
				return Meta{}, false, &FormatError{Offset: int(x.MetaOffset), Reason: fmt.Sprintf("%s: negative image offset %d", r.PSID, m.Offset)}
			}
			return m, true, nil
		}
	}
	return Meta{}, false, nil
}

// descriptor returns the part number and the description of a record.
func descriptor(area []byte) (string, string) {
	if len(area) <= stringsOffset {
		return "", ""
	}
	area = area[stringsOffset:]
	if len(area) > stringsMaxLen {
		area = area[:stringsMaxLen]
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(area)
	if err != nil {
		s = area
	}
	tokens := strings.Split(strings.Trim(string(s), "\x00"), "\x00")
	var pn, desc string
	if len(tokens) > 1 {
		pn = tokens[1]
	}
	if len(tokens) > 3 {
		desc = tokens[3]
	}
	return pn, desc
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
