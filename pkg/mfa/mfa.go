// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mfa reads Mellanox firmware archives (MFA).
//
// An archive starts with the magic "MFAR". Three frames follow at offset
// 16, each made of an 8 byte header and its payload:
//
//	+------+----------+------+--------+
//	| kind | reserved | flag | length |   u8, u16, u8, u32 big-endian
//	+------+----------+------+--------+
//	| payload (length bytes)          |
//	+---------------------------------+
//
// A frame whose flag is set and whose payload starts with a known codec
// magic (xz for mstflint archives) is compressed. The table of contents
// and the metadata frames are small and decompressed on open; the payload
// frame holds every image and is only decompressed as a stream when an
// image is extracted.
package mfa

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/linuxboot/mlxfw/pkg/check"
	"github.com/linuxboot/mlxfw/pkg/compression"
)

// Archive layout constants.
const (
	Magic           = "MFAR"
	FramesOffset    = 16
	FrameHeaderSize = 8
	FrameCount      = 3
)

// FrameKind identifies a frame.
type FrameKind uint8

// Frame kinds.
const (
	KindTOC     FrameKind = 1
	KindMeta    FrameKind = 2
	KindPayload FrameKind = 3
)

func (k FrameKind) String() string {
	switch k {
	case KindTOC:
		return "TOC"
	case KindMeta:
		return "META"
	case KindPayload:
		return "PAYLOAD"
	}
	return fmt.Sprintf("%#x", uint8(k))
}

// FrameHeader is the on-disk frame header.
type FrameHeader struct {
	Kind       FrameKind
	_          uint16
	Compressed uint8
	Length     uint32
}

// Frame is a decoded frame. Raw is a view into the archive buffer.
type Frame struct {
	FrameHeader
	// Offset of the payload in the archive.
	Offset int
	Raw    []byte
	// Codec is nil for stored frames.
	Codec compression.Compressor
}

// Archive is an opened MFA file. It owns its buffer.
type Archive struct {
	Frames []Frame
	// TOC and Meta are the decompressed contents of their frames.
	TOC  []byte
	Meta []byte

	payload *Frame
	decoder Decoder
}

// Debug is called with diagnostics while decoding.
var Debug = func(format string, v ...interface{}) {}

// Open reads and decodes the archive at path.
func Open(fs afero.Fs, path string) (*Archive, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return NewArchive(data)
}

// NewArchive decodes an archive held in data. The archive keeps data.
func NewArchive(data []byte) (*Archive, error) {
	if !bytes.HasPrefix(data, []byte(Magic)) {
		return nil, &FormatError{Offset: 0, Reason: "bad magic", Err: ErrBadMagic}
	}
	a := &Archive{}
	off := FramesOffset
	for i := 0; i < FrameCount; i++ {
		if err := check.Field(uint(len(data)), off, FrameHeaderSize); err != nil {
			return nil, &FormatError{Offset: off, Reason: fmt.Sprintf("truncated header of frame %d", i), Err: err}
		}
		var f Frame
		if err := binary.Read(bytes.NewReader(data[off:off+FrameHeaderSize]), binary.BigEndian, &f.FrameHeader); err != nil {
			return nil, &FormatError{Offset: off, Reason: "reading frame header", Err: err}
		}
		off += FrameHeaderSize
		if err := check.Field(uint(len(data)), off, int(f.Length)); err != nil {
			return nil, &FormatError{Offset: off, Reason: fmt.Sprintf("truncated %v frame", f.Kind), Err: err}
		}
		f.Offset = off
		f.Raw = data[off : off+int(f.Length)]
		if f.Compressed != 0 {
			f.Codec = compression.CompressorFromMagic(f.Raw)
		}
		Debug("frame %d: kind %v at %#x, %d bytes, codec %v", i, f.Kind, f.Offset, f.Length, f.Codec)
		a.Frames = append(a.Frames, f)
		off += int(f.Length)
	}

	var err error
	if a.TOC, err = a.eager(KindTOC); err != nil {
		return nil, err
	}
	if a.Meta, err = a.eager(KindMeta); err != nil {
		return nil, err
	}
	if a.payload = a.Frame(KindPayload); a.payload == nil {
		return nil, &FormatError{Offset: FramesOffset, Reason: "no PAYLOAD frame"}
	}
	return a, nil
}

// Frame returns the first frame of kind k, or nil.
func (a *Archive) Frame(k FrameKind) *Frame {
	for i := range a.Frames {
		if a.Frames[i].Kind == k {
			return &a.Frames[i]
		}
	}
	return nil
}

func (a *Archive) eager(k FrameKind) ([]byte, error) {
	f := a.Frame(k)
	if f == nil {
		return nil, &FormatError{Offset: FramesOffset, Reason: fmt.Sprintf("no %v frame", k)}
	}
	if f.Codec == nil {
		return f.Raw, nil
	}
	b, err := f.Codec.Decode(f.Raw)
	if err != nil {
		return nil, &FormatError{Offset: f.Offset, Reason: fmt.Sprintf("decompressing %v frame", k), Err: err}
	}
	return b, nil
}

// ReadPayload returns length bytes at offset of the decompressed payload.
// Compressed payloads are streamed: only offset+length bytes are decoded.
func (a *Archive) ReadPayload(offset, length uint32) ([]byte, error) {
	f := a.payload
	if f.Codec == nil {
		if err := check.Field(uint(len(f.Raw)), int(offset), int(length)); err != nil {
			return nil, &FormatError{Offset: f.Offset, Reason: "image outside of payload", Err: err}
		}
		return append([]byte(nil), f.Raw[offset:offset+length]...), nil
	}
	r, err := f.Codec.NewReader(bytes.NewReader(f.Raw))
	if err != nil {
		return nil, &FormatError{Offset: f.Offset, Reason: "opening payload stream", Err: err}
	}
	defer r.Close()
	if _, err := io.CopyN(io.Discard, r, int64(offset)); err != nil {
		return nil, &FormatError{Offset: f.Offset, Reason: fmt.Sprintf("seeking payload to %#x", offset), Err: err}
	}
	// The length comes from the archive: let the stream bound the buffer.
	var b bytes.Buffer
	n, err := b.ReadFrom(io.LimitReader(r, int64(length)))
	if err == nil && n < int64(length) {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return nil, &FormatError{Offset: f.Offset, Reason: fmt.Sprintf("reading %#x bytes of payload at %#x", length, offset), Err: err}
	}
	return b.Bytes(), nil
}

// List returns every table of contents entry using the default decoder.
func (a *Archive) List() ([]Entry, error) {
	d, err := a.defaultDecoder()
	if err != nil {
		return nil, err
	}
	return d.List()
}

// Extract returns the image of psid using the default decoder.
func (a *Archive) Extract(psid string) ([]byte, error) {
	d, err := a.defaultDecoder()
	if err != nil {
		return nil, err
	}
	return d.Extract(psid)
}

func (a *Archive) defaultDecoder() (Decoder, error) {
	if a.decoder == nil {
		d, err := NewDecoder(DefaultDecoder, a)
		if err != nil {
			return nil, err
		}
		a.decoder = d
	}
	return a.decoder, nil
}
