// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfa

import (
	"fmt"
	"sort"
)

// Entry is one firmware variant of an archive.
type Entry struct {
	PSID        string
	PartNumber  string
	Description string
	// Offset and Length locate the image in the decompressed payload.
	// Length is 0 when the archive lists the PSID without an image.
	Offset uint32
	Length uint32
}

// Decoder interprets the table of contents of an archive. Alternate TOC
// layouts are added as new decoders without changing callers.
type Decoder interface {
	// List returns all entries in table order.
	List() ([]Entry, error)
	// Extract returns the image of the PSID, matched exactly.
	Extract(psid string) ([]byte, error)
}

// DecoderFactory builds a Decoder for an archive.
type DecoderFactory func(a *Archive) (Decoder, error)

// DefaultDecoder is the decoder used by Archive.List and Archive.Extract.
const DefaultDecoder = "stride"

var decoders = make(map[string]DecoderFactory)

// RegisterDecoder makes a decoder available by name.
func RegisterDecoder(name string, f DecoderFactory) error {
	if _, ok := decoders[name]; ok {
		return fmt.Errorf("RegisterDecoder: %q is already registered", name)
	}
	decoders[name] = f
	return nil
}

// NewDecoder returns the decoder registered as name for a.
func NewDecoder(name string, a *Archive) (Decoder, error) {
	f, ok := decoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown decoder %q, have %v", name, Decoders())
	}
	return f(a)
}

// Decoders returns the registered decoder names, sorted.
func Decoders() []string {
	var names []string
	for n := range decoders {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
