// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flint

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Fixed parts of an mstflint verification report.
const (
	Banner        = "\n     FS2 failsafe image. Start address: 0x0."
	TrailerOK     = "\n\n-I- FW image verification succeeded. Image is bootable.\n\n"
	TrailerBadCRC = "\n\n-E- FW image verification failed: Bad CRC.. AN HCA DEVICE CAN NOT BOOT FROM THIS IMAGE.\n"
)

// Section names used by mstflint.
const (
	SectionFWConf    = "FW Configuration"
	SectionImageInfo = "Image Info"
	SectionFullImage = "Full Image"
)

// ErrNotFS2 means the report is not the one of an FS2 image.
var ErrNotFS2 = errors.New("not a supported FS2 image file")

var sectionRE = regexp.MustCompile(`(?m)^\s+/0x([0-9a-fA-F]{8})-0x[0-9a-fA-F]{8} \(0x([0-9a-fA-F]{6})\)/ \(([^)]+)\)[^-\n]+- (OK|wrong CRC)(?: \(exp:0x([0-9a-fA-F]{4}))?.*$`)

// Section is one checked range of a report.
type Section struct {
	Start  uint32
	Length uint32
	Name   string
	OK     bool
	// Expected is the CRC mstflint computed for a section with a wrong
	// CRC, zero otherwise.
	Expected uint16
}

func (s Section) String() string {
	status := "OK"
	if !s.OK {
		status = fmt.Sprintf("wrong CRC (exp:%#04x)", s.Expected)
	}
	return fmt.Sprintf("0x%08x 0x%06x %s - %s", s.Start, s.Length, s.Name, status)
}

// Report is a parsed verification report.
type Report struct {
	Sections []Section
	// Bootable is set when the report ends with the success trailer.
	Bootable bool
	// BadCRC is set when the report ends with the bad CRC trailer.
	BadCRC bool
	// Raw is the report as printed by mstflint.
	Raw string
}

// ParseReport parses the output of `mstflint v`. If the output lacks the
// FS2 banner, the returned error is ErrNotFS2 and the report only holds
// the raw output.
func ParseReport(out string) (*Report, error) {
	r := &Report{Raw: out}
	if !strings.HasPrefix(out, Banner) {
		return r, ErrNotFS2
	}
	for _, m := range sectionRE.FindAllStringSubmatch(out, -1) {
		start, err := strconv.ParseUint(m[1], 16, 32)
		if err != nil {
			return r, err
		}
		length, err := strconv.ParseUint(m[2], 16, 32)
		if err != nil {
			return r, err
		}
		s := Section{Start: uint32(start), Length: uint32(length), Name: m[3], OK: m[4] == "OK"}
		if m[5] != "" {
			crc, err := strconv.ParseUint(m[5], 16, 16)
			if err != nil {
				return r, err
			}
			s.Expected = uint16(crc)
		}
		r.Sections = append(r.Sections, s)
	}
	r.Bootable = strings.HasSuffix(out, TrailerOK)
	r.BadCRC = strings.HasSuffix(out, TrailerBadCRC)
	return r, nil
}

// Section returns the first section called name.
func (r *Report) Section(name string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// SectionError means a section is missing from a report or failed its
// check.
type SectionError struct {
	Name    string
	Missing bool
	Section Section
}

// Error implements error.
func (err *SectionError) Error() string {
	if err.Missing {
		return fmt.Sprintf("flint: no %s section in report", err.Name)
	}
	return fmt.Sprintf("flint: %s: wrong CRC (exp:%#04x)", err.Name, err.Section.Expected)
}

// Check returns a *SectionError for each of names that is missing or not
// OK in the report.
func (r *Report) Check(names ...string) error {
	var result *multierror.Error
	for _, name := range names {
		s, ok := r.Section(name)
		switch {
		case !ok:
			result = multierror.Append(result, &SectionError{Name: name, Missing: true})
		case !s.OK:
			result = multierror.Append(result, &SectionError{Name: name, Section: s})
		}
	}
	return result.ErrorOrNil()
}
