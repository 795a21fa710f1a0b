// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs2

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPSID means the image info section has no PSID tag.
	ErrNoPSID = errors.New("image info has no PSID")
	// ErrNoConfig means the FW_CONF section does not hold a configuration.
	ErrNoConfig = errors.New("FW_CONF section holds no configuration")
)

// FormatError describes a structural problem in an image.
type FormatError struct {
	Offset int
	Reason string
	Err    error
}

// Error implements error.
func (err *FormatError) Error() string {
	s := fmt.Sprintf("fs2: %s at %#x", err.Reason, err.Offset)
	if err.Err != nil {
		s += ": " + err.Err.Error()
	}
	return s
}

// Unwrap returns the underlying error.
func (err *FormatError) Unwrap() error {
	return err.Err
}

// MissingSectionError means the chain has no section of Type.
type MissingSectionError struct {
	Type SectionType
}

// Error implements error.
func (err *MissingSectionError) Error() string {
	return fmt.Sprintf("fs2: can't find the %v section", err.Type)
}

// PSIDError means a PSID can not be written into the image info.
type PSIDError struct {
	PSID  string
	Width int
}

// Error implements error.
func (err *PSIDError) Error() string {
	return fmt.Sprintf("fs2: PSID %q does not fit a %d byte ASCII field", err.PSID, err.Width)
}

// CRCMismatchError is reported by Verify for each checksum that does not
// match the data it covers.
type CRCMismatchError struct {
	Name     string
	Offset   int
	Stored   uint16
	Computed uint16
}

// Error implements error.
func (err *CRCMismatchError) Error() string {
	return fmt.Sprintf("fs2: %s at %#x: wrong CRC (exp:%#04x, act:%#04x)", err.Name, err.Offset, err.Computed, err.Stored)
}
