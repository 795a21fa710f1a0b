// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfa

import (
	"errors"
	"fmt"
)

// ErrBadMagic means the file does not start with Magic.
var ErrBadMagic = errors.New("not an MFA archive")

// FormatError describes a structural problem in an archive.
type FormatError struct {
	Offset int
	Reason string
	Err    error
}

// Error implements error.
func (err *FormatError) Error() string {
	s := fmt.Sprintf("mfa: %s at %#x", err.Reason, err.Offset)
	if err.Err != nil {
		s += ": " + err.Err.Error()
	}
	return s
}

// Unwrap returns the underlying error.
func (err *FormatError) Unwrap() error {
	return err.Err
}

// NotFoundError means no image exists for PSID.
type NotFoundError struct {
	PSID string
	// Empty is set when the PSID is listed but all its images have zero
	// length.
	Empty bool
}

// Error implements error.
func (err *NotFoundError) Error() string {
	if err.Empty {
		return fmt.Sprintf("mfa: '%s' has no image", err.PSID)
	}
	return fmt.Sprintf("mfa: '%s' is not found", err.PSID)
}
