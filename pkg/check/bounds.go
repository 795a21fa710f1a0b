// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package check validates byte ranges before they are sliced out of a
// firmware buffer.
package check

import (
	"github.com/hashicorp/go-multierror"
)

func bounds(length uint, startIdx, endIdx int) error {
	var result *multierror.Error
	if startIdx < 0 {
		result = multierror.Append(result, &ErrStartLessThanZero{StartIdx: startIdx})
	}
	if endIdx < startIdx {
		result = multierror.Append(result, &ErrEndLessThanStart{StartIdx: startIdx, EndIdx: endIdx})
	}
	if endIdx >= 0 && uint(endIdx) > length {
		result = multierror.Append(result, &ErrEndGreaterThanLength{Length: length, EndIdx: endIdx})
	}

	return result.ErrorOrNil()
}

// Field checks that a `size` bytes long field at `offset` fits into a buffer
// of `length` bytes:
// * 0 <= offset
// * 0 <= size
// * offset+size <= length
func Field(length uint, offset, size int) error {
	return bounds(length, offset, offset+size)
}

// Aligned checks that both `offset` and `size` are multiples of `align`.
func Aligned(offset, size, align int) error {
	if offset%align != 0 || size%align != 0 {
		return &ErrMisaligned{Offset: offset, Size: size, Align: align}
	}
	return nil
}
