// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs2

import (
	"github.com/hashicorp/go-multierror"
)

// Verify recomputes the CRC of every typed section and the whole-image CRC
// and reports each mismatch as a *CRCMismatchError. Boot2 code is skipped:
// its CRC is not computed over the section the same way.
func (i *Image) Verify() error {
	var result *multierror.Error
	for n := range i.sections {
		s := &i.sections[n]
		if !s.Type.Known() {
			continue
		}
		crc, err := i.computeSectionCRC(s)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if stored := uint16(s.CRC); stored != crc {
			result = multierror.Append(result, &CRCMismatchError{Name: s.Name(), Offset: s.Offset, Stored: stored, Computed: crc})
		}
	}
	crc, err := i.ComputeCRC()
	if err != nil {
		result = multierror.Append(result, err)
	} else if stored := i.CRC(); stored != crc {
		result = multierror.Append(result, &CRCMismatchError{Name: "Full Image", Offset: CRCOffset, Stored: stored, Computed: crc})
	}
	return result.ErrorOrNil()
}
