// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package patch replaces the configuration of an FS2 image file.
//
// The image is edited in memory, written to a temporary file and checked
// after each step that changes a checksum. The destination is written only
// once the final image verifies as bootable.
package patch

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/linuxboot/mlxfw/pkg/flint"
	"github.com/linuxboot/mlxfw/pkg/fs2"
)

// DefaultTempSuffix is appended to the image path to name the temporary
// image.
const DefaultTempSuffix = ".tmp"

// Debug is called with progress messages.
var Debug = func(format string, v ...interface{}) {}

var (
	errNotBootable      = errors.New("image is not bootable")
	errStaleCRCAccepted = errors.New("image with the previous image CRC is not reported as bad")
)

// Patcher runs the patch steps.
type Patcher struct {
	Fs afero.Fs
	// Verifier checks the source and the intermediate images. If nil, the
	// image is only checked by fs2.
	Verifier flint.Verifier
	// TempSuffix defaults to DefaultTempSuffix.
	TempSuffix string
}

// Result describes a successful patch.
type Result struct {
	// Report is the verification of the final image, nil without a
	// Verifier.
	Report *flint.Report
	// ImagePSID is the PSID the image had before the patch.
	ImagePSID string
	// ConfigPSID is the PSID declared by the configuration, now also the
	// image PSID.
	ConfigPSID string
}

// PSIDChanged reports whether the patch changed the image PSID.
func (r *Result) PSIDChanged() bool {
	return r.ImagePSID != r.ConfigPSID
}

// Run replaces the configuration of the image at imagePath by the one in
// iniPath. On error imagePath is left untouched.
func (p *Patcher) Run(imagePath, iniPath string) (*Result, error) {
	fs := p.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	suffix := p.TempSuffix
	if suffix == "" {
		suffix = DefaultTempSuffix
	}
	tmp := imagePath + suffix

	text, err := afero.ReadFile(fs, iniPath)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	// The source must be a bootable FS2 image to begin with.
	var source *flint.Report
	if p.Verifier != nil {
		source, err = p.Verifier.Verify(imagePath)
		if err != nil {
			return nil, &StepError{Step: StepSource, Report: source, Err: err}
		}
		if !source.Bootable {
			return nil, &StepError{Step: StepSource, Report: source, Err: errNotBootable}
		}
	}
	img, err := fs2.Open(fs, imagePath)
	if err != nil {
		return nil, &StepError{Step: StepSource, Report: source, Err: err}
	}

	fc, ok := img.Section(fs2.TypeFWConf)
	if !ok {
		return nil, &StepError{Step: StepLoad, Report: source, Err: &fs2.MissingSectionError{Type: fs2.TypeFWConf}}
	}
	if source != nil {
		s, ok := source.Section(flint.SectionFWConf)
		if !ok {
			return nil, &StepError{Step: StepLoad, Report: source, Err: &flint.SectionError{Name: flint.SectionFWConf, Missing: true}}
		}
		if int(s.Start) != fc.Offset {
			return nil, &StepError{Step: StepLoad, Report: source, Err: fmt.Errorf("FW_CONF is at %#x, mstflint reports %#x", fc.Offset, s.Start)}
		}
	}
	imagePSID, err := img.PSID()
	if err != nil {
		return nil, &StepError{Step: StepLoad, Report: source, Err: err}
	}
	Debug("%s: PSID %s, FW_CONF at %#x", imagePath, imagePSID, fc.Offset)

	configPSID, err := img.ReplaceConfigAndPSID(text)
	if err != nil {
		return nil, &StepError{Step: StepReplace, Err: err}
	}
	defer func() {
		if err := fs.Remove(tmp); err != nil {
			Debug("removing %s: %v", tmp, err)
		}
	}()

	// Section CRCs are in place; the image CRC is still the old one, so
	// unless the content is unchanged the image must be reported as having
	// a bad CRC.
	if err := img.Save(fs, tmp, false); err != nil {
		return nil, &StepError{Step: StepSectionCRC, Err: err}
	}
	crc, err := img.ComputeCRC()
	if err != nil {
		return nil, &StepError{Step: StepSectionCRC, Err: err}
	}
	stale := crc != img.CRC()
	if p.Verifier != nil {
		r, err := p.Verifier.Verify(tmp)
		if err == nil && stale && !r.BadCRC {
			err = errStaleCRCAccepted
		}
		if err == nil {
			err = r.Check(flint.SectionFWConf, flint.SectionImageInfo)
		}
		if err != nil {
			return nil, &StepError{Step: StepSectionCRC, Report: r, Err: err}
		}
	}

	if err := img.Save(fs, tmp, true); err != nil {
		return nil, &StepError{Step: StepImageCRC, Err: err}
	}
	if err := img.Verify(); err != nil {
		return nil, &StepError{Step: StepImageCRC, Err: err}
	}
	var final *flint.Report
	if p.Verifier != nil {
		final, err = p.Verifier.Verify(tmp)
		if err == nil && !final.Bootable {
			err = errNotBootable
		}
		if err == nil {
			err = final.Check(flint.SectionFullImage, flint.SectionFWConf)
		}
		if err != nil {
			return nil, &StepError{Step: StepImageCRC, Report: final, Err: err}
		}
	}

	if err := img.Save(fs, imagePath, false); err != nil {
		return nil, &StepError{Step: StepPersist, Err: err}
	}
	Debug("%s: configuration replaced, PSID %s", imagePath, configPSID)
	return &Result{Report: final, ImagePSID: imagePSID, ConfigPSID: configPSID}, nil
}
