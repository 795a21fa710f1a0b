// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs2

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/linuxboot/mlxfw/pkg/fwconf"
)

// SetPSID overwrites the image info PSID in place, NUL padded to the width
// of the field, and updates the IMG_INFO CRC. The whole-image CRC is left
// to UpdateCRC or Save.
func (i *Image) SetPSID(psid string) error {
	offset, width, err := i.PSIDField()
	if err != nil {
		return err
	}
	if len(psid) > width || !isASCII(psid) {
		return &PSIDError{PSID: psid, Width: width}
	}
	field := make([]byte, width)
	copy(field, psid)
	copy(i.buf[offset:], field)
	i.invalidate()

	if err := i.updateSectionCRC(i.sectionIndex(TypeImageInfo)); err != nil {
		return err
	}
	// Decode again so that a broken table surfaces here, not on next use.
	_, err = i.imageInfo()
	return err
}

// ReplaceConfig replaces the FW_CONF section by one holding text. The image
// is truncated at the FW_CONF section, so FW_CONF must be the last section
// of interest: anything that followed it is dropped. The new section
// terminates the chain and gets its CRC. The image info PSID is not
// touched; see ReplaceConfigAndPSID.
//
// On error the image is unchanged.
func (i *Image) ReplaceConfig(text []byte) error {
	fc, ok := i.Section(TypeFWConf)
	if !ok {
		return &MissingSectionError{Type: TypeFWConf}
	}
	zipped, err := fwconf.Compress(text)
	if err != nil {
		return fmt.Errorf("compressing configuration: %w", err)
	}

	var b bytes.Buffer
	b.Write(i.buf[:fc.Offset])
	h := SectionHeader{
		Type: TypeFWConf,
		Size: uint32(len(zipped) / 4),
		Next: LastNext,
	}
	if err := binary.Write(&b, binary.BigEndian, h); err != nil {
		return err
	}
	b.Write(zipped)
	b.Write(make([]byte, SectionCRCSize))
	buf := b.Bytes()

	sections, err := walk(buf)
	if err != nil {
		return fmt.Errorf("image after FW_CONF replacement: %w", err)
	}
	old, oldSections := i.buf, i.sections
	i.buf, i.sections = buf, sections
	i.invalidate()
	if err := i.updateSectionCRC(len(sections) - 1); err != nil {
		i.buf, i.sections = old, oldSections
		i.invalidate()
		return err
	}
	Debug("FW_CONF at %#x: %d bytes of configuration, %d compressed", fc.Offset, len(text), len(zipped))
	return nil
}

// ReplaceConfigAndPSID replaces the configuration and sets the image info
// PSID to the PSID the configuration declares, keeping both consistent.
// It returns that PSID. On error the image is unchanged.
func (i *Image) ReplaceConfigAndPSID(text []byte) (string, error) {
	cfg, err := fwconf.Parse(text)
	if err != nil {
		return "", err
	}
	old, oldSections := append([]byte(nil), i.buf...), i.Sections()
	restore := func() {
		i.buf, i.sections = old, oldSections
		i.invalidate()
	}
	if err := i.ReplaceConfig(text); err != nil {
		restore()
		return "", err
	}
	if err := i.SetPSID(cfg.PSID); err != nil {
		restore()
		return "", err
	}
	return cfg.PSID, nil
}

// Config returns the decompressed configuration of the FW_CONF section.
func (i *Image) Config() ([]byte, error) {
	fc, ok := i.Section(TypeFWConf)
	if !ok {
		return nil, &MissingSectionError{Type: TypeFWConf}
	}
	text := fwconf.DecompressTail(i.buf[:fc.CRCOffset()], fc.DataOffset())
	if len(text) == 0 {
		return nil, ErrNoConfig
	}
	return text, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
