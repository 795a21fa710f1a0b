// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs2

import (
	"io"

	"github.com/spf13/afero"
)

// Save writes the image to path. If updateCRC is set the whole-image CRC is
// recomputed first.
func (i *Image) Save(fs afero.Fs, path string, updateCRC bool) error {
	if updateCRC {
		if err := i.UpdateCRC(); err != nil {
			return err
		}
	}
	return afero.WriteFile(fs, path, i.buf, 0o644)
}

// WriteTo implements io.WriterTo. The buffer is written verbatim.
func (i *Image) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(i.buf)
	return int64(n), err
}
