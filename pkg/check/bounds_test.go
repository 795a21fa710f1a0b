// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestField(t *testing.T) {
	require.NoError(t, Field(0x40, 0x38, 8))
	require.NoError(t, Field(16, 4, 0))

	err := Field(16, 8, 9)
	require.Error(t, err)
	var endErr *ErrEndGreaterThanLength
	require.True(t, errors.As(err, &endErr))
	require.Equal(t, 17, endErr.EndIdx)

	// both violations are reported at once
	err = Field(4, -1, -1)
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 2)
}

func TestAligned(t *testing.T) {
	require.NoError(t, Aligned(0x38, 0x10, 4))
	require.Error(t, Aligned(0x22, 0x10, 4))
	require.Error(t, Aligned(0, 3, 4))
}
