// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New("test", "warn", &buf)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	require.Empty(t, buf.String())

	l.Warnf("section at %#x", 0x38)
	require.Contains(t, buf.String(), "[WARN]")
	require.Contains(t, buf.String(), "test: section at 0x38")

	buf.Reset()
	l.Errorf("100%% broken")
	require.Contains(t, buf.String(), "[ERROR]")
	require.Contains(t, buf.String(), "100% broken")
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	saved := DefaultLogger
	defer func() { DefaultLogger = saved }()

	DefaultLogger = New("mlxfw", "debug", &buf)
	Debugf("walking chain from %#x", 0x38)
	require.Contains(t, buf.String(), "walking chain from 0x38")
}
