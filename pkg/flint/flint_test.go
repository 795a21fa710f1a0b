// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flint

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeFlint installs a shell script that records its arguments, prints out
// and exits with status.
func fakeFlint(t *testing.T, out string, status string) (bin, args string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	dir := t.TempDir()
	report := filepath.Join(dir, "report")
	args = filepath.Join(dir, "args")
	require.NoError(t, os.WriteFile(report, []byte(out), 0o644))
	bin = filepath.Join(dir, "mstflint")
	script := "#!/bin/sh\necho \"$@\" > " + args + "\ncat " + report + "\nexit " + status + "\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin, args
}

func TestMstFlintVerify(t *testing.T) {
	bin, args := fakeFlint(t, goodReport, "0")
	r, err := (&MstFlint{Path: bin}).Verify("fw.bin")
	require.NoError(t, err)
	require.True(t, r.Bootable)

	got, err := os.ReadFile(args)
	require.NoError(t, err)
	require.Equal(t, "-i fw.bin v\n", string(got))
}

func TestMstFlintVerifyFailureStatus(t *testing.T) {
	bin, _ := fakeFlint(t, badReport, "1")
	r, err := (&MstFlint{Path: bin}).Verify("fw.bin")
	require.NoError(t, err)
	require.True(t, r.BadCRC)
	require.Error(t, r.Check(SectionFullImage))
}

func TestMstFlintQuery(t *testing.T) {
	bin, args := fakeFlint(t, "Image type:            FS2\nPSID:                  MT_2420110034\n", "0")
	out, err := (&MstFlint{Path: bin}).Query("fw.bin")
	require.NoError(t, err)
	require.Contains(t, out, "MT_2420110034")

	got, err := os.ReadFile(args)
	require.NoError(t, err)
	require.Equal(t, "-i fw.bin q\n", string(got))
}

func TestMstFlintMissing(t *testing.T) {
	_, err := (&MstFlint{Path: filepath.Join(t.TempDir(), "nope")}).Verify("fw.bin")
	require.Error(t, err)
}
