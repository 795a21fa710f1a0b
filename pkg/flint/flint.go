// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flint checks FS2 images with mstflint, the Mellanox firmware
// burning tool, and parses its verification report.
package flint

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultPath is the mstflint binary looked up in PATH.
const DefaultPath = "mstflint"

// Debug is called with the command lines being run.
var Debug = func(format string, v ...interface{}) {}

// Verifier checks an image file independently of this module.
// It mainly exists to be able to mock mstflint in tests.
// Generated mock using mockgen:
//
//	mockgen -source=flint.go -destination=verifier_mock.go -package flint
type Verifier interface {
	// Verify runs a verification of the image at path and parses the
	// report.
	Verify(path string) (*Report, error)
	// Query returns the raw query output for the image at path.
	Query(path string) (string, error)
}

// MstFlint runs the mstflint binary.
type MstFlint struct {
	// Path of the binary, DefaultPath if empty.
	Path string
}

var _ Verifier = (*MstFlint)(nil)

// Verify runs `mstflint -i path v`.
func (m *MstFlint) Verify(path string) (*Report, error) {
	out, err := m.run(path, "v")
	if err != nil {
		return nil, err
	}
	return ParseReport(out)
}

// Query runs `mstflint -i path q`.
func (m *MstFlint) Query(path string) (string, error) {
	return m.run(path, "q")
}

// run returns the standard output of mstflint. A failed verification makes
// mstflint exit non-zero, so an exit status is not an error here: the
// output tells what went wrong.
func (m *MstFlint) run(path, command string) (string, error) {
	bin := m.Path
	if bin == "" {
		bin = DefaultPath
	}
	args := []string{"-i", path, command}
	Debug("%s %s", bin, strings.Join(args, " "))
	out, err := exec.Command(bin, args...).Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		Debug("%s exited with %d", bin, exitErr.ExitCode())
		return string(out), nil
	}
	if err != nil {
		return "", fmt.Errorf("cannot run %s: %w", bin, err)
	}
	return string(out), nil
}
