// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package patch

import (
	"fmt"

	"github.com/linuxboot/mlxfw/pkg/flint"
)

// Step is a checkpoint of Run.
type Step int

// Steps in the order they run.
const (
	StepSource Step = iota + 1
	StepLoad
	StepReplace
	StepSectionCRC
	StepImageCRC
	StepPersist
)

var stepMessages = map[Step]string{
	StepSource:     ".bin is not supported FS2 image file",
	StepLoad:       "can't find the FW_CONF section",
	StepReplace:    "FW_CONF integration failed",
	StepSectionCRC: "can't find the new FW_CONF section CRC",
	StepImageCRC:   "can't find the full image CRC",
	StepPersist:    "can't write the patched image",
}

func (s Step) String() string {
	if msg, ok := stepMessages[s]; ok {
		return msg
	}
	return fmt.Sprintf("step %d", int(s))
}

// StepError means Run stopped at Step.
type StepError struct {
	Step Step
	// Report is the verification that failed, if any.
	Report *flint.Report
	Err    error
}

// Error implements error.
func (err *StepError) Error() string {
	if err.Err == nil {
		return err.Step.String()
	}
	return fmt.Sprintf("%v: %v", err.Step, err.Err)
}

// Unwrap returns the underlying error.
func (err *StepError) Unwrap() error {
	return err.Err
}

// Code returns a process exit status identifying the step.
func (err *StepError) Code() int {
	return int(err.Step)
}
