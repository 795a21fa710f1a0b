// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package setpsid

import (
	"fmt"

	"github.com/linuxboot/mlxfw/cmds/fs2tool/commands"
	"github.com/linuxboot/mlxfw/pkg/fs2"
	"github.com/linuxboot/mlxfw/pkg/log"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	ImagePath  string `short:"f" long:"image" description:"path to FS2 image" required:"true"`
	PSID       string `long:"psid" description:"new PSID" required:"true"`
	OutputPath string `short:"o" long:"output" description:"write the result here instead of overwriting the image"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "overwrites the image info PSID"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Writes the PSID into the image info, NUL padded, and updates the IMG_INFO and whole-image CRCs. The FW_CONF configuration is not changed."
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if err := commands.NoExtraArgs(args); err != nil {
		return err
	}
	img, err := fs2.Open(commands.Fs, cmd.ImagePath)
	if err != nil {
		return fmt.Errorf("unable to open the FS2 image '%s': %w", cmd.ImagePath, err)
	}
	old, err := img.PSID()
	if err != nil {
		return err
	}
	if err := img.SetPSID(cmd.PSID); err != nil {
		return commands.ErrArgs{Err: err}
	}

	out := cmd.OutputPath
	if out == "" {
		out = cmd.ImagePath
	}
	if err := img.Save(commands.Fs, out, true); err != nil {
		return err
	}
	log.Infof("%s: PSID %s -> %s", out, old, cmd.PSID)
	return nil
}
