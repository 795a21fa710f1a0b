// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dumpini

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/linuxboot/mlxfw/cmds/fs2tool/commands"
	"github.com/linuxboot/mlxfw/pkg/fs2"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	ImagePath  string `short:"f" long:"image" description:"path to FS2 image" required:"true"`
	OutputPath string `short:"o" long:"output" description:"write the configuration to a file instead of stdout"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "prints the FW_CONF configuration"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return ""
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
	text, err := img.Config()
	if err != nil {
		return err
	}
	if cmd.OutputPath != "" {
		return afero.WriteFile(commands.Fs, cmd.OutputPath, text, 0o644)
	}
	_, err = commands.Stdout.Write(text)
	return err
}
