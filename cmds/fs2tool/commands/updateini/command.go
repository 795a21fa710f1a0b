// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package updateini

import (
	"fmt"

	"github.com/linuxboot/mlxfw/cmds/fs2tool/commands"
	"github.com/linuxboot/mlxfw/pkg/flint"
	"github.com/linuxboot/mlxfw/pkg/log"
	"github.com/linuxboot/mlxfw/pkg/patch"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	ImagePath string `short:"f" long:"image" description:"path to FS2 image" required:"true"`
	INIPath   string `short:"c" long:"ini" description:"path to the INI configuration" required:"true"`
	NoVerify  bool   `long:"no-verify" description:"do not check the intermediate images with mstflint"`
}

// NewVerifier returns the verifier of the patch steps. Tests replace it.
var NewVerifier = func(path string) flint.Verifier {
	return &flint.MstFlint{Path: path}
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "replaces the FW_CONF configuration"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return `Replaces the FW_CONF section by the given INI configuration and sets the
image info PSID to the PSID of its [ADAPTER] section. Every CRC is
recomputed. Unless --no-verify is given, the source and the intermediate
images are checked with mstflint; the image is only overwritten once the
final image is reported bootable.`
}

// Execute is the main function here. It is responsible to
// start the execution of the command.
//
// `args` are the arguments left unused by verb itself and options.
func (cmd *Command) Execute(args []string) error {
	if err := commands.NoExtraArgs(args); err != nil {
		return err
	}
	p := &patch.Patcher{
		Fs:         commands.Fs,
		TempSuffix: commands.Config.TempSuffix,
	}
	if commands.Config.Verify && !cmd.NoVerify {
		p.Verifier = NewVerifier(commands.Config.MstFlint)
	}

	res, err := p.Run(cmd.ImagePath, cmd.INIPath)
	if err != nil {
		return err
	}
	if res.Report != nil {
		fmt.Fprint(commands.Stdout, res.Report.Raw)
	}
	if res.PSIDChanged() {
		log.Warnf("PSID changed: %s -> %s", res.ImagePSID, res.ConfigPSID)
	}
	fmt.Fprintf(commands.Stdout, "PSID:\t%s\n", res.ConfigPSID)
	return nil
}
