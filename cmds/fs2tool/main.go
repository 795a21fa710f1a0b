// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fs2tool inspects and patches Mellanox FS2 firmware images.
//
// Synopsis:
//
//	fs2tool show -f IMAGE [--config]
//	fs2tool set-psid -f IMAGE --psid PSID [-o OUTPUT]
//	fs2tool update-ini -f IMAGE -c CONFIG.ini [--no-verify]
//	fs2tool dump-ini -f IMAGE [-o OUTPUT]
//
// An example:
//
//	fs2tool dump-ini -f fw.bin -o fw.ini
//	vi fw.ini
//	fs2tool update-ini -f fw.bin -c fw.ini
//
// Description:
//
//	show:       Print the section chain, CRC states and image info
//	set-psid:   Overwrite the image info PSID
//	update-ini: Replace the FW_CONF configuration and sync the PSID
//	dump-ini:   Print the FW_CONF configuration
//
// Settings are read from mlxfw.yaml or MLXFW_* environment variables:
// mstflint (path of the binary), verify, log-level and temp-suffix.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/linuxboot/mlxfw/cmds/fs2tool/commands"
	"github.com/linuxboot/mlxfw/cmds/fs2tool/commands/dumpini"
	"github.com/linuxboot/mlxfw/cmds/fs2tool/commands/setpsid"
	"github.com/linuxboot/mlxfw/cmds/fs2tool/commands/show"
	"github.com/linuxboot/mlxfw/cmds/fs2tool/commands/updateini"
	"github.com/linuxboot/mlxfw/pkg/config"
	"github.com/linuxboot/mlxfw/pkg/flint"
	"github.com/linuxboot/mlxfw/pkg/fs2"
	"github.com/linuxboot/mlxfw/pkg/log"
	"github.com/linuxboot/mlxfw/pkg/patch"
)

var (
	knownCommands = map[string]commands.Command{
		"show":       &show.Command{},
		"set-psid":   &setpsid.Command{},
		"update-ini": &updateini.Command{},
		"dump-ini":   &dumpini.Command{},
	}
)

var opts struct {
	Debug      bool   `short:"d" long:"debug" description:"enable debug prints"`
	ConfigPath string `long:"settings" description:"settings file, mlxfw.yaml by default"`
}

func main() {
	flagsParser := flags.NewParser(&opts, flags.Default)
	for commandName, command := range knownCommands {
		_, err := flagsParser.AddCommand(commandName, command.ShortDescription(), command.LongDescription(), command)
		if err != nil {
			panic(err)
		}
	}
	flagsParser.CommandHandler = func(command flags.Commander, args []string) error {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
		commands.Config = cfg
		log.SetLevel(cfg.LogLevel)
		if opts.Debug {
			log.SetLevel("debug")
			fs2.Debug = log.Debugf
			flint.Debug = log.Debugf
			patch.Debug = log.Debugf
		}
		return command.Execute(args)
	}

	// parse arguments and execute the appropriate command
	_, err := flagsParser.Parse()
	if err == nil {
		return
	}
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) {
		if flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}
	var stepErr *patch.StepError
	if errors.As(err, &stepErr) {
		if stepErr.Report != nil {
			fmt.Fprint(os.Stdout, stepErr.Report.Raw)
		}
		fmt.Fprintf(os.Stdout, "\n%v\n", stepErr.Step)
		log.Errorf("%v", err)
		os.Exit(stepErr.Code())
	}
	var argsErr commands.ErrArgs
	if errors.As(err, &argsErr) {
		log.Errorf("%v", err)
		os.Exit(2)
	}
	log.Fatalf("%v", err)
}
