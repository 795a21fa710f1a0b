// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/spf13/afero"

	"github.com/linuxboot/mlxfw/pkg/config"
)

// Command is an interface of implementations of verbs
// (like "show", "set-psid" etc of "fs2tool show"/"fs2tool set-psid")
type Command interface {
	flags.Commander

	// ShortDescription explains what this command does in one line
	ShortDescription() string

	// LongDescription explains what this verb does (without limitation in amount of lines)
	LongDescription() string
}

// Environment shared by the commands; main and tests set it up.
var (
	Fs     afero.Fs  = afero.NewOsFs()
	Stdout io.Writer = os.Stdout
	Config           = config.Default()
)
