// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package show

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/camelcase"
	"github.com/hashicorp/go-multierror"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/linuxboot/mlxfw/cmds/fs2tool/commands"
	"github.com/linuxboot/mlxfw/pkg/fs2"
)

var _ commands.Command = (*Command)(nil)

type Command struct {
	ImagePath string `short:"f" long:"image" description:"path to FS2 image" required:"true"`
	Config    bool   `long:"config" description:"print also the FW_CONF configuration"`
}

// ShortDescription explains what this command does in one line
func (cmd *Command) ShortDescription() string {
	return "prints sections and image info"
}

// LongDescription explains what this verb does (without limitation in amount of lines)
func (cmd *Command) LongDescription() string {
	return "Prints the section chain with the state of each CRC, the image info tags and the PSID."
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

	// CRC mismatches by offset
	bad := map[int]*fs2.CRCMismatchError{}
	if err := img.Verify(); err != nil {
		var merr *multierror.Error
		if !errors.As(err, &merr) {
			return err
		}
		for _, e := range merr.Errors {
			var mismatch *fs2.CRCMismatchError
			if errors.As(e, &mismatch) {
				bad[mismatch.Offset] = mismatch
			}
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(commands.Stdout)
	t.SetTitle("Sections")
	t.AppendHeader(table.Row{"Name", "Offset", "Length", "Size", "CRC"})
	for _, s := range img.Sections() {
		t.AppendRow(table.Row{
			s.Name(),
			fmt.Sprintf("0x%08x", s.Offset),
			fmt.Sprintf("0x%06x", s.Length),
			humanize.IBytes(uint64(s.Length)),
			crcStatus(uint16(s.CRC), s.Type.Known(), bad[s.Offset]),
		})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"Full Image", "", "", humanize.IBytes(uint64(len(img.Bytes()))), crcStatus(img.CRC(), true, bad[fs2.CRCOffset])})
	t.Render()

	tags, err := img.ImageInfo()
	if err != nil {
		return err
	}
	h := table.NewWriter()
	h.SetOutputMirror(commands.Stdout)
	h.SetTitle("Image Info")
	h.AppendHeader(table.Row{"Tag", "Offset", "Value"})
	for _, tag := range tags {
		h.AppendRow(table.Row{DisplayName(tag.Type.String()), fmt.Sprintf("0x%08x", tag.Offset), tagValue(tag)})
	}
	h.Render()

	if !cmd.Config {
		return nil
	}
	text, err := img.Config()
	if err != nil {
		return err
	}
	fmt.Fprintf(commands.Stdout, "%s", text)
	return nil
}

func crcStatus(crc uint16, known bool, mismatch *fs2.CRCMismatchError) string {
	switch {
	case !known:
		return "-"
	case mismatch != nil:
		return fmt.Sprintf("0x%04x wrong (exp:0x%04x)", crc, mismatch.Computed)
	}
	return fmt.Sprintf("0x%04x OK", crc)
}

// DisplayName turns a tag name like "FwBuildTime" or "SUPPORTED_PROFS" into
// words.
func DisplayName(name string) string {
	words := camelcase.Split(strings.ReplaceAll(name, "_", " "))
	return strings.Join(strings.Fields(strings.Join(words, " ")), " ")
}

// tagValue prints text tags as text and everything else as hex.
func tagValue(tag fs2.Tag) string {
	s := tag.String()
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] >= 0x7f {
			return fmt.Sprintf("%x", tag.Data)
		}
	}
	if s == "" {
		return fmt.Sprintf("%x", tag.Data)
	}
	return s
}
