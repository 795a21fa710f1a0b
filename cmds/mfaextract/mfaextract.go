// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// mfaextract lists and extracts the firmware images of a Mellanox MFA
// archive.
//
// Synopsis:
//
//	mfaextract [-d] [-n] [-o DIR] [-c CONFIG] firmware.mfa <PSID>
//	mfaextract firmware.mfa l|list
//
// Extracting writes <PSID>.bin and, unless disabled, prints the mstflint
// verification and query of the extracted image. An unknown PSID prints
// the list of the archive and exits with status 1.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"

	"github.com/linuxboot/mlxfw/pkg/config"
	"github.com/linuxboot/mlxfw/pkg/flint"
	"github.com/linuxboot/mlxfw/pkg/log"
	"github.com/linuxboot/mlxfw/pkg/mfa"
)

var (
	debug      = flag.BoolP("debug", "d", false, "enable debug prints")
	noVerify   = flag.BoolP("no-verify", "n", false, "do not run mstflint on the extracted image")
	outDir     = flag.StringP("output", "o", ".", "directory to write the image to")
	configPath = flag.StringP("config", "c", "", "configuration file")
)

var errUsage = errors.New("usage:\n\tmfaextract firmware.mfa <PSID>\t - to extract\n\tmfaextract firmware.mfa l|list\t - to list")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.SetLevel(cfg.LogLevel)
	if *debug {
		log.SetLevel("debug")
		mfa.Debug = log.Debugf
		flint.Debug = log.Debugf
	}

	var v flint.Verifier
	if cfg.Verify && !*noVerify {
		v = &flint.MstFlint{Path: cfg.MstFlint}
	}

	err = run(os.Stdout, afero.NewOsFs(), v, *outDir, flag.Args())
	var notFound *mfa.NotFoundError
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		flag.PrintDefaults()
		os.Exit(2)
	case errors.As(err, &notFound):
		log.Errorf("%v", err)
		os.Exit(1)
	default:
		log.Fatalf("%v", err)
	}
}

func run(stdout io.Writer, fs afero.Fs, v flint.Verifier, dir string, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	a, err := mfa.Open(fs, args[0])
	if err != nil {
		return err
	}
	psid := args[1]
	if psid == "l" || psid == "list" {
		return list(stdout, a)
	}

	data, err := a.Extract(psid)
	var notFound *mfa.NotFoundError
	if errors.As(err, &notFound) {
		if lerr := list(stdout, a); lerr != nil {
			return lerr
		}
		return err
	}
	if err != nil {
		return err
	}

	name := filepath.Join(dir, psid+".bin")
	if err := afero.WriteFile(fs, name, data, 0o644); err != nil {
		return err
	}
	log.Infof("wrote %s, %s", name, humanize.IBytes(uint64(len(data))))
	if v == nil {
		return nil
	}
	return check(stdout, v, name)
}

// check prints the mstflint verification and query of an extracted image.
// A failed verification is reported, not returned: the image is extracted
// as the archive holds it.
func check(stdout io.Writer, v flint.Verifier, name string) error {
	r, err := v.Verify(name)
	if r != nil {
		fmt.Fprint(stdout, r.Raw)
	}
	switch {
	case err != nil:
		log.Warnf("%s: %v", name, err)
	case !r.Bootable:
		log.Warnf("%s: mstflint verification failed", name)
	}
	q, err := v.Query(name)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, q)
	return nil
}

// list prints the entries of the archive ordered by PSID.
func list(stdout io.Writer, a *mfa.Archive) error {
	entries, err := a.List()
	if err != nil {
		return err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PSID < entries[j].PSID
	})

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.AppendHeader(table.Row{"#", "PSID", "Part Number", "Description", "Size"})
	for i, e := range entries {
		size := "-"
		if e.Length > 0 {
			size = humanize.IBytes(uint64(e.Length))
		}
		t.AppendRow(table.Row{i + 1, e.PSID, e.PartNumber, e.Description, size})
	}
	t.Render()
	return nil
}
