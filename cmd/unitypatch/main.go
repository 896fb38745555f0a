// Copyright (c) 2025 Niema Moshiri and The Zaparoo Project.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of go-unitydelta.
//
// go-unitydelta is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-unitydelta is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-unitydelta.  If not, see <https://www.gnu.org/licenses/>.

// Command unitypatch applies an xdelta3 patch to a UnityFS asset bundle.
package main

import (
	"flag"
	"fmt"
	"os"

	unitydelta "github.com/ZaparooProject/go-unitydelta"
)

var (
	input        = flag.String("i", "", "input bundle path, or archive-embedded path like mod.zip/data/bundle (required)")
	patch        = flag.String("patch", "", "xdelta3 patch file (required unless -list-entries)")
	output       = flag.String("o", "", "output bundle path (required unless -list-entries)")
	entry        = flag.String("entry", "", "target entry path or suffix (auto-selected if omitted and unambiguous)")
	packer       = flag.String("packer", "original", "output compression: none, lz4, lzma, or original")
	xdeltaPath   = flag.String("xdelta", "", "path to the xdelta3 binary (resolved automatically if omitted)")
	workDir      = flag.String("work-dir", "", "parent directory for the scratch work directory (default: current directory)")
	keepWork     = flag.Bool("keep-work", false, "keep the scratch work directory after running")
	listEntries  = flag.Bool("list-entries", false, "list the bundle's entries and exit")
	printVersion = flag.Bool("version", false, "print version and exit")
)

const appVersion = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -i <bundle> -patch <file> -o <output> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Applies an xdelta3 patch to a UnityFS asset bundle.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -i bundle -patch update.xdelta -o bundle.patched\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i mod.zip -list-entries\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i bundle -entry CAB-abc/asset.resS -patch update.xdelta -o bundle.patched -packer lz4\n", os.Args[0])
	}
	flag.Parse()

	if *printVersion {
		fmt.Printf("unitypatch version %s\n", appVersion)
		return
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: input bundle required (-i)")
		flag.Usage()
		os.Exit(1)
	}

	if *listEntries {
		runListEntries()
		return
	}

	if *patch == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Error: -patch and -o are required")
		flag.Usage()
		os.Exit(1)
	}

	p, err := unitydelta.ParsePacker(*packer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := unitydelta.Options{
		Input:      *input,
		Patch:      *patch,
		Output:     *output,
		Entry:      *entry,
		Packer:     p,
		XdeltaPath: *xdeltaPath,
		WorkDir:    *workDir,
		KeepWork:   *keepWork,
	}
	if err := unitydelta.Run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runListEntries() {
	entries, err := unitydelta.ListEntries(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Printf("%s\t%d bytes\n", e.Path, e.Size)
	}
}
