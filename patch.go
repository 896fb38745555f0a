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

package unitydelta

import (
	"fmt"
	"io"
	"os"

	"github.com/ZaparooProject/go-unitydelta/bundle"
	"github.com/ZaparooProject/go-unitydelta/delta"
)

// Options configures a single orchestrator run.
type Options struct {
	Input  string // bundle path, or an archive-embedded combined path
	Patch  string // xdelta3 patch file
	Output string // output bundle path

	Entry  string // explicit entry selector; empty means auto-select/auto-detect
	Packer Packer

	XdeltaPath string // explicit xdelta3 binary path; empty resolves per delta.Resolve
	WorkDir    string // scratch parent directory; empty uses the current directory
	KeepWork   bool
}

// Run patches Input with Patch and writes the result to Output, choosing
// entry-mode when an explicit entry is given or the bundle has exactly one
// entry, and whole-bundle mode otherwise (a multi-entry bundle with no
// selector, where no single target is known up front).
func Run(opts Options) error {
	if _, err := os.Stat(opts.Input); err != nil {
		return fmt.Errorf("input bundle %s: %w", opts.Input, err)
	}
	if _, err := os.Stat(opts.Patch); err != nil {
		return fmt.Errorf("patch file %s: %w", opts.Patch, err)
	}

	engine, err := delta.Resolve(opts.XdeltaPath)
	if err != nil {
		return fmt.Errorf("resolve delta engine: %w", err)
	}

	scr, err := newScratch(opts.WorkDir, opts.KeepWork)
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if cerr := scr.close(); cerr != nil {
			logWarn("%v", cerr)
		}
	}()

	bundlePath, err := resolveInput(opts.Input, scr)
	if err != nil {
		return fmt.Errorf("resolve input: %w", err)
	}

	b, err := bundle.Read(bundlePath)
	if err != nil {
		return &bundle.PhaseError{Phase: "read bundle", Err: err}
	}
	if len(b.Entries) == 0 {
		return ErrNoEntries
	}

	if opts.Entry != "" || len(b.Entries) == 1 {
		return runEntryMode(b, bundlePath, opts, engine, scr)
	}
	return runWholeBundleMode(b, bundlePath, opts, engine, scr)
}

func runEntryMode(b *bundle.Bundle, bundlePath string, opts Options, engine *delta.Engine, scr *scratch) error {
	entryIndex, err := SelectEntry(b.Entries, opts.Entry)
	if err != nil {
		return err
	}
	entry := b.Entries[entryIndex]
	fmt.Fprintf(os.Stderr, "Selected entry: %s (%d bytes)\n", entry.Path, entry.Size)

	dataPath := scr.path("bundle.data")
	start := logStepStart("Uncompressing bundle")
	if err := b.DecompressToFile(bundlePath, dataPath); err != nil {
		return fmt.Errorf("decompress bundle: %w", err)
	}
	logStepDone("Uncompress", start)

	entryPath := scr.path("entry.bin")
	start = logStepStart("Extracting entry")
	if err := bundle.ExtractEntry(dataPath, entry, entryPath); err != nil {
		return fmt.Errorf("extract entry: %w", err)
	}
	logStepDone("Extract", start)

	patchedEntryPath := scr.path("entry_patched.bin")
	start = logStepStart("Applying xdelta patch")
	if err := engine.Apply(entryPath, opts.Patch, patchedEntryPath); err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}
	logStepDone("Patch", start)

	newDataPath := scr.path("bundle_patched.data")
	newEntries, err := bundle.RebuildDataFile(dataPath, b.Entries, entryIndex, patchedEntryPath, newDataPath)
	if err != nil {
		return fmt.Errorf("rebuild data file: %w", err)
	}

	dataFlags, blockInfoFlags := opts.Packer.Apply(b.Flags, b.BlockInfoFlags)

	start = logStepStart("Writing bundle")
	if err := bundle.WriteBundle(b, opts.Output, newDataPath, newEntries, dataFlags, blockInfoFlags); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	logStepDone("Write", start)
	return nil
}

// runWholeBundleMode patches every byte of the bundle's uncompressed form at
// once: no entry selection is needed, so it is the strategy used for
// multi-entry bundles when the caller did not name a target entry.
func runWholeBundleMode(b *bundle.Bundle, bundlePath string, opts Options, engine *delta.Engine, scr *scratch) error {
	uncompressedPath := scr.path("bundle_uncompressed.bin")
	start := logStepStart("Rewriting bundle uncompressed")
	if err := b.UnpackToFile(bundlePath, uncompressedPath); err != nil {
		return fmt.Errorf("unpack bundle: %w", err)
	}
	logStepDone("Rewrite", start)

	patchedPath := scr.path("bundle_patched.bin")
	start = logStepStart("Applying xdelta patch")
	if err := engine.Apply(uncompressedPath, opts.Patch, patchedPath); err != nil {
		return fmt.Errorf("apply patch: %w", err)
	}
	logStepDone("Patch", start)

	patched, err := bundle.Read(patchedPath)
	if err != nil {
		return &bundle.PhaseError{Phase: "read patched bundle", Err: err}
	}

	maxEnd := int64(0)
	for _, e := range patched.Entries {
		if end := e.Offset + e.Size; end > maxEnd {
			maxEnd = end
		}
	}
	patchedDataLen := dataBlocksTotal(patched.Blocks)

	dataPath := scr.path("bundle_patched.data")
	var layout []bundle.BlockInfo
	if patchedDataLen >= maxEnd {
		start = logStepStart("Uncompressing patched bundle")
		if err := patched.DecompressToFile(patchedPath, dataPath); err != nil {
			return fmt.Errorf("decompress patched bundle: %w", err)
		}
		logStepDone("Uncompress", start)
		layout = patched.Blocks
	} else {
		logWarn("patched block-info covers fewer bytes (%d) than entries require (%d); falling back to raw data-region copy", patchedDataLen, maxEnd)
		if err := copyRawDataRegion(patchedPath, patched.DataStart, dataPath); err != nil {
			return fmt.Errorf("copy raw data region: %w", err)
		}
		// The original pre-patch uncompressed layout only matches the
		// fallback data when its total size agrees exactly; otherwise no
		// layout reuse is safe and WriteBundle must re-chunk from scratch.
		preLayout, err := bundle.Read(uncompressedPath)
		if err == nil && dataBlocksTotal(preLayout.Blocks) == fallbackSize(dataPath) {
			layout = preLayout.Blocks
		}
	}

	dataFlags, blockInfoFlags := opts.Packer.Apply(b.Flags, b.BlockInfoFlags)

	start = logStepStart("Writing bundle")
	var writeErr error
	if layout != nil {
		writeErr = bundle.WriteBundleWithLayout(b, opts.Output, dataPath, patched.Entries, dataFlags, blockInfoFlags, layout)
	} else {
		writeErr = bundle.WriteBundle(b, opts.Output, dataPath, patched.Entries, dataFlags, blockInfoFlags)
	}
	if writeErr != nil {
		return fmt.Errorf("write bundle: %w", writeErr)
	}
	logStepDone("Write", start)
	return nil
}

func dataBlocksTotal(blocks []bundle.BlockInfo) int64 {
	var total int64
	for _, blk := range blocks {
		total += int64(blk.UncompressedSize)
	}
	return total
}

func fallbackSize(path string) int64 {
	st, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return st.Size()
}

func copyRawDataRegion(srcPath string, dataStart int64, outputPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer src.Close()
	if _, err := src.Seek(dataStart, io.SeekStart); err != nil {
		return fmt.Errorf("seek to data region: %w", err)
	}
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer out.Close()
	if _, err := out.ReadFrom(src); err != nil {
		return fmt.Errorf("copy raw data region: %w", err)
	}
	return nil
}
