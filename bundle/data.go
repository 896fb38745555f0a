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

package bundle

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// DecompressToFile decompresses the full data region of the bundle at
// bundlePath (whose layout is described by b) into a flat file at
// outputPath: one concatenated stream of every block's uncompressed bytes,
// in block order.
func (b *Bundle) DecompressToFile(bundlePath, outputPath string) error {
	in, err := os.Open(bundlePath)
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer in.Close()
	if _, err := in.Seek(b.DataStart, io.SeekStart); err != nil {
		return fmt.Errorf("seek to data region: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	bw := bufio.NewWriterSize(out, 1<<20)
	if err := decompressBlocksTo(bufio.NewReaderSize(in, 1<<20), bw, b.Blocks); err != nil {
		return &PhaseError{Phase: "decompress bundle data", Err: err}
	}
	return bw.Flush()
}

// decompressBlocksTo reads blocks sequentially from r, decompressing each
// per its own flags, and writes the concatenated uncompressed bytes to w.
func decompressBlocksTo(r io.Reader, w io.Writer, blocks []BlockInfo) error {
	for i, block := range blocks {
		code := block.Compression()
		if code == CompNone {
			if _, err := io.CopyN(w, r, int64(block.CompressedSize)); err != nil {
				return fmt.Errorf("block %d: copy stored bytes: %w", i, err)
			}
			continue
		}
		compressed := make([]byte, block.CompressedSize)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return fmt.Errorf("block %d: read compressed bytes: %w", i, err)
		}
		codec, err := GetCodec(code)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		decoded, err := codec.Decompress(compressed, int(block.UncompressedSize))
		if err != nil {
			return fmt.Errorf("block %d: decompress: %w", i, err)
		}
		if _, err := w.Write(decoded); err != nil {
			return fmt.Errorf("block %d: write decompressed bytes: %w", i, err)
		}
	}
	return nil
}

// ExtractEntry copies entry's bytes out of the decompressed data file (as
// produced by DecompressToFile) into outputPath.
func ExtractEntry(dataPath string, entry DirectoryEntry, outputPath string) error {
	in, err := os.Open(dataPath)
	if err != nil {
		return fmt.Errorf("open data: %w", err)
	}
	defer in.Close()
	if _, err := in.Seek(entry.Offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek to entry: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create entry output: %w", err)
	}
	defer out.Close()

	if _, err := io.CopyN(out, in, entry.Size); err != nil {
		return fmt.Errorf("copy entry bytes: %w", err)
	}
	return nil
}
