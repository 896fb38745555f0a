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

	ibin "github.com/ZaparooProject/go-unitydelta/internal/binary"
)

// UnpackToFile rewrites the bundle at bundlePath into a fully uncompressed
// UnityFS file at outputPath: every block's compression bits cleared and
// its compressed_size set equal to its uncompressed_size, with the
// directory entries unchanged (their offsets already address the
// uncompressed stream). This trades file size for a format simple enough
// for external tools to patch as a whole file rather than one entry at a
// time.
func (b *Bundle) UnpackToFile(bundlePath, outputPath string) error {
	in, err := os.Open(bundlePath)
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer in.Close()
	if _, err := in.Seek(b.DataStart, io.SeekStart); err != nil {
		return fmt.Errorf("seek to data region: %w", err)
	}

	dataFlags := (b.Flags &^ uint32(CompMask)) | FlagBlocksAndDirCombined
	uncompressedBlocks := make([]BlockInfo, len(b.Blocks))
	for i, block := range b.Blocks {
		uncompressedBlocks[i] = BlockInfo{
			UncompressedSize: block.UncompressedSize,
			CompressedSize:   block.UncompressedSize,
			Flags:            clearCompressionFlags(block.Flags),
		}
	}

	blockInfoBytes, err := encodeBlockInfoBlob(uncompressedBlocks, b.Entries)
	if err != nil {
		return &PhaseError{Phase: "encode block info", Err: err}
	}
	blockInfoSize := uint32(len(blockInfoBytes))

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()
	bw := bufio.NewWriterSize(out, 1<<20)

	var pos int64
	writeStr := func(s string) error {
		if err := ibin.WriteStringToNull(bw, s); err != nil {
			return err
		}
		pos += int64(len(s)) + 1
		return nil
	}
	if err := writeStr(b.Signature); err != nil {
		return fmt.Errorf("write signature: %w", err)
	}
	if err := ibin.WriteU32BE(bw, b.Version); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	pos += 4
	if err := writeStr(b.VersionPlayer); err != nil {
		return fmt.Errorf("write player version: %w", err)
	}
	if err := writeStr(b.VersionEngine); err != nil {
		return fmt.Errorf("write engine version: %w", err)
	}

	sizeFieldPos := pos
	if err := ibin.WriteU64BE(bw, 0); err != nil {
		return fmt.Errorf("write placeholder size: %w", err)
	}
	pos += 8
	if err := ibin.WriteU32BE(bw, blockInfoSize); err != nil {
		return fmt.Errorf("write compressed block-info size: %w", err)
	}
	pos += 4
	if err := ibin.WriteU32BE(bw, blockInfoSize); err != nil {
		return fmt.Errorf("write uncompressed block-info size: %w", err)
	}
	pos += 4
	if err := ibin.WriteU32BE(bw, dataFlags); err != nil {
		return fmt.Errorf("write flags: %w", err)
	}
	pos += 4

	if b.UsesBlockAlignment {
		n, err := ibin.AlignWriter(bw, pos, alignBoundary)
		if err != nil {
			return fmt.Errorf("align after header: %w", err)
		}
		pos += n
	}

	blockInfoAtEnd := dataFlags&FlagBlockInfoAtEnd != 0
	blockInfoNeedPadding := dataFlags&FlagBlockInfoNeedPadding != 0

	writeData := func() error {
		before := pos
		if err := decompressBlocksTo(in, bw, b.Blocks); err != nil {
			return err
		}
		pos = before + dataTotalSize(b.Blocks)
		return nil
	}

	if blockInfoAtEnd {
		if blockInfoNeedPadding {
			n, err := ibin.AlignWriter(bw, pos, alignBoundary)
			if err != nil {
				return fmt.Errorf("align before data: %w", err)
			}
			pos += n
		}
		if err := writeData(); err != nil {
			return fmt.Errorf("write data: %w", err)
		}
		if _, err := bw.Write(blockInfoBytes); err != nil {
			return fmt.Errorf("write block info: %w", err)
		}
		pos += int64(len(blockInfoBytes))
	} else {
		if _, err := bw.Write(blockInfoBytes); err != nil {
			return fmt.Errorf("write block info: %w", err)
		}
		pos += int64(len(blockInfoBytes))
		if blockInfoNeedPadding {
			n, err := ibin.AlignWriter(bw, pos, alignBoundary)
			if err != nil {
				return fmt.Errorf("align before data: %w", err)
			}
			pos += n
		}
		if err := writeData(); err != nil {
			return fmt.Errorf("write data: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	if _, err := out.WriteAt(beU64(uint64(pos)), sizeFieldPos); err != nil {
		return fmt.Errorf("patch total size: %w", err)
	}
	return nil
}

// dataTotalSize sums every block's uncompressed size: after UnpackToFile's
// rewrite this is exactly how many bytes the original data region expands
// to, and also the byte count DecompressToFile needs to copy.
func dataTotalSize(blocks []BlockInfo) int64 {
	var total int64
	for _, b := range blocks {
		total += int64(b.UncompressedSize)
	}
	return total
}
