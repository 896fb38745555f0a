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
	"math"
	"os"

	ibin "github.com/ZaparooProject/go-unitydelta/internal/binary"
)

// CompressDataBlocks compresses the flat data file at dataPath into
// outputPath, splitting into lz4ChunkSize chunks when the codec is
// LZ4/LZ4HC (matching the reference packer's chunking) or treating the
// whole file as a single block for none/LZMA. Any chunk whose compressed
// form would not be smaller than its input is stored raw instead, with its
// block's compression bits cleared, matching the reference packer's
// "don't pay for compression that doesn't help" rule.
func CompressDataBlocks(dataPath, outputPath string, blockInfoFlags uint16) ([]BlockInfo, error) {
	code := int(blockInfoFlags) & CompMask

	st, err := os.Stat(dataPath)
	if err != nil {
		return nil, fmt.Errorf("stat data: %w", err)
	}
	dataLen := st.Size()

	if code == CompNone || code == CompLZMA {
		if dataLen > math.MaxUint32 {
			return nil, ErrTooLarge
		}
	}

	switch code {
	case CompNone:
		if err := copyFile(dataPath, outputPath); err != nil {
			return nil, err
		}
		return []BlockInfo{{
			UncompressedSize: uint32(dataLen),
			CompressedSize:   uint32(dataLen),
			Flags:            blockInfoFlags,
		}}, nil

	case CompLZMA:
		return compressSingleBlockLZMA(dataPath, outputPath, dataLen, blockInfoFlags)

	case CompLZ4, CompLZ4HC:
		return compressChunkedLZ4(dataPath, outputPath, blockInfoFlags)

	case CompLZHAM:
		return nil, ErrLZHAM

	default:
		return nil, fmt.Errorf("%w: code %d", ErrUnsupportedCodec, code)
	}
}

func compressSingleBlockLZMA(dataPath, outputPath string, dataLen int64, blockInfoFlags uint16) ([]BlockInfo, error) {
	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	codec, err := GetCodec(CompLZMA)
	if err != nil {
		return nil, err
	}
	compressed, err := codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("lzma compress: %w", err)
	}
	if int64(len(compressed)) >= dataLen {
		if err := os.WriteFile(outputPath, raw, 0o644); err != nil {
			return nil, fmt.Errorf("write stored data: %w", err)
		}
		return []BlockInfo{{
			UncompressedSize: uint32(dataLen),
			CompressedSize:   uint32(dataLen),
			Flags:            clearCompressionFlags(blockInfoFlags),
		}}, nil
	}
	if err := os.WriteFile(outputPath, compressed, 0o644); err != nil {
		return nil, fmt.Errorf("write compressed data: %w", err)
	}
	return []BlockInfo{{
		UncompressedSize: uint32(dataLen),
		CompressedSize:   uint32(len(compressed)),
		Flags:            blockInfoFlags,
	}}, nil
}

func compressChunkedLZ4(dataPath, outputPath string, blockInfoFlags uint16) ([]BlockInfo, error) {
	in, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("open data: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create compressed data: %w", err)
	}
	defer out.Close()
	bw := bufio.NewWriterSize(out, 1<<20)

	codec, err := GetCodec(int(blockInfoFlags) & CompMask)
	if err != nil {
		return nil, err
	}

	var blocks []BlockInfo
	chunk := make([]byte, lz4ChunkSize)
	for {
		n, readErr := io.ReadFull(in, chunk)
		if n == 0 {
			if readErr == io.EOF {
				break
			}
			return nil, fmt.Errorf("read chunk: %w", readErr)
		}
		buf := chunk[:n]
		compressed, err := codec.Compress(buf)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress chunk: %w", err)
		}
		if len(compressed) >= len(buf) {
			if _, err := bw.Write(buf); err != nil {
				return nil, fmt.Errorf("write stored chunk: %w", err)
			}
			blocks = append(blocks, BlockInfo{
				UncompressedSize: uint32(n),
				CompressedSize:   uint32(n),
				Flags:            clearCompressionFlags(blockInfoFlags),
			})
		} else {
			if _, err := bw.Write(compressed); err != nil {
				return nil, fmt.Errorf("write compressed chunk: %w", err)
			}
			blocks = append(blocks, BlockInfo{
				UncompressedSize: uint32(n),
				CompressedSize:   uint32(len(compressed)),
				Flags:            blockInfoFlags,
			})
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read chunk: %w", readErr)
		}
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flush compressed data: %w", err)
	}
	return blocks, nil
}

// CompressDataBlocksWithLayout compresses dataPath into outputPath using a
// caller-supplied block layout instead of CompressDataBlocks' own chunking
// policy: each layout block's UncompressedSize bytes are read in order and
// compressed independently with the code in blockInfoFlags, falling back to
// stored bytes (compression bits cleared) when compression doesn't shrink
// the chunk. Used when the caller already has a block-boundary-valid data
// file, e.g. the patched uncompressed-rewrite bundle's own block layout.
func CompressDataBlocksWithLayout(dataPath, outputPath string, layout []BlockInfo, blockInfoFlags uint16) ([]BlockInfo, error) {
	code := int(blockInfoFlags) & CompMask
	if code == CompLZHAM {
		return nil, ErrLZHAM
	}

	in, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("open data: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create compressed data: %w", err)
	}
	defer out.Close()
	bw := bufio.NewWriterSize(out, 1<<20)

	var codec Codec
	if code != CompNone {
		codec, err = GetCodec(code)
		if err != nil {
			return nil, err
		}
	}

	blocks := make([]BlockInfo, 0, len(layout))
	for i, layoutBlock := range layout {
		raw := make([]byte, layoutBlock.UncompressedSize)
		if _, err := io.ReadFull(in, raw); err != nil {
			return nil, fmt.Errorf("read layout block %d: %w", i, err)
		}

		if code == CompNone {
			if _, err := bw.Write(raw); err != nil {
				return nil, fmt.Errorf("write layout block %d: %w", i, err)
			}
			blocks = append(blocks, BlockInfo{
				UncompressedSize: layoutBlock.UncompressedSize,
				CompressedSize:   layoutBlock.UncompressedSize,
				Flags:            blockInfoFlags,
			})
			continue
		}

		compressed, err := codec.Compress(raw)
		if err != nil {
			return nil, fmt.Errorf("compress layout block %d: %w", i, err)
		}
		if len(compressed) >= len(raw) {
			if _, err := bw.Write(raw); err != nil {
				return nil, fmt.Errorf("write stored layout block %d: %w", i, err)
			}
			blocks = append(blocks, BlockInfo{
				UncompressedSize: layoutBlock.UncompressedSize,
				CompressedSize:   layoutBlock.UncompressedSize,
				Flags:            clearCompressionFlags(blockInfoFlags),
			})
			continue
		}
		if _, err := bw.Write(compressed); err != nil {
			return nil, fmt.Errorf("write compressed layout block %d: %w", i, err)
		}
		blocks = append(blocks, BlockInfo{
			UncompressedSize: layoutBlock.UncompressedSize,
			CompressedSize:   uint32(len(compressed)),
			Flags:            blockInfoFlags,
		})
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flush compressed data: %w", err)
	}
	return blocks, nil
}

// WriteBundle writes a complete UnityFS file at outputPath, reproducing b's
// header fields and alignment choice but with entries, dataFlags (the
// bundle-level flags field, including the requested compression code) and
// blockInfoFlags (the per-block flags template used when compressing
// dataPath) replacing the original's. dataPath holds the bundle's flat,
// already-decompressed data stream.
func WriteBundle(b *Bundle, outputPath, dataPath string, entries []DirectoryEntry, dataFlags uint32, blockInfoFlags uint16) error {
	code := int(dataFlags) & CompMask
	if code == CompLZHAM {
		return ErrLZHAM
	}
	if dataFlags&FlagBlocksAndDirCombined == 0 {
		return ErrMissingCombinedFlag
	}

	compressedDataPath := outputPath + ".data.tmp"
	defer os.Remove(compressedDataPath)

	blocks, err := CompressDataBlocks(dataPath, compressedDataPath, blockInfoFlags)
	if err != nil {
		return &PhaseError{Phase: "compress data blocks", Err: err}
	}

	return writeBundleFile(b, outputPath, compressedDataPath, blocks, entries, dataFlags)
}

// WriteBundleWithLayout writes a complete UnityFS file reusing the block
// sizes of a caller-supplied layout instead of CompressDataBlocks' own
// chunking policy. Each block is compressed with the code in
// blockInfoFlags; the layout blocks' own flags are not used. Used by the
// patch orchestrator when it already has a block-boundary-valid data file, e.g. reusing the
// patched uncompressed-rewrite bundle's own layout.
func WriteBundleWithLayout(b *Bundle, outputPath, dataPath string, entries []DirectoryEntry, dataFlags uint32, blockInfoFlags uint16, layoutBlocks []BlockInfo) error {
	code := int(dataFlags) & CompMask
	if code == CompLZHAM {
		return ErrLZHAM
	}
	if dataFlags&FlagBlocksAndDirCombined == 0 {
		return ErrMissingCombinedFlag
	}

	compressedDataPath := outputPath + ".data.tmp"
	defer os.Remove(compressedDataPath)

	blocks, err := CompressDataBlocksWithLayout(dataPath, compressedDataPath, layoutBlocks, blockInfoFlags)
	if err != nil {
		return &PhaseError{Phase: "compress data blocks", Err: err}
	}

	return writeBundleFile(b, outputPath, compressedDataPath, blocks, entries, dataFlags)
}

// writeBundleFile emits the UnityFS header, block-info blob, and already
// block-compressed data at compressedDataPath, then back-patches the
// 64-bit total-size field. Shared by WriteBundle and WriteBundleWithLayout,
// which differ only in how compressedDataPath and blocks were produced.
func writeBundleFile(b *Bundle, outputPath, compressedDataPath string, blocks []BlockInfo, entries []DirectoryEntry, dataFlags uint32) error {
	code := int(dataFlags) & CompMask

	blockInfoBytes, err := encodeBlockInfoBlob(blocks, entries)
	if err != nil {
		return &PhaseError{Phase: "encode block info", Err: err}
	}
	uncompressedBlockInfoSize := uint32(len(blockInfoBytes))

	compressedBlockInfoBytes, err := compressBlockInfo(blockInfoBytes, code)
	if err != nil {
		return &PhaseError{Phase: "compress block info", Err: err}
	}
	compressedBlockInfoSize := uint32(len(compressedBlockInfoBytes))

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
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
	if err := ibin.WriteU64BE(bw, 0); err != nil { // patched below once the final length is known
		return fmt.Errorf("write placeholder size: %w", err)
	}
	pos += 8
	if err := ibin.WriteU32BE(bw, compressedBlockInfoSize); err != nil {
		return fmt.Errorf("write compressed block-info size: %w", err)
	}
	pos += 4
	if err := ibin.WriteU32BE(bw, uncompressedBlockInfoSize); err != nil {
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

	writeCompressedData := func() error {
		f, err := os.Open(compressedDataPath)
		if err != nil {
			return fmt.Errorf("open compressed data: %w", err)
		}
		defer f.Close()
		n, err := io.Copy(bw, f)
		if err != nil {
			return fmt.Errorf("copy compressed data: %w", err)
		}
		pos += n
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
		if err := writeCompressedData(); err != nil {
			return err
		}
		if _, err := bw.Write(compressedBlockInfoBytes); err != nil {
			return fmt.Errorf("write block info: %w", err)
		}
		pos += int64(len(compressedBlockInfoBytes))
	} else {
		if _, err := bw.Write(compressedBlockInfoBytes); err != nil {
			return fmt.Errorf("write block info: %w", err)
		}
		pos += int64(len(compressedBlockInfoBytes))
		if blockInfoNeedPadding {
			n, err := ibin.AlignWriter(bw, pos, alignBoundary)
			if err != nil {
				return fmt.Errorf("align before data: %w", err)
			}
			pos += n
		}
		if err := writeCompressedData(); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush bundle: %w", err)
	}

	if _, err := out.WriteAt(beU64(uint64(pos)), sizeFieldPos); err != nil {
		return fmt.Errorf("patch total size: %w", err)
	}
	return nil
}

func beU64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// RebuildDataFile writes a new flat data file to outputPath: every entry's
// bytes copied verbatim from dataPath (itself produced by
// Bundle.DecompressToFile), except entryIndex, whose bytes come from
// patchedEntryPath instead. It returns entries with offsets and sizes
// recomputed for the new, possibly resized, layout.
func RebuildDataFile(dataPath string, entries []DirectoryEntry, entryIndex int, patchedEntryPath, outputPath string) ([]DirectoryEntry, error) {
	if entryIndex < 0 || entryIndex >= len(entries) {
		return nil, fmt.Errorf("%w: entry index %d out of range", ErrCorrupt, entryIndex)
	}

	in, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("open data: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("create data: %w", err)
	}
	defer out.Close()
	bw := bufio.NewWriterSize(out, 1<<20)

	patchedSt, err := os.Stat(patchedEntryPath)
	if err != nil {
		return nil, fmt.Errorf("stat patched entry: %w", err)
	}

	newEntries := make([]DirectoryEntry, 0, len(entries))
	var offset int64
	for i, entry := range entries {
		var size int64
		if i == entryIndex {
			patched, err := os.Open(patchedEntryPath)
			if err != nil {
				return nil, fmt.Errorf("open patched entry: %w", err)
			}
			_, err = io.Copy(bw, patched)
			patched.Close()
			if err != nil {
				return nil, fmt.Errorf("copy patched entry: %w", err)
			}
			size = patchedSt.Size()
		} else {
			if _, err := in.Seek(entry.Offset, io.SeekStart); err != nil {
				return nil, fmt.Errorf("seek entry %d: %w", i, err)
			}
			if _, err := io.CopyN(bw, in, entry.Size); err != nil {
				return nil, fmt.Errorf("copy entry %d: %w", i, err)
			}
			size = entry.Size
		}
		newEntries = append(newEntries, DirectoryEntry{
			Offset: offset,
			Size:   size,
			Flags:  entry.Flags,
			Path:   entry.Path,
		})
		offset += size
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flush data: %w", err)
	}
	return newEntries, nil
}

func copyFile(srcPath, dstPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", srcPath, err)
	}
	defer src.Close()
	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", dstPath, err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy %s to %s: %w", srcPath, dstPath, err)
	}
	return nil
}
