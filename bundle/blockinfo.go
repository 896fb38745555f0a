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
	"bytes"
	"fmt"
	"io"

	ibin "github.com/ZaparooProject/go-unitydelta/internal/binary"
)

// blockInfoHashLen is the width of the unused leading hash field in the
// uncompressed block-info blob. The reference packer never populates it
// meaningfully; readers ignore its contents and writers zero it.
const blockInfoHashLen = 16

// decodeBlockInfoBlob parses the uncompressed block-info blob: a 16-byte
// hash, a block count + block list, then an entry count + entry list.
func decodeBlockInfoBlob(data []byte) (blocks []BlockInfo, entries []DirectoryEntry, err error) {
	r := bytes.NewReader(data)
	hash := make([]byte, blockInfoHashLen)
	if _, err := io.ReadFull(r, hash); err != nil {
		return nil, nil, fmt.Errorf("%w: read block-info hash: %v", ErrCorrupt, err)
	}

	blockCount, err := ibin.ReadI32BE(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read block count: %v", ErrCorrupt, err)
	}
	if blockCount < 0 || blockCount > MaxBlocks {
		return nil, nil, FormatError{Field: "block count", Reason: fmt.Sprintf("%d out of range", blockCount)}
	}
	blocks = make([]BlockInfo, 0, blockCount)
	for i := int32(0); i < blockCount; i++ {
		uncompressedSize, err := ibin.ReadU32BE(r)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read block %d uncompressed size: %v", ErrCorrupt, i, err)
		}
		compressedSize, err := ibin.ReadU32BE(r)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read block %d compressed size: %v", ErrCorrupt, i, err)
		}
		flags, err := ibin.ReadU16BE(r)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read block %d flags: %v", ErrCorrupt, i, err)
		}
		blocks = append(blocks, BlockInfo{
			UncompressedSize: uncompressedSize,
			CompressedSize:   compressedSize,
			Flags:            flags,
		})
	}

	entryCount, err := ibin.ReadI32BE(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read entry count: %v", ErrCorrupt, err)
	}
	if entryCount < 0 || entryCount > MaxEntries {
		return nil, nil, FormatError{Field: "entry count", Reason: fmt.Sprintf("%d out of range", entryCount)}
	}
	entries = make([]DirectoryEntry, 0, entryCount)
	for i := int32(0); i < entryCount; i++ {
		offset, err := ibin.ReadI64BE(r)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read entry %d offset: %v", ErrCorrupt, i, err)
		}
		size, err := ibin.ReadI64BE(r)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read entry %d size: %v", ErrCorrupt, i, err)
		}
		flags, err := ibin.ReadU32BE(r)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read entry %d flags: %v", ErrCorrupt, i, err)
		}
		path, err := ibin.ReadStringToNull(r)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read entry %d path: %v", ErrCorrupt, i, err)
		}
		if len(path) > MaxPathLen {
			return nil, nil, FormatError{Field: "entry path", Reason: "exceeds maximum length"}
		}
		entries = append(entries, DirectoryEntry{
			Offset: offset,
			Size:   size,
			Flags:  flags,
			Path:   path,
		})
	}
	return blocks, entries, nil
}

// encodeBlockInfoBlob serializes blocks and entries into the uncompressed
// block-info blob layout decodeBlockInfoBlob reads.
func encodeBlockInfoBlob(blocks []BlockInfo, entries []DirectoryEntry) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(make([]byte, blockInfoHashLen))

	if err := ibin.WriteI32BE(&buf, int32(len(blocks))); err != nil {
		return nil, fmt.Errorf("write block count: %w", err)
	}
	for _, b := range blocks {
		if err := ibin.WriteU32BE(&buf, b.UncompressedSize); err != nil {
			return nil, fmt.Errorf("write block uncompressed size: %w", err)
		}
		if err := ibin.WriteU32BE(&buf, b.CompressedSize); err != nil {
			return nil, fmt.Errorf("write block compressed size: %w", err)
		}
		if err := ibin.WriteU16BE(&buf, b.Flags); err != nil {
			return nil, fmt.Errorf("write block flags: %w", err)
		}
	}

	if err := ibin.WriteI32BE(&buf, int32(len(entries))); err != nil {
		return nil, fmt.Errorf("write entry count: %w", err)
	}
	for _, e := range entries {
		if err := ibin.WriteI64BE(&buf, e.Offset); err != nil {
			return nil, fmt.Errorf("write entry offset: %w", err)
		}
		if err := ibin.WriteI64BE(&buf, e.Size); err != nil {
			return nil, fmt.Errorf("write entry size: %w", err)
		}
		if err := ibin.WriteU32BE(&buf, e.Flags); err != nil {
			return nil, fmt.Errorf("write entry flags: %w", err)
		}
		if err := ibin.WriteStringToNull(&buf, e.Path); err != nil {
			return nil, fmt.Errorf("write entry path: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// decompressBlockInfo decompresses the on-disk block-info blob using the
// codec selected by flags's compression bits.
func decompressBlockInfo(data []byte, uncompressedSize int, flags uint32) ([]byte, error) {
	code := int(flags) & CompMask
	if code == CompNone {
		if len(data) != uncompressedSize {
			return nil, fmt.Errorf("%w: block-info length %d != declared %d", ErrCorrupt, len(data), uncompressedSize)
		}
		return data, nil
	}
	codec, err := GetCodec(code)
	if err != nil {
		return nil, err
	}
	out, err := codec.Decompress(data, uncompressedSize)
	if err != nil {
		return nil, &PhaseError{Phase: "decompress block info", Err: err}
	}
	return out, nil
}

// compressBlockInfo compresses the block-info blob with the codec selected
// by the bundle-level compression code (the low 6 bits of the bundle
// flags). The data blocks' own codes come from the per-block flags and are
// not consulted here.
func compressBlockInfo(data []byte, code int) ([]byte, error) {
	if code == CompNone {
		return data, nil
	}
	codec, err := GetCodec(code)
	if err != nil {
		return nil, err
	}
	out, err := codec.Compress(data)
	if err != nil {
		return nil, &PhaseError{Phase: "compress block info", Err: err}
	}
	return out, nil
}
