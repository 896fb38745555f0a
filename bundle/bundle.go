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

// Package bundle implements the UnityFS asset bundle container format: header
// parsing, block-level compression (none/LZMA/LZ4/LZ4HC), the compressed
// block-info directory blob, and the two write strategies (compressed
// rebuild and fully-uncompressed rewrite) needed to round-trip a patched
// bundle.
package bundle

// Compression codes, packed into the low 6 bits of a block's flags field.
const (
	CompNone  = 0
	CompLZMA  = 1
	CompLZ4   = 2
	CompLZ4HC = 3
	CompLZHAM = 4

	// CompMask isolates the compression code from a flags field.
	CompMask = 0x3F
)

// Bundle-level flag bits.
const (
	// FlagBlocksAndDirCombined must be set: the block-info blob carries
	// both the block list and the directory list in one region.
	FlagBlocksAndDirCombined = 0x40

	// FlagBlockInfoAtEnd indicates the compressed block-info blob is
	// stored at the end of the file rather than immediately following
	// the header.
	FlagBlockInfoAtEnd = 0x80

	// FlagBlockInfoNeedPadding (new flag layout) requires a 16-byte
	// alignment pad between the block-info region and the data region.
	FlagBlockInfoNeedPadding = 0x200

	// FlagEncryptionOld is the encryption bit under the pre-2020 flag
	// layout.
	FlagEncryptionOld = 0x200

	// FlagEncryptionNew is the encryption bit under the post-2020 flag
	// layout.
	FlagEncryptionNew = 0x1400
)

// alignBoundary is the byte alignment UnityFS uses for the data region,
// both for the always-on version>=7 case and the probed 2019.4+ engine case.
const alignBoundary = 16

// lz4ChunkSize is the fixed uncompressed chunk size the Unity packer splits
// LZ4/LZ4HC data into before compressing it block by block.
const lz4ChunkSize = 0x00020000

// BlockInfo describes one block of the bundle's concatenated data stream:
// its size before and after compression, and a flags field whose low 6
// bits select the codec used for this block specifically (mixed-codec
// bundles are legal even though the packer never emits one).
type BlockInfo struct {
	UncompressedSize uint32
	CompressedSize   uint32
	Flags            uint16
}

// Compression returns the codec selector for this block.
func (b BlockInfo) Compression() int {
	return int(b.Flags) & CompMask
}

// DirectoryEntry names one file stored in the bundle's uncompressed data
// stream, addressed by a byte range into that stream (not into the
// on-disk, still-compressed bytes).
type DirectoryEntry struct {
	Offset int64
	Size   int64
	Flags  uint32
	Path   string
}

// Bundle holds the parsed header and directory of a UnityFS file. It does
// not hold file contents; callers use the accessors together with the
// original data path to decompress, extract, or rewrite entries.
type Bundle struct {
	Signature     string
	Version       uint32
	VersionPlayer string
	VersionEngine string

	Flags          uint32
	Blocks         []BlockInfo
	Entries        []DirectoryEntry
	BlockInfoFlags uint16

	// UsesBlockAlignment records whether the header this bundle was
	// parsed from padded to a 16-byte boundary before the block-info (or
	// data) region, so writers reproduce the same layout.
	UsesBlockAlignment bool

	// DataStart is the file offset where the (possibly compressed) data
	// region begins, immediately following the header, alignment
	// padding, and (if not FlagBlockInfoAtEnd) the block-info blob.
	DataStart int64

	engineVersion    EngineVersion
	engineVersionOK  bool
	usesNewArchFlags bool
}

// EngineVersion returns the parsed (major, minor, patch) triple from
// VersionEngine, and whether parsing succeeded.
func (b *Bundle) EngineVersion() (EngineVersion, bool) {
	return b.engineVersion, b.engineVersionOK
}

// UsesNewArchiveFlags reports whether this bundle's encryption and padding
// bits use the post-2020 positions, as determined at parse time from its
// engine version string.
func (b *Bundle) UsesNewArchiveFlags() bool {
	return b.usesNewArchFlags
}

// EncryptionFlag returns the flag bit this bundle's engine version uses to
// signal encryption.
func (b *Bundle) EncryptionFlag() uint32 {
	if b.usesNewArchFlags {
		return FlagEncryptionNew
	}
	return FlagEncryptionOld
}
