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

const expectedSignature = "UnityFS"

// Read parses the UnityFS header and directory of the bundle at path. It
// does not read or decompress the data region; use DecompressToFile,
// UnpackToFile, or ExtractEntry for that.
func Read(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat bundle: %w", err)
	}
	fileLen := st.Size()

	br := bufio.NewReaderSize(f, 64*1024)
	var pos int64

	signature, err := ibin.ReadStringToNull(br)
	if err != nil {
		return nil, fmt.Errorf("%w: read signature: %v", ErrCorrupt, err)
	}
	pos += int64(len(signature)) + 1
	if signature != expectedSignature {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidSignature, signature)
	}

	version, err := ibin.ReadU32BE(br)
	if err != nil {
		return nil, fmt.Errorf("%w: read version: %v", ErrCorrupt, err)
	}
	pos += 4

	versionPlayer, err := ibin.ReadStringToNull(br)
	if err != nil {
		return nil, fmt.Errorf("%w: read player version: %v", ErrCorrupt, err)
	}
	pos += int64(len(versionPlayer)) + 1

	versionEngine, err := ibin.ReadStringToNull(br)
	if err != nil {
		return nil, fmt.Errorf("%w: read engine version: %v", ErrCorrupt, err)
	}
	pos += int64(len(versionEngine)) + 1

	if _, err := ibin.ReadU64BE(br); err != nil { // total bundle size, recomputed on write
		return nil, fmt.Errorf("%w: read total size: %v", ErrCorrupt, err)
	}
	pos += 8

	compressedBlockInfoSize, err := ibin.ReadU32BE(br)
	if err != nil {
		return nil, fmt.Errorf("%w: read compressed block-info size: %v", ErrCorrupt, err)
	}
	pos += 4

	uncompressedBlockInfoSize, err := ibin.ReadU32BE(br)
	if err != nil {
		return nil, fmt.Errorf("%w: read uncompressed block-info size: %v", ErrCorrupt, err)
	}
	pos += 4
	if compressedBlockInfoSize > MaxBlockInfoLen || uncompressedBlockInfoSize > MaxBlockInfoLen {
		return nil, FormatError{Field: "block-info size", Reason: "exceeds maximum allowed length"}
	}

	flags, err := ibin.ReadU32BE(br)
	if err != nil {
		return nil, fmt.Errorf("%w: read flags: %v", ErrCorrupt, err)
	}
	pos += 4

	engineVersion, engineVersionOK := ParseEngineVersion(versionEngine)
	usesNewFlags := engineVersionOK && engineVersion.UsesNewArchiveFlags()

	encryptionFlag := uint32(FlagEncryptionOld)
	if usesNewFlags {
		encryptionFlag = FlagEncryptionNew
	}
	if flags&encryptionFlag != 0 {
		return nil, ErrEncrypted
	}

	usesBlockAlignment := false
	switch {
	case version >= 7:
		n, err := ibin.AlignReader(br, pos, alignBoundary)
		if err != nil {
			return nil, fmt.Errorf("%w: align after header: %v", ErrCorrupt, err)
		}
		pos += n
		usesBlockAlignment = true
	case engineVersionOK && engineVersion.AtLeast(2019, 4, 0):
		aligned, err := ibin.ProbeZeroPadding(br, pos, alignBoundary)
		if err != nil {
			return nil, fmt.Errorf("%w: probe alignment: %v", ErrCorrupt, err)
		}
		if aligned {
			pos += ibin.PaddingForAlignment(pos, alignBoundary)
			usesBlockAlignment = true
		}
	}

	blockInfoAtEnd := flags&FlagBlockInfoAtEnd != 0
	blockInfoBytes := make([]byte, compressedBlockInfoSize)
	if blockInfoAtEnd {
		blockInfoOffset := fileLen - int64(compressedBlockInfoSize)
		if blockInfoOffset < 0 {
			return nil, fmt.Errorf("%w: block-info-at-end offset is negative", ErrShortData)
		}
		if _, err := f.ReadAt(blockInfoBytes, blockInfoOffset); err != nil {
			return nil, fmt.Errorf("%w: read end-of-file block info: %v", ErrShortData, err)
		}
		// The main stream position is unaffected: block info lives past
		// the data region when this flag is set.
	} else {
		if _, err := io.ReadFull(br, blockInfoBytes); err != nil {
			return nil, fmt.Errorf("%w: read inline block info: %v", ErrShortData, err)
		}
		pos += int64(compressedBlockInfoSize)
	}

	decodedBlockInfo, err := decompressBlockInfo(blockInfoBytes, int(uncompressedBlockInfoSize), flags)
	if err != nil {
		return nil, &PhaseError{Phase: "read block info", Err: err}
	}

	blocks, entries, err := decodeBlockInfoBlob(decodedBlockInfo)
	if err != nil {
		return nil, err
	}

	if flags&FlagBlocksAndDirCombined == 0 {
		return nil, ErrMissingCombinedFlag
	}

	var blockInfoFlags uint16
	if len(blocks) > 0 {
		blockInfoFlags = blocks[0].Flags
	}

	if usesNewFlags && flags&FlagBlockInfoNeedPadding != 0 {
		n, err := ibin.AlignReader(br, pos, alignBoundary)
		if err != nil {
			return nil, fmt.Errorf("%w: align before data: %v", ErrCorrupt, err)
		}
		pos += n
	}

	return &Bundle{
		Signature:          signature,
		Version:            version,
		VersionPlayer:      versionPlayer,
		VersionEngine:      versionEngine,
		Flags:              flags,
		Blocks:             blocks,
		Entries:            entries,
		BlockInfoFlags:     blockInfoFlags,
		UsesBlockAlignment: usesBlockAlignment,
		DataStart:          pos,
		engineVersion:      engineVersion,
		engineVersionOK:    engineVersionOK,
		usesNewArchFlags:   usesNewFlags,
	}, nil
}
