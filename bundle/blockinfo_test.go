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

import "testing"

func TestBlockInfoBlob_RoundTrip(t *testing.T) {
	t.Parallel()

	blocks := []BlockInfo{
		{UncompressedSize: 1024, CompressedSize: 512, Flags: CompLZ4},
		{UncompressedSize: 2048, CompressedSize: 2048, Flags: CompNone},
	}
	entries := []DirectoryEntry{
		{Offset: 0, Size: 100, Flags: 4, Path: "CAB-abc/asset"},
		{Offset: 100, Size: 924, Flags: 4, Path: "CAB-abc/asset.resS"},
	}

	encoded, err := encodeBlockInfoBlob(blocks, entries)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	gotBlocks, gotEntries, err := decodeBlockInfoBlob(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(gotBlocks) != len(blocks) {
		t.Fatalf("got %d blocks, want %d", len(gotBlocks), len(blocks))
	}
	for i, b := range blocks {
		if gotBlocks[i] != b {
			t.Errorf("block %d = %+v, want %+v", i, gotBlocks[i], b)
		}
	}

	if len(gotEntries) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(gotEntries), len(entries))
	}
	for i, e := range entries {
		if gotEntries[i] != e {
			t.Errorf("entry %d = %+v, want %+v", i, gotEntries[i], e)
		}
	}
}

func TestBlockInfoBlob_EmptyBlocksAndEntries(t *testing.T) {
	t.Parallel()

	encoded, err := encodeBlockInfoBlob(nil, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	blocks, entries, err := decodeBlockInfoBlob(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(blocks) != 0 || len(entries) != 0 {
		t.Errorf("got %d blocks, %d entries, want 0, 0", len(blocks), len(entries))
	}
}

func TestDecodeBlockInfoBlob_RejectsOversizedCounts(t *testing.T) {
	t.Parallel()

	// A block count field that claims far more blocks than MaxBlocks allows.
	data := make([]byte, blockInfoHashLen+4)
	data[blockInfoHashLen] = 0x7F // top byte of a huge big-endian int32

	if _, _, err := decodeBlockInfoBlob(data); err == nil {
		t.Error("expected error for oversized block count, got nil")
	}
}

func TestCompressDecompressBlockInfo_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, code := range []int{CompNone, CompLZ4, CompLZMA} {
		code := code
		t.Run(string(rune('A'+code)), func(t *testing.T) {
			t.Parallel()

			blocks := []BlockInfo{{UncompressedSize: 64, CompressedSize: 64, Flags: uint16(code)}}
			entries := []DirectoryEntry{{Offset: 0, Size: 64, Path: "a/b"}}
			blob, err := encodeBlockInfoBlob(blocks, entries)
			if err != nil {
				t.Fatalf("encode blob: %v", err)
			}

			compressed, err := compressBlockInfo(blob, code)
			if err != nil {
				t.Fatalf("compress: %v", err)
			}

			flags := uint32(code)
			decompressed, err := decompressBlockInfo(compressed, len(blob), flags)
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}

			gotBlocks, gotEntries, err := decodeBlockInfoBlob(decompressed)
			if err != nil {
				t.Fatalf("decode round-tripped blob: %v", err)
			}
			if len(gotBlocks) != 1 || gotBlocks[0] != blocks[0] {
				t.Errorf("blocks mismatch: got %+v", gotBlocks)
			}
			if len(gotEntries) != 1 || gotEntries[0] != entries[0] {
				t.Errorf("entries mismatch: got %+v", gotEntries)
			}
		})
	}
}
