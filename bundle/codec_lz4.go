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
	"fmt"

	goz4x "github.com/harriteja/GoZ4X"
)

// lz4HCLevel matches AssetsTools.NET Pack, which always compresses with
// LZ4HC at level 9 regardless of whether the bundle requested LZ4 (2) or
// LZ4HC (3).
const lz4HCLevel = 9

func init() {
	RegisterCodec(CompLZ4, func() Codec { return lz4Codec{} })
	RegisterCodec(CompLZ4HC, func() Codec { return lz4Codec{} })
}

// lz4Codec implements Unity's block-format LZ4/LZ4HC (no frame header, one
// call per block).
type lz4Codec struct{}

func (lz4Codec) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	dst, err := goz4x.DecompressBlock(src, nil, uncompressedSize)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if len(dst) != uncompressedSize {
		return nil, fmt.Errorf("%w: lz4 block decompressed to %d bytes, expected %d", ErrCorrupt, len(dst), uncompressedSize)
	}
	return dst, nil
}

func (lz4Codec) Compress(src []byte) ([]byte, error) {
	dst, err := goz4x.CompressBlockLevel(src, nil, lz4HCLevel)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	return dst, nil
}
