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
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// lzmaDictCap matches AssetsTools.NET/UABEA's LZMA1 encoder defaults for
// UnityFS bundles: an 8MB dictionary with the classic lc=3, lp=0, pb=2
// literal/position coding.
const lzmaDictCap = 0x00800000

func init() {
	RegisterCodec(CompLZMA, func() Codec { return lzmaCodec{} })
}

// lzmaCodec implements UnityFS's on-disk LZMA1 encoding, which stores only
// the 5-byte properties header and omits the 8-byte uncompressed-size field
// a standalone .lzma file would carry (the size instead comes from the
// block's own uncompressed_size field). Decoding synthesizes the missing
// 8 bytes before handing the stream to the library; encoding produces a
// normal 13-byte-header stream and strips bytes 5..13 back off.
type lzmaCodec struct{}

func (lzmaCodec) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	if len(src) < 5 {
		return nil, fmt.Errorf("%w: lzma block shorter than 5-byte properties header", ErrCorrupt)
	}
	header := make([]byte, 13)
	copy(header[:5], src[:5])
	binary.LittleEndian.PutUint64(header[5:], uint64(uncompressedSize))
	full := io.MultiReader(bytes.NewReader(header), bytes.NewReader(src[5:]))

	r, err := lzma.NewReader(full)
	if err != nil {
		return nil, fmt.Errorf("lzma: init decoder: %w", err)
	}
	dst := make([]byte, uncompressedSize)
	if _, err := io.ReadFull(r, dst); err != nil {
		return nil, fmt.Errorf("lzma: decode: %w", err)
	}
	return dst, nil
}

func (lzmaCodec) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	cfg := lzma.WriterConfig{
		Properties:   &lzma.Properties{LC: 3, LP: 0, PB: 2},
		DictCap:      lzmaDictCap,
		Size:         int64(len(src)),
		SizeInHeader: true,
	}
	w, err := cfg.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("lzma: init encoder: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("lzma: encode: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lzma: finalize encoder: %w", err)
	}
	encoded := buf.Bytes()
	if len(encoded) < 13 {
		return nil, fmt.Errorf("%w: lzma encoder produced a stream shorter than its own header", ErrCorrupt)
	}
	// Strip the 8-byte uncompressed-size field (bytes 5:13), keeping only
	// the 5-byte properties header UnityFS expects on disk.
	out := make([]byte, 0, len(encoded)-8)
	out = append(out, encoded[:5]...)
	out = append(out, encoded[13:]...)
	return out, nil
}
