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
	"sync"
)

// Codec compresses and decompresses one block's worth of bundle data.
// Unlike a streaming codec, both directions operate on whole in-memory
// blocks: UnityFS blocks are capped at lz4ChunkSize (LZ4/LZ4HC) or by the
// single-block 32-bit size limit (none/LZMA), so there is never a reason
// to stream one.
type Codec interface {
	// Decompress decompresses src, which is exactly compressedSize bytes,
	// into a buffer of exactly uncompressedSize bytes.
	Decompress(src []byte, uncompressedSize int) ([]byte, error)

	// Compress compresses src and returns the on-disk compressed bytes.
	Compress(src []byte) ([]byte, error)
}

var (
	codecRegistryMu sync.RWMutex
	codecRegistry   = make(map[int]func() Codec)
)

// RegisterCodec registers a codec factory under a compression code (one of
// the Comp* constants). Later registrations for the same code replace
// earlier ones, mirroring the teacher's registry.
func RegisterCodec(code int, factory func() Codec) {
	codecRegistryMu.Lock()
	defer codecRegistryMu.Unlock()
	codecRegistry[code] = factory
}

// GetCodec returns a new codec instance for the given compression code.
func GetCodec(code int) (Codec, error) {
	codecRegistryMu.RLock()
	factory, ok := codecRegistry[code]
	codecRegistryMu.RUnlock()
	if !ok {
		if code == CompLZHAM {
			return nil, ErrLZHAM
		}
		return nil, fmt.Errorf("%w: code %d", ErrUnsupportedCodec, code)
	}
	return factory(), nil
}

// clearCompressionFlags clears the low 6 bits of a block flags field,
// leaving any higher bits (e.g. per-block metadata flags) untouched. Used
// when a block is stored raw because compressing it would not shrink it.
func clearCompressionFlags(flags uint16) uint16 {
	return flags &^ CompMask
}
