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

import "fmt"

func init() {
	RegisterCodec(CompNone, func() Codec { return noneCodec{} })
}

// noneCodec passes data through unchanged.
type noneCodec struct{}

func (noneCodec) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	if len(src) != uncompressedSize {
		return nil, fmt.Errorf("%w: uncompressed block length %d != declared %d", ErrCorrupt, len(src), uncompressedSize)
	}
	return src, nil
}

func (noneCodec) Compress(src []byte) ([]byte, error) {
	return src, nil
}
