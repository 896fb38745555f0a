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

package unitydelta

import (
	"fmt"

	"github.com/ZaparooProject/go-unitydelta/bundle"
)

// Packer selects the compression scheme for the output bundle.
type Packer int

const (
	// PackerOriginal inherits both compression nibbles from the source
	// bundle unchanged.
	PackerOriginal Packer = iota
	PackerNone
	PackerLZ4
	PackerLZMA
)

// ParsePacker parses a packer name as accepted on the command line.
func ParsePacker(name string) (Packer, error) {
	switch name {
	case "", "original":
		return PackerOriginal, nil
	case "none":
		return PackerNone, nil
	case "lz4":
		return PackerLZ4, nil
	case "lzma":
		return PackerLZMA, nil
	default:
		return 0, fmt.Errorf("unknown packer %q: want none, lz4, lzma, or original", name)
	}
}

func (p Packer) String() string {
	switch p {
	case PackerNone:
		return "none"
	case PackerLZ4:
		return "lz4"
	case PackerLZMA:
		return "lzma"
	default:
		return "original"
	}
}

// compressionCode returns the compression code this packer forces, and
// whether it overrides the source's compression at all.
func (p Packer) compressionCode() (code int, overrides bool) {
	switch p {
	case PackerNone:
		return bundle.CompNone, true
	case PackerLZ4:
		return bundle.CompLZ4, true
	case PackerLZMA:
		return bundle.CompLZMA, true
	default:
		return 0, false
	}
}

// Apply replaces the compression nibbles of flags and blockInfoFlags with
// this packer's choice, leaving every other bit untouched. PackerOriginal
// is a no-op, inheriting the source's compression as-is.
func (p Packer) Apply(flags uint32, blockInfoFlags uint16) (uint32, uint16) {
	code, overrides := p.compressionCode()
	if !overrides {
		return flags, blockInfoFlags
	}
	newFlags := (flags &^ uint32(bundle.CompMask)) | uint32(code)
	newBlockInfoFlags := (blockInfoFlags &^ uint16(bundle.CompMask)) | uint16(code)
	return newFlags, newBlockInfoFlags
}
