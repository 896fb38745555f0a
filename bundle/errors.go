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

import "errors"

// Allocation limits guarding against malformed or hostile bundles.
const (
	// MaxBlockInfoLen is the maximum compressed block-info blob size (100MB).
	MaxBlockInfoLen = 100 * 1024 * 1024

	// MaxBlocks is the maximum number of blocks in a single bundle.
	MaxBlocks = 1_000_000

	// MaxEntries is the maximum number of directory entries in a single bundle.
	MaxEntries = 1_000_000

	// MaxPathLen is the maximum length of a null-terminated path string.
	MaxPathLen = 4096
)

// Sentinel errors for conditions callers may want to test with errors.Is.
var (
	// ErrInvalidSignature indicates the file does not start with "UnityFS".
	ErrInvalidSignature = errors.New("invalid bundle signature: expected UnityFS")

	// ErrEncrypted indicates the bundle's encryption bit is set.
	ErrEncrypted = errors.New("encrypted bundles are not supported")

	// ErrUnsupportedCodec indicates an unrecognized or unsupported compression code.
	ErrUnsupportedCodec = errors.New("unsupported compression codec")

	// ErrLZHAM indicates the LZHAM compression code was requested.
	ErrLZHAM = errors.New("LZHAM compression is not supported")

	// ErrMissingCombinedFlag indicates FLAG_BLOCKS_AND_DIR_INFO_COMBINED is not set.
	ErrMissingCombinedFlag = errors.New("bundle flags must include blocks-and-directory-combined (0x40)")

	// ErrTooLarge indicates data exceeds a single-block codec's 32-bit size limit.
	ErrTooLarge = errors.New("data exceeds 2^32-1 bytes, too large for a single-block codec")

	// ErrCorrupt indicates structurally invalid block-info or directory data.
	ErrCorrupt = errors.New("corrupt bundle structure")

	// ErrShortData indicates the data file is shorter than entries or blocks declare.
	ErrShortData = errors.New("data shorter than declared by blocks or entries")
)

// FormatError describes a structurally invalid bundle field, naming the field
// and why it was rejected.
type FormatError struct {
	Field  string
	Reason string
}

func (e FormatError) Error() string {
	return "invalid bundle " + e.Field + ": " + e.Reason
}

// PhaseError wraps an underlying error with the codec phase that failed, so
// callers and logs can tell "decompress block 3" from "write bundle" without
// parsing the message.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return e.Phase + ": " + e.Err.Error()
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
