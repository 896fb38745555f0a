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

package binary

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadStringToNull reads bytes up to (and consuming) the first 0x00 byte and
// returns them as a string. UnityFS uses this encoding for every embedded
// path and version string.
func ReadStringToNull(r io.ByteReader) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", fmt.Errorf("read null-terminated string: %w", err)
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
		if len(buf) > 1<<20 {
			return "", fmt.Errorf("null-terminated string exceeds 1MB without terminator")
		}
	}
	return string(buf), nil
}

// WriteStringToNull writes s followed by a single 0x00 byte.
func WriteStringToNull(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("write string: %w", err)
	}
	if _, err := w.Write([]byte{0}); err != nil {
		return fmt.Errorf("write string terminator: %w", err)
	}
	return nil
}

// ReadU16BE reads a big-endian uint16 from a sequential reader.
func ReadU16BE(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read u16: %w", err)
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// ReadU32BE reads a big-endian uint32 from a sequential reader.
func ReadU32BE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read u32: %w", err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// ReadU64BE reads a big-endian uint64 from a sequential reader.
func ReadU64BE(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("read u64: %w", err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// ReadI32BE reads a big-endian int32 from a sequential reader.
func ReadI32BE(r io.Reader) (int32, error) {
	v, err := ReadU32BE(r)
	return int32(v), err
}

// ReadI64BE reads a big-endian int64 from a sequential reader.
func ReadI64BE(r io.Reader) (int64, error) {
	v, err := ReadU64BE(r)
	return int64(v), err
}

// WriteU16BE writes a big-endian uint16.
func WriteU16BE(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteU32BE writes a big-endian uint32.
func WriteU32BE(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteU64BE writes a big-endian uint64.
func WriteU64BE(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteI32BE writes a big-endian int32.
func WriteI32BE(w io.Writer, v int32) error {
	return WriteU32BE(w, uint32(v))
}

// WriteI64BE writes a big-endian int64.
func WriteI64BE(w io.Writer, v int64) error {
	return WriteU64BE(w, uint64(v))
}

// PaddingForAlignment returns how many bytes must follow pos to bring it to
// the next multiple of alignment (0 if pos is already aligned).
func PaddingForAlignment(pos, alignment int64) int64 {
	rem := pos % alignment
	if rem == 0 {
		return 0
	}
	return alignment - rem
}

// AlignReader unconditionally skips the padding bytes needed to bring r's
// current position (tracked by the caller via pos) to the next multiple of
// alignment, returning the number of bytes skipped.
func AlignReader(r io.Reader, pos, alignment int64) (int64, error) {
	padding := PaddingForAlignment(pos, alignment)
	if padding == 0 {
		return 0, nil
	}
	if _, err := io.CopyN(io.Discard, r, padding); err != nil {
		return 0, fmt.Errorf("align reader: %w", err)
	}
	return padding, nil
}

// AlignWriter writes zero padding bytes to bring w's current position
// (tracked by the caller via pos) to the next multiple of alignment.
func AlignWriter(w io.Writer, pos, alignment int64) (int64, error) {
	padding := PaddingForAlignment(pos, alignment)
	if padding == 0 {
		return 0, nil
	}
	zeros := make([]byte, padding)
	if _, err := w.Write(zeros); err != nil {
		return 0, fmt.Errorf("align writer: %w", err)
	}
	return padding, nil
}

// bufPeeker is the subset of *bufio.Reader this package's probe helper
// needs: lookahead without consuming, and an explicit commit step.
type bufPeeker interface {
	Peek(n int) ([]byte, error)
	Discard(n int) (int, error)
}

// ProbeZeroPadding peeks the padding bytes needed to align pos to alignment
// and, if they are all zero, discards them from br and reports aligned.
// Otherwise it leaves br untouched so the caller can treat the bytes as
// real data instead. Used for the 2019.4+ engine-version alignment
// probe, which must tell accidental zero padding apart from data that
// happens to start with a run of zero bytes.
func ProbeZeroPadding(br bufPeeker, pos, alignment int64) (aligned bool, err error) {
	padding := PaddingForAlignment(pos, alignment)
	if padding == 0 {
		return false, nil
	}
	buf, err := br.Peek(int(padding))
	if err != nil {
		return false, fmt.Errorf("probe alignment: %w", err)
	}
	for _, b := range buf {
		if b != 0 {
			return false, nil
		}
	}
	if _, err := br.Discard(int(padding)); err != nil {
		return false, fmt.Errorf("probe alignment: discard: %w", err)
	}
	return true, nil
}
