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

// Package delta wraps the external xdelta3 binary, resolving it on disk and
// applying a patch against a source file.
package delta

import "errors"

// ErrEngineFailed indicates the xdelta3 process exited with a non-zero
// status during Apply.
var ErrEngineFailed = errors.New("xdelta3 exited with a non-zero status")

// NotFoundError indicates no xdelta3 binary could be located by any
// resolution step.
type NotFoundError struct {
	Tried []string
}

func (e NotFoundError) Error() string {
	msg := "xdelta3 binary not found, tried:"
	for _, p := range e.Tried {
		msg += " " + p
	}
	return msg
}
