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

// ListEntries reads the bundle at inputPath (resolving an archive-embedded
// path first, same as Run) and returns its directory entries without
// patching anything.
func ListEntries(inputPath string) ([]bundle.DirectoryEntry, error) {
	scr, err := newScratch("", false)
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() { _ = scr.close() }()

	bundlePath, err := resolveInput(inputPath, scr)
	if err != nil {
		return nil, fmt.Errorf("resolve input: %w", err)
	}

	b, err := bundle.Read(bundlePath)
	if err != nil {
		return nil, &bundle.PhaseError{Phase: "read bundle", Err: err}
	}
	return b.Entries, nil
}
